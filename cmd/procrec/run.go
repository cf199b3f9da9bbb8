//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ja7ad/procrec/pkg/config"
	"github.com/ja7ad/procrec/pkg/interrupt"
	"github.com/ja7ad/procrec/pkg/report"
	"github.com/ja7ad/procrec/pkg/sampler"
	"github.com/ja7ad/procrec/pkg/system/proc"
	"github.com/ja7ad/procrec/pkg/system/spawn"
	"github.com/ja7ad/procrec/pkg/system/util"
	"github.com/ja7ad/procrec/pkg/tracker"
	"github.com/ja7ad/procrec/pkg/usage"
)

func run(ctx context.Context, o config.Options, out io.Writer) error {
	host, kernel, cpus, mem, cgroups := util.SystemSummary()
	fmt.Fprintf(out, _console, host, kernel, cpus, mem, cgroups, time.Now().Format("2006-01-02 15:04:05"))

	flag := interrupt.NewFlag()
	stop, err := interrupt.Install(flag)
	if err != nil {
		return fmt.Errorf("install interrupt handler: %w", err)
	}
	defer stop()

	src, err := proc.NewSource(o.Source)
	if err != nil {
		return err
	}

	opts := []tracker.Option{tracker.WithLogger(slog.Default())}
	if o.PerCore {
		opts = append(opts, tracker.WithPerCore(runtime.NumCPU()))
	}

	var p *tracker.Process
	if o.PID != 0 {
		p, err = tracker.Attach(src, o.PID, opts...)
	} else {
		p, err = tracker.Spawn(src, spawn.ExecSpawner{OwnGroup: true}, o.Command, opts...)
	}
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			slog.Warn("cleanup", "pid", p.Pid(), "err", cerr)
		}
	}()
	slog.Debug("tracking", "pid", p.Pid(), "kind", p.Kind(), "source", src.Name())

	cfg := sampler.Config{
		Interval: o.Interval,
		Duration: o.Duration,
		Cancel:   flag,
	}
	if o.Verbose {
		cfg.OnSample = func(s sampler.Sample) error { return report.WriteLine(out, s) }
	}
	smp, err := sampler.New(cfg)
	if err != nil {
		return err
	}

	rec, runErr := smp.Run(p)
	if smp.Reason() == sampler.Cancelled {
		slog.Info("interrupted")
	}
	slog.Debug("stopped", "reason", smp.Reason(), "samples", len(rec))

	if !o.Verbose {
		if err := report.WriteText(out, rec); err != nil {
			return err
		}
	}

	meta := report.Meta{
		PID:      p.Pid(),
		Command:  p.Command(),
		Source:   src.Name(),
		Interval: o.Interval.String(),
		Reason:   smp.Reason().String(),
	}
	writeOutputs(o, rec, meta)
	printSummary(out, rec, o.Interval)

	if o.Graph && len(rec) > 0 {
		g := report.Gnuplot{Binary: o.Gnuplot, Persist: true}
		if err := g.Plot(ctx, rec); err != nil {
			slog.Warn("plot", "err", err)
		}
	}

	return runErr
}

// writeOutputs writes the requested files. Failures are logged; the
// recording is already printed.
func writeOutputs(o config.Options, rec sampler.Recording, meta report.Meta) {
	outputs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{o.CSVPath, func(w io.Writer) error { return report.WriteCSV(w, rec) }},
		{o.JSONPath, func(w io.Writer) error { return report.WriteJSON(w, rec) }},
		{o.HTMLPath, func(w io.Writer) error { return report.WriteHTML(w, rec, meta) }},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeFile(out.path, out.write); err != nil {
			slog.Error("write output", "path", out.path, "err", err)
		}
	}
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return write(f)
}

func printSummary(out io.Writer, rec sampler.Recording, interval time.Duration) {
	acc := usage.FromRecording(rec)
	if acc.Count() == 0 {
		fmt.Fprintln(out, "\nno samples recorded")
		return
	}
	avg, peak := acc.Averages(), acc.Peaks()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "procrec summary (%d samples of ~%s over %.2fs):\n", acc.Count(), interval, rec.Span())
	fmt.Fprintf(out, "- cpu:    avg %.2f %%  peak %.2f %%\n", avg.CPU, peak.CPU)
	fmt.Fprintf(out, "- rss:    avg %s  peak %s\n", avg.RSS.Humanized(), peak.RSS.Humanized())
	fmt.Fprintf(out, "- vsize:  avg %s  peak %s\n", avg.VSize.Humanized(), peak.VSize.Humanized())
	fmt.Fprintln(out)
}

const _console = `procrec - Process CPU/Memory Recorder

* GitHub: https://github.com/ja7ad/procrec

       Host: %s
       Kernel: %s
       CPUs: %s
       Mem: %s
       Cgroups: %s

Recording as of %s:

`
