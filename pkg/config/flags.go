//go:build linux

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// durationValue is a pflag.Value for durations that also takes bare seconds.
type durationValue time.Duration

func (d *durationValue) Set(s string) error {
	v, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = durationValue(v)
	return nil
}

func (d *durationValue) String() string { return time.Duration(*d).String() }

func (d *durationValue) Type() string { return "duration" }

// BindFlags registers the recorder flags on fs, storing values into o. The
// current contents of o are the flag defaults.
func BindFlags(fs *pflag.FlagSet, o *Options) {
	fs.VarP((*durationValue)(&o.Interval), FlagInterval, "i", "sampling interval (e.g. 500ms, 2s; bare numbers are seconds)")
	fs.VarP((*durationValue)(&o.Duration), FlagDuration, "d", "stop after this long (0 = until the process exits or Ctrl-C)")
	fs.IntVarP(&o.PID, FlagPID, "p", o.PID, "attach to an existing process")
	fs.BoolVarP(&o.Verbose, FlagVerbose, "v", o.Verbose, "print every sample as it is taken and log at debug level")
	fs.BoolVarP(&o.Graph, FlagGraph, "g", o.Graph, "plot the recording with gnuplot when done")
	fs.StringVar(&o.Source, FlagSource, o.Source, "stats source: procfs or psutil")
	fs.BoolVar(&o.PerCore, FlagPerCore, o.PerCore, "divide CPU% by the number of logical CPUs")
	fs.StringVar(&o.CSVPath, FlagCSV, o.CSVPath, "write samples to CSV file")
	fs.StringVar(&o.JSONPath, FlagJSON, o.JSONPath, "write samples to JSON file")
	fs.StringVar(&o.HTMLPath, FlagHTML, o.HTMLPath, "write samples and summary to HTML file")
	fs.StringVar(&o.Gnuplot, FlagGnuplot, o.Gnuplot, "gnuplot executable")
}

// Overlay copies into o every option whose flag was set explicitly on fs,
// taking the value from flags. flags.Command holds the positional command.
// A target given on the command line replaces the file's target.
func (o *Options) Overlay(fs *pflag.FlagSet, flags Options) {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	if changed(FlagInterval) {
		o.Interval = flags.Interval
	}
	if changed(FlagDuration) {
		o.Duration = flags.Duration
	}
	switch {
	case changed(FlagPID):
		o.PID = flags.PID
		o.Command = flags.Command
	case len(flags.Command) > 0:
		o.PID = 0
		o.Command = flags.Command
	}
	if changed(FlagVerbose) {
		o.Verbose = flags.Verbose
	}
	if changed(FlagGraph) {
		o.Graph = flags.Graph
	}
	if changed(FlagSource) {
		o.Source = flags.Source
	}
	if changed(FlagPerCore) {
		o.PerCore = flags.PerCore
	}
	if changed(FlagCSV) {
		o.CSVPath = flags.CSVPath
	}
	if changed(FlagJSON) {
		o.JSONPath = flags.JSONPath
	}
	if changed(FlagHTML) {
		o.HTMLPath = flags.HTMLPath
	}
	if changed(FlagGnuplot) {
		o.Gnuplot = flags.Gnuplot
	}
}
