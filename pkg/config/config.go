//go:build linux

// Package config holds the recorder options and resolves them from
// defaults, an optional TOML file and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ja7ad/procrec/pkg/system/proc"
)

const DefaultInterval = 2 * time.Second

// Flag names shared by BindFlags and Overlay.
const (
	FlagInterval = "interval"
	FlagDuration = "duration"
	FlagPID      = "pid"
	FlagVerbose  = "verbose"
	FlagGraph    = "graph"
	FlagSource   = "source"
	FlagPerCore  = "per-core"
	FlagCSV      = "csv"
	FlagJSON     = "json"
	FlagHTML     = "html"
	FlagGnuplot  = "gnuplot"
)

// Options configures one recording run.
type Options struct {
	Interval time.Duration
	Duration time.Duration // 0 = unlimited
	PID      int
	Command  []string
	Verbose  bool
	Graph    bool
	Source   string
	PerCore  bool

	CSVPath  string
	JSONPath string
	HTMLPath string
	Gnuplot  string
}

// Default returns the options used when nothing is configured.
func Default() Options {
	return Options{
		Interval: DefaultInterval,
		Source:   proc.SourceProcfs,
		Gnuplot:  "gnuplot",
	}
}

// file mirrors Options in the TOML file. Durations are decoded loosely so
// that both "500ms" and a bare 5 (seconds) are accepted.
type file struct {
	Interval any      `toml:"interval"`
	Duration any      `toml:"duration"`
	PID      *int     `toml:"pid"`
	Command  []string `toml:"command"`
	Verbose  *bool    `toml:"verbose"`
	Graph    *bool    `toml:"graph"`
	Source   *string  `toml:"source"`
	PerCore  *bool    `toml:"per_core"`
	CSV      *string  `toml:"csv"`
	JSON     *string  `toml:"json"`
	HTML     *string  `toml:"html"`
	Gnuplot  *string  `toml:"gnuplot"`
}

// Load returns the defaults overlaid with the TOML file at path. Unknown
// keys are rejected.
func Load(path string) (Options, error) {
	o := Default()

	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return o, fmt.Errorf("config: %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return o, fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if f.Interval != nil {
		if o.Interval, err = durationOf(f.Interval); err != nil {
			return o, fmt.Errorf("config: interval: %w", err)
		}
	}
	if f.Duration != nil {
		if o.Duration, err = durationOf(f.Duration); err != nil {
			return o, fmt.Errorf("config: duration: %w", err)
		}
	}
	if f.PID != nil {
		o.PID = *f.PID
	}
	if len(f.Command) > 0 {
		o.Command = f.Command
	}
	setIf(&o.Verbose, f.Verbose)
	setIf(&o.Graph, f.Graph)
	setIf(&o.Source, f.Source)
	setIf(&o.PerCore, f.PerCore)
	setIf(&o.CSVPath, f.CSV)
	setIf(&o.JSONPath, f.JSON)
	setIf(&o.HTMLPath, f.HTML)
	setIf(&o.Gnuplot, f.Gnuplot)
	return o, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func durationOf(v any) (time.Duration, error) {
	switch x := v.(type) {
	case int64:
		return secondsToDuration(float64(x))
	case float64:
		return secondsToDuration(x)
	case string:
		return ParseDuration(x)
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

// ParseDuration accepts a Go duration ("1.5s", "250ms") or a bare number of
// seconds ("2", "0.5").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("config: duration %q out of range", s)
		}
		return time.ParseDuration(s)
	}
	return secondsToDuration(f)
}

// maxSeconds is the largest whole second count a time.Duration holds.
const maxSeconds = math.MaxInt64 / int64(time.Second)

func secondsToDuration(f float64) (time.Duration, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("config: duration %v is not a finite number", f)
	}
	if math.Abs(f) > float64(maxSeconds) {
		return 0, fmt.Errorf("config: duration %vs out of range", f)
	}
	return time.Duration(f * float64(time.Second)), nil
}

// Validate reports the first problem with o.
func (o Options) Validate() error {
	if o.Interval <= 0 {
		return ErrBadInterval
	}
	if o.Duration < 0 {
		return ErrBadDuration
	}
	switch {
	case o.PID != 0 && len(o.Command) > 0:
		return ErrBothTargets
	case o.PID == 0 && len(o.Command) == 0:
		return ErrNoTarget
	case o.PID < 0:
		return fmt.Errorf("%w: %d", ErrBadPID, o.PID)
	}
	switch o.Source {
	case proc.SourceProcfs, proc.SourcePsutil:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, o.Source)
	}
	return nil
}
