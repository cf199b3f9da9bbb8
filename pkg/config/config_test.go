//go:build linux

package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "procrec.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"2":     2 * time.Second,
		"0.5":   500 * time.Millisecond,
		"250ms": 250 * time.Millisecond,
		" 1m ":  time.Minute,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDuration("soon")
	assert.Error(t, err)

	for _, in := range []string{"NaN", "Inf", "-Inf", "1e10", "10000000000", "1e400", "3000000h"} {
		_, err := ParseDuration(in)
		assert.Error(t, err, in)
	}
}

func TestFlags_OutOfRangeInterval(t *testing.T) {
	o := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindFlags(fs, &o)
	assert.Error(t, fs.Parse([]string{"-i", "1e10"}))
	assert.Error(t, fs.Parse([]string{"-d", "NaN"}))
	assert.Equal(t, DefaultInterval, o.Interval)
}

func TestLoad(t *testing.T) {
	p := writeConfig(t, `
interval = 1
duration = "30s"
command = ["sleep", "5"]
source = "psutil"
per_core = true
csv = "out.csv"
`)
	o, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, time.Second, o.Interval)
	assert.Equal(t, 30*time.Second, o.Duration)
	assert.Equal(t, []string{"sleep", "5"}, o.Command)
	assert.Equal(t, "psutil", o.Source)
	assert.True(t, o.PerCore)
	assert.Equal(t, "out.csv", o.CSVPath)
	assert.Equal(t, "gnuplot", o.Gnuplot, "unset keys keep defaults")
	assert.NoError(t, o.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `intervall = 2`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intervall")

	_, err = Load(writeConfig(t, `interval = "fast"`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `interval = true`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `interval = 10000000000`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `duration = nan`))
	assert.Error(t, err)
}

func TestPrecedence(t *testing.T) {
	o, err := Load(writeConfig(t, `
interval = "5s"
duration = "1m"
pid = 4242
`))
	require.NoError(t, err)

	flags := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &flags)
	require.NoError(t, fs.Parse([]string{"-i", "3", "--csv", "x.csv"}))

	o.Overlay(fs, flags)
	assert.Equal(t, 3*time.Second, o.Interval, "flag beats file")
	assert.Equal(t, time.Minute, o.Duration, "file beats default")
	assert.Equal(t, 4242, o.PID)
	assert.Equal(t, "x.csv", o.CSVPath)
	assert.Equal(t, "procfs", o.Source)
}

func TestOverlay_CommandReplacesFilePID(t *testing.T) {
	o := Default()
	o.PID = 4242

	flags := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &flags)
	require.NoError(t, fs.Parse(nil))
	flags.Command = []string{"sleep", "1"}

	o.Overlay(fs, flags)
	assert.Zero(t, o.PID)
	assert.Equal(t, []string{"sleep", "1"}, o.Command)
	assert.NoError(t, o.Validate())
}

func TestOverlay_PIDAndCommandOnCommandLine(t *testing.T) {
	o := Default()
	flags := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &flags)
	require.NoError(t, fs.Parse([]string{"-p", "10"}))
	flags.Command = []string{"sleep", "1"}

	o.Overlay(fs, flags)
	assert.ErrorIs(t, o.Validate(), ErrBothTargets)
}

func TestFlags_BadInterval(t *testing.T) {
	o := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindFlags(fs, &o)
	assert.Error(t, fs.Parse([]string{"--interval", "often"}))
}

func TestValidate(t *testing.T) {
	base := func() Options {
		o := Default()
		o.PID = 1
		return o
	}
	cases := []struct {
		name string
		mod  func(*Options)
		want error
	}{
		{"ok", func(*Options) {}, nil},
		{"zero interval", func(o *Options) { o.Interval = 0 }, ErrBadInterval},
		{"negative interval", func(o *Options) { o.Interval = -time.Second }, ErrBadInterval},
		{"negative duration", func(o *Options) { o.Duration = -1 }, ErrBadDuration},
		{"no target", func(o *Options) { o.PID = 0 }, ErrNoTarget},
		{"both targets", func(o *Options) { o.Command = []string{"true"} }, ErrBothTargets},
		{"negative pid", func(o *Options) { o.PID = -3 }, ErrBadPID},
		{"unknown source", func(o *Options) { o.Source = "ebpf" }, ErrUnknownSource},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := base()
			tc.mod(&o)
			err := o.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
