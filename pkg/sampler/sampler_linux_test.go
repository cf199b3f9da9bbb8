//go:build linux

package sampler

import (
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/procrec/pkg/interrupt"
	"github.com/ja7ad/procrec/pkg/system/proc"
	"github.com/ja7ad/procrec/pkg/system/spawn"
	"github.com/ja7ad/procrec/pkg/tracker"
)

func TestRun_SpawnedChildExits(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skipf("skipping: sleep not available: %v", err)
	}
	src, err := proc.NewProcfsSource("")
	require.NoError(t, err)

	p, err := tracker.Spawn(src, spawn.ExecSpawner{Stdout: io.Discard, Stderr: io.Discard, OwnGroup: true},
		[]string{"sleep", "0.4"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, p.Close()) }()

	s, err := New(Config{Interval: 50 * time.Millisecond, Cancel: interrupt.NewFlag()})
	require.NoError(t, err)

	rec, err := s.Run(p)
	require.NoError(t, err)
	assert.Equal(t, TargetExited, s.Reason())
	require.NotEmpty(t, rec)
	assert.Equal(t, 0.0, rec[0].Elapsed)
	for _, sm := range rec {
		assert.Equal(t, p.Pid(), sm.PID)
		assert.GreaterOrEqual(t, sm.CPU, 0.0)
	}
}

func TestRun_DurationKillsSpawnedChildOnClose(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skipf("skipping: sleep not available: %v", err)
	}
	src := proc.NewPsutilSource()
	p, err := tracker.Spawn(src, spawn.ExecSpawner{Stdout: io.Discard, Stderr: io.Discard, OwnGroup: true},
		[]string{"sleep", "30"})
	require.NoError(t, err)
	pid := p.Pid()

	s, err := New(Config{Interval: 20 * time.Millisecond, Duration: 50 * time.Millisecond})
	require.NoError(t, err)
	rec, err := s.Run(p)
	require.NoError(t, err)
	assert.Equal(t, DurationElapsed, s.Reason())
	assert.Greater(t, rec.Span(), 0.05)

	require.NoError(t, p.Close())
	assert.False(t, proc.Exists(pid))
}
