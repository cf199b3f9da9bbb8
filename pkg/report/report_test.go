package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/procrec/pkg/sampler"
	"github.com/ja7ad/procrec/pkg/types"
)

func recording() sampler.Recording {
	return sampler.Recording{
		{Elapsed: 0, PID: 77, CPU: 12.5, RSS: types.KiBToBytes(1000), VSize: types.KiBToBytes(5000), Threads: 2},
		{Elapsed: 2.01, PID: 77, CPU: 99.5, RSS: types.KiBToBytes(1200), VSize: types.KiBToBytes(5000), Threads: 3},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, recording()))
	assert.Equal(t,
		"0.00 PID 77 CPU% 12.50 RSS 1000 VSIZE 5000 THREADS 2\n"+
			"2.01 PID 77 CPU% 99.50 RSS 1200 VSIZE 5000 THREADS 3\n",
		buf.String())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recording()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"2.01", "77", "99.5", "1200", "5000", "3"}, rows[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, recording()))

	var got sampler.Recording
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, recording(), got)
	assert.Contains(t, buf.String(), `"cpu_percent": 99.5`)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{PID: 77, Command: []string{"stress", "--cpu", "1"}, Source: "procfs", Interval: "2s", Reason: "target exited"}
	require.NoError(t, WriteHTML(&buf, recording(), meta))

	out := buf.String()
	assert.Contains(t, out, "PID 77")
	assert.Contains(t, out, "stress --cpu 1")
	assert.Contains(t, out, "Samples: 2")
	assert.Contains(t, out, "Avg CPU: 56.00 %")
	assert.Contains(t, out, "peak 99.50 %")
	assert.Equal(t, 2, strings.Count(out, "<tr>\n<td>"))
}

// fakeGnuplot installs a shell script standing in for gnuplot that records
// its arguments and the data file contents.
func fakeGnuplot(t *testing.T, exit int) (bin, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	bin = filepath.Join(dir, "gnuplot")
	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > " + argsFile + "\n" +
		"echo 'plot: bad things' >&2\n" +
		"exit " + strconv.Itoa(exit) + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, argsFile
}

func TestGnuplot_Plot(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("skipping: /bin/sh not available")
	}
	bin, argsFile := fakeGnuplot(t, 0)
	require.NoError(t, Gnuplot{Binary: bin, Persist: true}.Plot(context.Background(), recording()))

	b, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, args, 4)
	assert.Equal(t, "-e", args[0])
	assert.True(t, strings.HasPrefix(args[1], `filename="`))
	assert.Equal(t, "-p", args[2])
	assert.True(t, strings.HasSuffix(args[3], ".plot"))

	_, err = os.Stat(args[3])
	assert.True(t, os.IsNotExist(err), "temp files are removed")
}

func TestGnuplot_Failure(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("skipping: /bin/sh not available")
	}
	bin, _ := fakeGnuplot(t, 1)
	err := Gnuplot{Binary: bin}.Plot(context.Background(), recording())
	require.ErrorIs(t, err, ErrPlot)
	assert.Contains(t, err.Error(), "plot: bad things")
}

func TestGnuplot_MissingBinary(t *testing.T) {
	err := Gnuplot{Binary: filepath.Join(t.TempDir(), "nope")}.Plot(context.Background(), recording())
	require.ErrorIs(t, err, ErrPlot)
}
