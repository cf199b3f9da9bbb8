package report

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/ja7ad/procrec/pkg/sampler"
)

//go:embed recording.plot
var plotScript []byte

// ErrPlot wraps a gnuplot run that did not succeed.
var ErrPlot = errors.New("report: gnuplot failed")

// Gnuplot plots a recording with an external gnuplot binary.
type Gnuplot struct {
	// Binary is the gnuplot executable, "gnuplot" when empty.
	Binary string
	// Persist keeps the plot window open after gnuplot exits (-p).
	Persist bool
}

// Plot writes the script and the samples to temp files and runs gnuplot on
// them. A failed run returns an error carrying gnuplot's output.
func (g Gnuplot) Plot(ctx context.Context, rec sampler.Recording) error {
	bin := g.Binary
	if bin == "" {
		bin = "gnuplot"
	}

	script, err := writeTemp("procrec-*.plot", plotScript)
	if err != nil {
		return err
	}
	defer os.Remove(script)

	var data bytes.Buffer
	if err := WriteText(&data, rec); err != nil {
		return err
	}
	dataFile, err := writeTemp("procrec-*.dat", data.Bytes())
	if err != nil {
		return err
	}
	defer os.Remove(dataFile)

	args := []string{"-e", fmt.Sprintf("filename=%q;", dataFile)}
	if g.Persist {
		args = append(args, "-p")
	}
	args = append(args, script)

	out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %v: %s", ErrPlot, err, bytes.TrimSpace(out))
	}
	return nil
}

func writeTemp(pattern string, content []byte) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("report: temp file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("report: write %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("report: close %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}
