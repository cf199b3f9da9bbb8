// Package report renders a finished Recording: text lines, CSV, JSON, an
// HTML page and a gnuplot graph. Nothing here feeds back into sampling.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ja7ad/procrec/pkg/sampler"
	"github.com/ja7ad/procrec/pkg/system/util"
)

// WriteLine writes one sample in the text layout.
func WriteLine(w io.Writer, s sampler.Sample) error {
	_, err := fmt.Fprintln(w, s.String())
	return err
}

// WriteText writes every sample in the text layout.
func WriteText(w io.Writer, rec sampler.Recording) error {
	for _, s := range rec {
		if err := WriteLine(w, s); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{"ts", "pid", "cpu_percent", "rss_kib", "vsize_kib", "threads"}

// WriteCSV writes a header and one row per sample, memory in KiB.
func WriteCSV(w io.Writer, rec sampler.Recording) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range rec {
		if err := cw.Write([]string{
			util.FmtFloat(s.Elapsed),
			strconv.Itoa(s.PID),
			util.FmtFloat(s.CPU),
			strconv.FormatUint(s.RSS.KiB(), 10),
			strconv.FormatUint(s.VSize.KiB(), 10),
			strconv.Itoa(s.Threads),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the recording as an indented JSON array.
func WriteJSON(w io.Writer, rec sampler.Recording) error {
	if rec == nil {
		rec = sampler.Recording{}
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
