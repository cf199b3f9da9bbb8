package sampler

import (
	"fmt"

	"github.com/ja7ad/procrec/pkg/types"
)

// Sample is one measurement. Elapsed is seconds since the first sample of
// the run; CPU is the average utilization over the preceding interval.
type Sample struct {
	Elapsed float64     `json:"ts"`
	PID     int         `json:"pid"`
	CPU     float64     `json:"cpu_percent"`
	RSS     types.Bytes `json:"rss_bytes"`
	VSize   types.Bytes `json:"vsize_bytes"`
	Threads int         `json:"threads"`
}

// String renders the sample as one report line, memory in KiB. The gnuplot
// script in pkg/report parses this layout by column.
func (s Sample) String() string {
	return fmt.Sprintf("%.02f PID %d CPU%% %.02f RSS %d VSIZE %d THREADS %d",
		s.Elapsed, s.PID, s.CPU, s.RSS.KiB(), s.VSize.KiB(), s.Threads)
}

// Recording is the ordered samples of one run.
type Recording []Sample

// Last returns the final sample, if any.
func (r Recording) Last() (Sample, bool) {
	if len(r) == 0 {
		return Sample{}, false
	}
	return r[len(r)-1], true
}

// Span is the elapsed time of the last sample.
func (r Recording) Span() float64 {
	s, _ := r.Last()
	return s.Elapsed
}
