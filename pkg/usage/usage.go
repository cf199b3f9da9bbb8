package usage

import (
	"github.com/ja7ad/procrec/pkg/sampler"
	"github.com/ja7ad/procrec/pkg/types"
)

// Accumulator keeps running averages and peaks over samples.
type Accumulator struct {
	count    int
	sumCPU   float64
	sumRSS   float64
	sumVSize float64
	peak     Result
}

func New() *Accumulator { return &Accumulator{} }

// Apply folds one sample in.
func (a *Accumulator) Apply(s sampler.Sample) {
	a.count++
	a.sumCPU += s.CPU
	a.sumRSS += float64(s.RSS)
	a.sumVSize += float64(s.VSize)

	if s.CPU > a.peak.CPU {
		a.peak.CPU = s.CPU
	}
	if s.RSS > a.peak.RSS {
		a.peak.RSS = s.RSS
	}
	if s.VSize > a.peak.VSize {
		a.peak.VSize = s.VSize
	}
}

// FromRecording accumulates a whole recording.
func FromRecording(rec sampler.Recording) *Accumulator {
	a := New()
	for _, s := range rec {
		a.Apply(s)
	}
	return a
}

func (a *Accumulator) Count() int { return a.count }

// Averages returns mean figures over all applied samples.
func (a *Accumulator) Averages() Result {
	if a.count == 0 {
		return Result{}
	}
	n := float64(a.count)
	return Result{
		CPU:   a.sumCPU / n,
		RSS:   types.ToBytes(uint64(a.sumRSS / n)),
		VSize: types.ToBytes(uint64(a.sumVSize / n)),
	}
}

// Peaks returns per-field maxima; they need not come from the same sample.
func (a *Accumulator) Peaks() Result { return a.peak }
