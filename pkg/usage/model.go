package usage

import "github.com/ja7ad/procrec/pkg/types"

// Result is a CPU and memory figure for a set of samples.
// Units:
//   - CPU: percent, 100 = one core (or the whole machine with --per-core)
//   - RSS/VSize: bytes
type Result struct {
	CPU   float64
	RSS   types.Bytes
	VSize types.Bytes
}
