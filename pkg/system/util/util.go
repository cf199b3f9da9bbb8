package util

import "strconv"

func DeltaU64(now, prev uint64) uint64 {
	if now >= prev {
		return now - prev
	}
	// counter wrapped or prev unset
	return 0
}

func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

// FmtFloat formats with the shortest representation that round-trips.
func FmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
