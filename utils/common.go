package utils

import "math"

const (
	NODETOL = 1.e-12
)

// IsFinite reports whether every value is neither NaN nor infinite
func IsFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
