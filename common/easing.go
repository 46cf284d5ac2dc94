package common

import "math"

// EaseLinear leaves progress unchanged.
func EaseLinear(t float64) float64 {
	return t
}

// EaseInOutCubic starts slow, speeds up through the middle and settles.
//
//	t < 0.5:  4t^3
//	t >= 0.5: 1 - (-2t + 2)^3 / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}
