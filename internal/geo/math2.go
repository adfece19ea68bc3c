package geo

import "math"

// asinh is the inverse hyperbolic sine.
func asinh(x float64) float64 {
	return math.Log(x + math.Sqrt(1+x*x))
}
