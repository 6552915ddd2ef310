package ops

import "math"

// log: y = ln(x), dy/dx = 1/x.
//
// Non-positive x yields NaN or -Inf, as math.Log does.
func logValue(xs []float64) float64 {
	return math.Log(xs[0])
}

func logGrad(xs []float64) []float64 {
	return []float64{1 / xs[0]}
}
