package ops

import "math"

// sin: y = sin(x), dy/dx = cos(x).
func sinValue(xs []float64) float64 {
	return math.Sin(xs[0])
}

func sinGrad(xs []float64) []float64 {
	return []float64{math.Cos(xs[0])}
}
