package ops

import "math"

// cos: y = cos(x), dy/dx = -sin(x).
func cosValue(xs []float64) float64 {
	return math.Cos(xs[0])
}

func cosGrad(xs []float64) []float64 {
	return []float64{-math.Sin(xs[0])}
}
