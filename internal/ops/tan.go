package ops

import "math"

// tan: y = tan(x), dy/dx = 1/cos²(x).
func tanValue(xs []float64) float64 {
	return math.Tan(xs[0])
}

func tanGrad(xs []float64) []float64 {
	c := math.Cos(xs[0])
	return []float64{1 / (c * c)}
}
