package ops

import "math"

// exp: y = e^x, dy/dx = e^x.
func expValue(xs []float64) float64 {
	return math.Exp(xs[0])
}

func expGrad(xs []float64) []float64 {
	return []float64{math.Exp(xs[0])}
}
