package ops

import "math"

// sqrt: y = √x.
//
// The gradient is the power rule with exponent 1/2: dy/dx = ½ * x^(-½).
func sqrtValue(xs []float64) float64 {
	return math.Sqrt(xs[0])
}

func sqrtGrad(xs []float64) []float64 {
	return []float64{0.5 * math.Pow(xs[0], -0.5)}
}
