package ops

import "math"

// pow: y = a ** b.
//
// Local gradients (general power rule):
//   - dy/da = b * a^(b-1)
//   - dy/db = ln(a) * a^b
//
// With a <= 0 the second partial is NaN or ±Inf. It only reaches the result
// when the exponent is itself a differentiated parameter.
func powValue(xs []float64) float64 {
	return math.Pow(xs[0], xs[1])
}

func powGrad(xs []float64) []float64 {
	a, b := xs[0], xs[1]
	return []float64{
		b * math.Pow(a, b-1),
		math.Log(a) * math.Pow(a, b),
	}
}
