package ops

// mul: y = a * b.
//
// Local gradients:
//   - dy/da = b
//   - dy/db = a
func mulValue(xs []float64) float64 {
	return xs[0] * xs[1]
}

func mulGrad(xs []float64) []float64 {
	return []float64{xs[1], xs[0]}
}
