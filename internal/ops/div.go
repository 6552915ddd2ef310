package ops

// div: y = a / b.
//
// Local gradients:
//   - dy/da = 1/b
//   - dy/db = -a/b²
func divValue(xs []float64) float64 {
	return xs[0] / xs[1]
}

func divGrad(xs []float64) []float64 {
	a, b := xs[0], xs[1]
	return []float64{1 / b, -a / (b * b)}
}
