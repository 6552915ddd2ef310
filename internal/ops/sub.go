package ops

// sub: y = a - b.
//
// Local gradients:
//   - dy/da = 1
//   - dy/db = -1
func subValue(xs []float64) float64 {
	return xs[0] - xs[1]
}

func subGrad(_ []float64) []float64 {
	return []float64{1, -1}
}
