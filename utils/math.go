package utils

// Quadpoints returns N equispaced points on [0, 1), endpoint excluded, the
// sampling used for periodic angles measured in fractions of a turn.
func Quadpoints(N int) (q []float64) {
	q = make([]float64, N)
	for i := range q {
		q[i] = float64(i) / float64(N)
	}
	return
}
