package core

// CopyOrZero copies src into dst and zero-fills whatever src does not cover.
func CopyOrZero(dst, src []float64) {
	n := copy(dst, src)
	clear(dst[n:])
}
