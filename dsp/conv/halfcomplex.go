package conv

// Half-complex layout of a length-n real spectrum: hc[0] holds the DC bin,
// hc[k] and hc[n-k] hold the real and imaginary parts of bin k for
// 0 < k < (n+1)/2, and for even n hc[n/2] holds the real Nyquist bin.

// PackHalfComplex writes the n/2+1 non-redundant bins of coeff into hc,
// which must have length n.
func PackHalfComplex(hc []float64, coeff []complex128) {
	n := len(hc)
	if n == 0 {
		return
	}

	hc[0] = real(coeff[0])

	for k := 1; k < (n+1)/2; k++ {
		hc[k] = real(coeff[k])
		hc[n-k] = imag(coeff[k])
	}

	if n%2 == 0 {
		hc[n/2] = real(coeff[n/2])
	}
}

// UnpackHalfComplex is the inverse of PackHalfComplex. coeff must have
// length len(hc)/2+1.
func UnpackHalfComplex(coeff []complex128, hc []float64) {
	n := len(hc)
	if n == 0 {
		return
	}

	coeff[0] = complex(hc[0], 0)

	for k := 1; k < (n+1)/2; k++ {
		coeff[k] = complex(hc[k], hc[n-k])
	}

	if n%2 == 0 {
		coeff[n/2] = complex(hc[n/2], 0)
	}
}

// MulHalfComplex multiplies two half-complex spectra bin by bin into dst.
// dst must not alias a or b.
func MulHalfComplex(dst, a, b []float64) {
	n := len(dst)
	if n == 0 {
		return
	}

	dst[0] = a[0] * b[0]

	for k := 1; k < (n+1)/2; k++ {
		dst[k] = a[k]*b[k] - a[n-k]*b[n-k]
		dst[n-k] = a[k]*b[n-k] + a[n-k]*b[k]
	}

	if n%2 == 0 {
		dst[n/2] = a[n/2] * b[n/2]
	}
}
