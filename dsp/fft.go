package dsp

// Fast Fourier Transform (FFT)
//
// Iterative radix-2 Cooley-Tukey transform used by the feature extractor to
// move audio frames into the frequency domain. The input length is padded to
// the next power of two by the callers; Spectrum below wraps the common
// magnitude + bin-frequency computation.

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of the input. The input length
// must be a power of two (see NextPowerOfTwo).
func FFT(input []float64) []complex128 {
	n := len(input)
	result := make([]complex128, n)
	if n == 0 {
		return result
	}

	// bit-reversal permutation
	shift := 64 - uint(bits.Len(uint(n-1)))
	if n == 1 {
		shift = 64
	}
	for i, v := range input {
		result[bits.Reverse(uint(i))>>shift] = complex(v, 0)
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := -2 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				twiddle := cmplx.Rect(1, step*float64(k))
				even := result[start+k]
				odd := result[start+k+half] * twiddle
				result[start+k] = even + odd
				result[start+k+half] = even - odd
			}
		}
	}

	return result
}

// Spectrum windows the frame, transforms it, and returns the one-sided
// magnitude spectrum together with the frequency of each bin in Hz.
func Spectrum(frame []float64, sampleRate int) (magnitude, freqs []float64) {
	fftSize := NextPowerOfTwo(len(frame))
	buffer := make([]float64, fftSize)
	copy(buffer, frame)
	ApplyHann(buffer)

	transformed := FFT(buffer)
	binCount := fftSize / 2
	magnitude = make([]float64, binCount)
	freqs = make([]float64, binCount)
	for i := 0; i < binCount; i++ {
		magnitude[i] = cmplx.Abs(transformed[i])
		freqs[i] = float64(i) * float64(sampleRate) / float64(fftSize)
	}
	return magnitude, freqs
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// ApplyHann multiplies the buffer by a Hann window in place to reduce
// spectral leakage.
func ApplyHann(buffer []float64) {
	length := len(buffer)
	if length <= 1 {
		return
	}
	for i := range buffer {
		buffer[i] *= 0.5 * (1 - math.Cos((2*math.Pi*float64(i))/float64(length-1)))
	}
}
