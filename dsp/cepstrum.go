package dsp

import "math"

// Mel filterbank and DCT helpers backing the cepstral-coefficient features.
// The filterbank follows the usual construction: triangular filters spaced
// evenly on the mel scale between 0 Hz and Nyquist.

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// MelFilterbank builds filterCount triangular filters over binCount spectrum
// bins for the given sample rate. Each row holds the per-bin weights of one
// filter.
func MelFilterbank(filterCount, binCount, sampleRate int) [][]float64 {
	filters := make([][]float64, filterCount)
	if filterCount <= 0 || binCount <= 0 || sampleRate <= 0 {
		return filters
	}

	nyquist := float64(sampleRate) / 2
	maxMel := hzToMel(nyquist)

	// filterCount filters need filterCount+2 edge points
	edges := make([]float64, filterCount+2)
	for i := range edges {
		mel := maxMel * float64(i) / float64(filterCount+1)
		hz := melToHz(mel)
		edges[i] = hz / nyquist * float64(binCount-1)
	}

	for f := 0; f < filterCount; f++ {
		weights := make([]float64, binCount)
		left, center, right := edges[f], edges[f+1], edges[f+2]
		for bin := 0; bin < binCount; bin++ {
			pos := float64(bin)
			switch {
			case pos > left && pos < center && center > left:
				weights[bin] = (pos - left) / (center - left)
			case pos >= center && pos < right && right > center:
				weights[bin] = (right - pos) / (right - center)
			}
		}
		filters[f] = weights
	}
	return filters
}

// DCT2 computes the first count coefficients of the type-II discrete cosine
// transform with orthonormal scaling.
func DCT2(values []float64, count int) []float64 {
	n := len(values)
	if n == 0 || count <= 0 {
		return nil
	}
	if count > n {
		count = n
	}

	out := make([]float64, count)
	for k := 0; k < count; k++ {
		var sum float64
		for i, v := range values {
			sum += v * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		scale := math.Sqrt(2 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		out[k] = sum * scale
	}
	return out
}
