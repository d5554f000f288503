package dsp

// Resample converts samples from one rate to another using linear
// interpolation. Good enough for feeding a classification model; not meant
// for playback quality.
func Resample(samples []float64, fromRate, toRate int) []float64 {
	if fromRate == toRate || fromRate <= 0 || toRate <= 0 || len(samples) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)
	for i := range out {
		position := float64(i) * ratio
		left := int(position)
		if left >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := position - float64(left)
		out[i] = samples[left]*(1-frac) + samples[left+1]*frac
	}
	return out
}
