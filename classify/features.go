package classify

// Feature Extraction
//
// Computes the per-clip spectral and cepstral descriptors the heuristic rules
// run on. The clip is cut into overlapping frames; each frame is Hann-windowed
// and transformed, then the frame-level descriptors are aggregated into
// clip-level means and standard deviations:
//
//   - Spectral Centroid (mean, std): magnitude-weighted average frequency,
//     the "brightness" of the sound
//   - Spectral Bandwidth (mean): spread of frequencies around the centroid
//   - Spectral Rolloff (mean): frequency below which 85% of energy sits
//     (computed for completeness; no rule currently reads it)
//   - Zero Crossing Rate (mean): sign-change rate, separates noisy
//     percussive content from tonal content
//   - Cepstral Variance: mean std of cepstral coefficients 2-5 across
//     frames, a voice-timbre variability proxy
//
// Extraction is a pure function of the waveform. The only failure modes are
// the minimum-duration precondition and degenerate numeric output.

import (
	"errors"
	"math"

	"sample-sorter/dsp"
)

const (
	// MinClipSeconds is the shortest clip the extractor accepts.
	MinClipSeconds = 0.1

	featureFrameSize = 2048
	featureHopSize   = 512

	melFilterCount    = 26
	cepstralCount     = 13
	rolloffThreshold  = 0.85
	logPowerReference = 1e-10
)

// FeatureSet is the immutable clip-level descriptor record.
type FeatureSet struct {
	CentroidMean     float64
	CentroidStd      float64
	BandwidthMean    float64
	RolloffMean      float64
	ZeroCrossingMean float64
	CepstralVariance float64
}

// ExtractFeatures derives the clip-level descriptors for a mono waveform.
// It fails with InsufficientAudioError when the clip is shorter than
// MinClipSeconds, and with InternalComputationError when a descriptor
// degenerates to NaN or Inf.
func ExtractFeatures(samples []float64, sampleRate int) (*FeatureSet, error) {
	if sampleRate <= 0 {
		return nil, errors.New("invalid sample rate")
	}
	minSamples := int(float64(sampleRate) * MinClipSeconds)
	if len(samples) < minSamples {
		return nil, &InsufficientAudioError{
			Samples:    len(samples),
			Required:   minSamples,
			SampleRate: sampleRate,
		}
	}

	frameSize := featureFrameSize
	if frameSize > len(samples) {
		frameSize = len(samples)
	}

	filterbank := dsp.MelFilterbank(melFilterCount, dsp.NextPowerOfTwo(frameSize)/2, sampleRate)

	var (
		centroids  []float64
		bandwidths []float64
		rolloffs   []float64
		zcrs       []float64
		cepstra    [][]float64
	)

	for start := 0; start+frameSize <= len(samples); start += featureHopSize {
		frame := samples[start : start+frameSize]

		zcrs = append(zcrs, zeroCrossingRate(frame))

		magnitude, freqs := dsp.Spectrum(frame, sampleRate)
		centroid := spectralCentroid(magnitude, freqs)
		centroids = append(centroids, centroid)
		bandwidths = append(bandwidths, spectralBandwidth(magnitude, freqs, centroid))
		rolloffs = append(rolloffs, spectralRolloff(magnitude, freqs, rolloffThreshold))
		cepstra = append(cepstra, cepstralCoefficients(magnitude, filterbank))

		if start+frameSize == len(samples) {
			break
		}
	}

	centroidMean, centroidStd := meanStd(centroids)
	bandwidthMean, _ := meanStd(bandwidths)
	rolloffMean, _ := meanStd(rolloffs)
	zcrMean, _ := meanStd(zcrs)

	features := &FeatureSet{
		CentroidMean:     centroidMean,
		CentroidStd:      centroidStd,
		BandwidthMean:    bandwidthMean,
		RolloffMean:      rolloffMean,
		ZeroCrossingMean: zcrMean,
		CepstralVariance: cepstralVariance(cepstra),
	}

	for _, value := range []float64{
		features.CentroidMean, features.CentroidStd, features.BandwidthMean,
		features.RolloffMean, features.ZeroCrossingMean, features.CepstralVariance,
	} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &InternalComputationError{
				Stage: "feature extraction",
				Err:   errors.New("descriptor is not finite"),
			}
		}
	}

	return features, nil
}

func zeroCrossingRate(samples []float64) float64 {
	if len(samples) <= 1 {
		return 0
	}
	var count float64
	for i := 1; i < len(samples); i++ {
		if samples[i-1] == 0 || samples[i] == 0 {
			continue
		}
		if (samples[i-1] > 0) != (samples[i] > 0) {
			count++
		}
	}
	return count / float64(len(samples)-1)
}

func spectralCentroid(magnitude, freqs []float64) float64 {
	var weightedSum float64
	var total float64
	for i := range magnitude {
		weightedSum += magnitude[i] * freqs[i]
		total += magnitude[i]
	}
	if total == 0 {
		return 0
	}
	return weightedSum / total
}

func spectralBandwidth(magnitude, freqs []float64, centroid float64) float64 {
	var variance float64
	var total float64
	for i := range magnitude {
		deviation := freqs[i] - centroid
		variance += magnitude[i] * deviation * deviation
		total += magnitude[i]
	}
	if total == 0 {
		return 0
	}
	return math.Sqrt(variance / total)
}

func spectralRolloff(magnitude, freqs []float64, threshold float64) float64 {
	if len(magnitude) == 0 {
		return 0
	}

	var total float64
	for _, mag := range magnitude {
		total += mag
	}
	if total == 0 {
		return freqs[len(freqs)-1]
	}

	target := threshold * total
	var cumulative float64
	for i, mag := range magnitude {
		cumulative += mag
		if cumulative >= target {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// cepstralCoefficients computes per-frame cepstral coefficients: mel filter
// energies on the power spectrum, converted to dB, then a type-II DCT.
func cepstralCoefficients(magnitude []float64, filterbank [][]float64) []float64 {
	energies := make([]float64, len(filterbank))
	for f, weights := range filterbank {
		var energy float64
		limit := len(weights)
		if len(magnitude) < limit {
			limit = len(magnitude)
		}
		for bin := 0; bin < limit; bin++ {
			energy += weights[bin] * magnitude[bin] * magnitude[bin]
		}
		energies[f] = 10 * math.Log10(energy+logPowerReference)
	}
	return dsp.DCT2(energies, cepstralCount)
}

// cepstralVariance aggregates the frame-level coefficients into the mean
// standard deviation of coefficients 2-5.
func cepstralVariance(cepstra [][]float64) float64 {
	if len(cepstra) == 0 {
		return 0
	}

	var stdSum float64
	var used int
	for coeff := 1; coeff <= 4; coeff++ {
		values := make([]float64, 0, len(cepstra))
		for _, frame := range cepstra {
			if coeff < len(frame) {
				values = append(values, frame[coeff])
			}
		}
		if len(values) == 0 {
			continue
		}
		_, std := meanStd(values)
		stdSum += std
		used++
	}
	if used == 0 {
		return 0
	}
	return stdSum / float64(used)
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}
