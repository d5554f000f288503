package classify

// Heuristic Rule Engine
//
// Maps clip-level descriptors onto provisional per-category confidences via
// fixed thresholds. The four rules are evaluated independently; a clip can
// trip several at once, and everything not mentioned stays at zero. The
// thresholds are hand-tuned against typical sample-pack material and must be
// kept in sync with their tests when touched.

// ApplyHeuristics produces the provisional confidence map for a feature set.
func ApplyHeuristics(features *FeatureSet) ConfidenceMap {
	conf := NewConfidenceMap()
	if features == nil {
		return conf
	}

	// percussion: noisy and bright
	if features.ZeroCrossingMean > 0.1 && features.CentroidMean > 2000 {
		switch {
		case features.CentroidMean > 5000:
			conf.Raise(Cymbal, 0.9)
			conf.Raise(HiHat, 0.8)
		case features.CentroidMean < 1000:
			conf.Raise(BassDrum, 0.9)
		default:
			conf.Raise(SnareDrum, 0.85)
		}
		conf.Raise(Drums, 0.9)
	}

	// guitars: mid-range centroid with strong frame-to-frame movement
	if features.CentroidMean > 500 && features.CentroidMean < 3000 && features.CentroidStd > 500 {
		if features.BandwidthMean > 2000 {
			conf.Raise(ElectricGuitar, 0.9)
		} else {
			conf.Raise(AcousticGuitar, 0.9)
		}
		conf.Raise(Guitar, 0.85)
	}

	// voice: high cepstral variability
	if features.CepstralVariance > 15 {
		conf.Raise(Vocals, 0.9)
		if features.CentroidMean > 1800 {
			conf.Raise(FemaleSpeech, 0.8)
		} else {
			conf.Raise(MaleSpeech, 0.8)
		}
	}

	// electronic: busy waveform with a static spectrum
	if features.ZeroCrossingMean > 0.2 && features.CentroidStd < 500 {
		conf.Raise(Electronic, 0.85)
		conf.Raise(Synthesizer, 0.8)
	}

	return conf
}
