package classify

// Fusion & Boost Engine
//
// Runs after the heuristic and embedding confidences have been max-combined.
// A strongly detected child category raises its parent; the generic Music
// category is admitted only when no specific category is significant. The
// rules run in a fixed order and the whole pass is a total function over any
// well-formed confidence map.

const (
	boostTrigger         = 0.3
	significantThreshold = 0.15
	genericFallbackScore = 0.1
)

// ApplyBoosts mutates the map with the hierarchical boost rules and then
// settles the generic category.
func ApplyBoosts(conf ConfidenceMap) {
	if conf[ElectricGuitar] > boostTrigger {
		conf.Raise(Guitar, conf[ElectricGuitar]*0.8)
	}

	percussion := conf[SnareDrum]
	for _, category := range []Category{BassDrum, Cymbal, HiHat, Percussion} {
		if conf[category] > percussion {
			percussion = conf[category]
		}
	}
	if percussion > boostTrigger {
		conf.Raise(Drums, percussion*0.8)
	}

	if conf[Singing] > boostTrigger {
		conf.Raise(Vocals, conf[Singing]*0.9)
	}

	// generic fallback: Music survives only when nothing specific stands out
	if anySignificant(conf) {
		conf[GenericCategory] = 0
	} else {
		conf[GenericCategory] = genericFallbackScore
	}
}

func anySignificant(conf ConfidenceMap) bool {
	for _, category := range Vocabulary {
		if category == GenericCategory {
			continue
		}
		if conf[category] > significantThreshold {
			return true
		}
	}
	return false
}
