package classify

// Selection Policy
//
// Filters the fused confidence map and picks exactly one category. Specific
// categories qualify above the confidence threshold; the generic category
// qualifies only when nothing specific does. Ties go to the category that
// appears earliest in the vocabulary enumeration, which keeps results
// reproducible across runs.

// SelectionThreshold is the minimum confidence a specific category needs to
// be eligible.
const SelectionThreshold = 0.15

// SelectCategory returns the winning category and its confidence. It always
// returns a vocabulary member and never fails.
func SelectCategory(conf ConfidenceMap) (Category, float64) {
	genericEligible := !anySignificant(conf)

	var (
		best      Category
		bestScore float64
		found     bool
	)
	for _, category := range Vocabulary {
		score := conf[category]
		if category == GenericCategory {
			if !genericEligible {
				continue
			}
		} else if score <= SelectionThreshold {
			continue
		}
		// strict > keeps the earliest category on ties
		if !found || score > bestScore {
			best = category
			bestScore = score
			found = true
		}
	}

	if !found {
		return GenericCategory, genericFallbackScore
	}
	return best, bestScore
}
