package classify

import (
	"math"
	"testing"
)

func TestApplyBoostsElectricGuitarRaisesGuitar(t *testing.T) {
	t.Parallel()

	conf := NewConfidenceMap()
	conf.Raise(ElectricGuitar, 0.5)
	ApplyBoosts(conf)

	if math.Abs(conf[Guitar]-0.4) > 1e-9 {
		t.Errorf("expected Guitar boosted to 0.40, got %.3f", conf[Guitar])
	}
}

func TestApplyBoostsPercussionRaisesDrums(t *testing.T) {
	t.Parallel()

	conf := NewConfidenceMap()
	conf.Raise(Cymbal, 0.6)
	conf.Raise(SnareDrum, 0.4)
	ApplyBoosts(conf)

	// the strongest percussion child drives the boost
	if math.Abs(conf[Drums]-0.48) > 1e-9 {
		t.Errorf("expected Drums boosted to 0.48, got %.3f", conf[Drums])
	}
}

func TestApplyBoostsSingingRaisesVocals(t *testing.T) {
	t.Parallel()

	conf := NewConfidenceMap()
	conf.Raise(Singing, 0.4)
	conf.Raise(Vocals, 0.2)
	ApplyBoosts(conf)

	if math.Abs(conf[Vocals]-0.36) > 1e-9 {
		t.Errorf("expected Vocals boosted to 0.36, got %.3f", conf[Vocals])
	}
}

func TestApplyBoostsNeverLowersParent(t *testing.T) {
	t.Parallel()

	conf := NewConfidenceMap()
	conf.Raise(Guitar, 0.9)
	conf.Raise(ElectricGuitar, 0.5)
	ApplyBoosts(conf)

	if conf[Guitar] != 0.9 {
		t.Errorf("expected Guitar to stay at 0.90, got %.3f", conf[Guitar])
	}
}

func TestApplyBoostsBelowTriggerDoesNothing(t *testing.T) {
	t.Parallel()

	conf := NewConfidenceMap()
	conf.Raise(ElectricGuitar, 0.3)
	conf.Raise(Singing, 0.25)
	ApplyBoosts(conf)

	if conf[Guitar] != 0 {
		t.Errorf("expected no Guitar boost at the trigger threshold, got %.3f", conf[Guitar])
	}
	if conf[Vocals] != 0 {
		t.Errorf("expected no Vocals boost below the trigger, got %.3f", conf[Vocals])
	}
}

func TestApplyBoostsZeroesGenericWhenSignificant(t *testing.T) {
	t.Parallel()

	conf := NewConfidenceMap()
	conf.Raise(Guitar, 0.5)
	conf.Raise(Music, 0.9)
	ApplyBoosts(conf)

	if conf[Music] != 0 {
		t.Errorf("expected Music zeroed when a specific category is significant, got %.3f", conf[Music])
	}
}

func TestApplyBoostsGenericFallbackWhenNothingSignificant(t *testing.T) {
	t.Parallel()

	conf := NewConfidenceMap()
	conf.Raise(Guitar, 0.1)
	ApplyBoosts(conf)

	if math.Abs(conf[Music]-0.1) > 1e-9 {
		t.Errorf("expected Music floor of 0.10, got %.3f", conf[Music])
	}
}

func TestConfidenceMapMergeIsMaxCombine(t *testing.T) {
	t.Parallel()

	a := NewConfidenceMap()
	a.Raise(Guitar, 0.6)
	a.Raise(Piano, 0.2)

	b := NewConfidenceMap()
	b.Raise(Guitar, 0.4)
	b.Raise(Piano, 0.7)

	merged := a.Clone()
	merged.Merge(b)
	if merged[Guitar] != 0.6 || merged[Piano] != 0.7 {
		t.Errorf("merge is not per-key max: Guitar=%.2f Piano=%.2f", merged[Guitar], merged[Piano])
	}

	// commutative
	reversed := b.Clone()
	reversed.Merge(a)
	for _, category := range Vocabulary {
		if merged[category] != reversed[category] {
			t.Errorf("merge not commutative for %s: %.2f vs %.2f",
				category, merged[category], reversed[category])
		}
	}

	// idempotent
	again := merged.Clone()
	again.Merge(merged)
	for _, category := range Vocabulary {
		if again[category] != merged[category] {
			t.Errorf("merge not idempotent for %s", category)
		}
	}
}

func TestConfidenceMapRaiseClampsAndIgnoresInvalid(t *testing.T) {
	t.Parallel()

	conf := NewConfidenceMap()
	conf.Raise(Guitar, 1.5)
	if conf[Guitar] != 1 {
		t.Errorf("expected clamp to 1.0, got %.2f", conf[Guitar])
	}

	conf.Raise(Guitar, 0.5)
	if conf[Guitar] != 1 {
		t.Errorf("Raise must never lower a confidence, got %.2f", conf[Guitar])
	}

	conf.Raise(Category("Kazoo"), 0.9)
	if len(conf) != len(Vocabulary) {
		t.Errorf("invalid category leaked into the map: %d entries", len(conf))
	}
}
