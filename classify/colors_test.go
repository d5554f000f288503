package classify

import (
	"regexp"
	"testing"
)

func TestColorForCoversVocabulary(t *testing.T) {
	t.Parallel()

	hexPattern := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for _, category := range Vocabulary {
		color := ColorFor(category)
		if !hexPattern.MatchString(color) {
			t.Errorf("category %s has malformed color %q", category, color)
		}
	}
}

func TestColorForUnknownCategory(t *testing.T) {
	t.Parallel()

	if got := ColorFor(Category("Kazoo")); got != DefaultColor {
		t.Errorf("expected default color for unknown category, got %q", got)
	}
}

func TestColorForKnownAssignments(t *testing.T) {
	t.Parallel()

	cases := map[Category]string{
		Drums:          "#FFD700",
		ElectricGuitar: "#90EE90",
		Synthesizer:    "#FF00FF",
		Vocals:         "#FFC0CB",
		Music:          "#FFFFFF",
	}
	for category, expected := range cases {
		if got := ColorFor(category); got != expected {
			t.Errorf("expected %s for %s, got %s", expected, category, got)
		}
	}
}

func TestFamilyCoversVocabulary(t *testing.T) {
	t.Parallel()

	for _, category := range Vocabulary {
		family := category.Family()
		switch family {
		case FamilyPercussion, FamilyString, FamilyWind, FamilyElectronic, FamilyVoice, FamilyGeneric:
		default:
			t.Errorf("category %s has unknown family %q", category, family)
		}
	}

	if Music.Family() != FamilyGeneric {
		t.Errorf("expected Music in the generic family, got %s", Music.Family())
	}
	if got := Category("Kazoo").Family(); got != FamilyGeneric {
		t.Errorf("expected generic family for unknown category, got %s", got)
	}
}
