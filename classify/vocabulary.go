package classify

// Category Vocabulary
//
// The fixed, ordered set of instrument and sound-source labels the sorter can
// output. The enumeration order matters: it is the deterministic tie-break
// order used by the selection policy, so reordering entries changes behavior.
// Every category belongs to one family, which the organizer uses to group
// library folders and the frontend uses for display.

// Category is one label from the fixed vocabulary.
type Category string

const (
	// percussion family
	Drums      Category = "Drums"
	SnareDrum  Category = "Snare drum"
	BassDrum   Category = "Bass drum"
	Cymbal     Category = "Cymbal"
	HiHat      Category = "Hi-hat"
	Percussion Category = "Percussion"

	// string family
	Guitar         Category = "Guitar"
	ElectricGuitar Category = "Electric guitar"
	AcousticGuitar Category = "Acoustic guitar"
	BassGuitar     Category = "Bass guitar"
	Piano          Category = "Piano"
	Violin         Category = "Violin"

	// wind family
	Saxophone Category = "Saxophone"
	Trumpet   Category = "Trumpet"
	Flute     Category = "Flute"
	Clarinet  Category = "Clarinet"

	// electronic family
	Synthesizer Category = "Synthesizer"
	Electronic  Category = "Electronic"
	Sample      Category = "Sample"

	// voice family
	Speech       Category = "Speech"
	MaleSpeech   Category = "Male speech"
	FemaleSpeech Category = "Female speech"
	Singing      Category = "Singing"
	Vocals       Category = "Vocals"

	// generic catch-all, admitted only when nothing specific is confident
	Music Category = "Music"
)

// GenericCategory is the catch-all label used by the fallback policy.
const GenericCategory = Music

// Vocabulary lists every category in tie-break order.
var Vocabulary = []Category{
	Drums, SnareDrum, BassDrum, Cymbal, HiHat, Percussion,
	Guitar, ElectricGuitar, AcousticGuitar, BassGuitar, Piano, Violin,
	Saxophone, Trumpet, Flute, Clarinet,
	Synthesizer, Electronic, Sample,
	Speech, MaleSpeech, FemaleSpeech, Singing, Vocals,
	Music,
}

// Family groups related categories for library layout and display.
type Family string

const (
	FamilyPercussion Family = "Percussion"
	FamilyString     Family = "Strings"
	FamilyWind       Family = "Winds"
	FamilyElectronic Family = "Electronic"
	FamilyVoice      Family = "Voice"
	FamilyGeneric    Family = "Generic"
)

var families = map[Category]Family{
	Drums: FamilyPercussion, SnareDrum: FamilyPercussion, BassDrum: FamilyPercussion,
	Cymbal: FamilyPercussion, HiHat: FamilyPercussion, Percussion: FamilyPercussion,

	Guitar: FamilyString, ElectricGuitar: FamilyString, AcousticGuitar: FamilyString,
	BassGuitar: FamilyString, Piano: FamilyString, Violin: FamilyString,

	Saxophone: FamilyWind, Trumpet: FamilyWind, Flute: FamilyWind, Clarinet: FamilyWind,

	Synthesizer: FamilyElectronic, Electronic: FamilyElectronic, Sample: FamilyElectronic,

	Speech: FamilyVoice, MaleSpeech: FamilyVoice, FemaleSpeech: FamilyVoice,
	Singing: FamilyVoice, Vocals: FamilyVoice,

	Music: FamilyGeneric,
}

// Family returns the family a category belongs to.
func (c Category) Family() Family {
	if family, ok := families[c]; ok {
		return family
	}
	return FamilyGeneric
}

// Valid reports whether the category is part of the vocabulary.
func (c Category) Valid() bool {
	_, ok := families[c]
	return ok
}

func init() {
	// the family table must cover the vocabulary exactly, so an added label
	// cannot silently bypass grouping
	if len(families) != len(Vocabulary) {
		panic("classify: family table does not match vocabulary size")
	}
	for _, category := range Vocabulary {
		if _, ok := families[category]; !ok {
			panic("classify: category missing from family table: " + string(category))
		}
	}
}

// ConfidenceMap tracks a per-category score in [0,1] for every vocabulary
// entry. Values only move up through Raise/Merge (max-combine); the single
// exception is the explicit generic-zeroing rule applied by the fusion stage.
type ConfidenceMap map[Category]float64

// NewConfidenceMap returns a zero-initialized map covering the vocabulary.
func NewConfidenceMap() ConfidenceMap {
	m := make(ConfidenceMap, len(Vocabulary))
	for _, category := range Vocabulary {
		m[category] = 0
	}
	return m
}

// Raise max-combines a confidence into the map, clamped to [0,1]. Categories
// outside the vocabulary are ignored.
func (m ConfidenceMap) Raise(c Category, confidence float64) {
	if !c.Valid() {
		return
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence > m[c] {
		m[c] = confidence
	}
}

// Merge folds another map into this one by per-key maximum. The operation is
// commutative, associative, and idempotent.
func (m ConfidenceMap) Merge(other ConfidenceMap) {
	for category, confidence := range other {
		m.Raise(category, confidence)
	}
}

// Clone returns an independent copy.
func (m ConfidenceMap) Clone() ConfidenceMap {
	clone := make(ConfidenceMap, len(m))
	for category, confidence := range m {
		clone[category] = confidence
	}
	return clone
}
