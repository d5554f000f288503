package classify

// Embedding Score Mapper
//
// Maps the external model's frame-by-class score matrix onto the fixed
// vocabulary. The aggregation is frequency-weighted: for every frame the
// highest-scoring external class takes that frame's vote, and a class's
// confidence is (fraction of frames it wins) x (its mean score across all
// frames). External class names are noisy, so they go through an explicit
// keyword synonym table rather than raw substring matching; longer keywords
// are tried first so "electric guitar" does not collapse into "guitar".
//
// When the collaborator supplies no class-name list the versioned built-in
// list below is used. Class names are never fetched over the network at
// classification time.

import (
	"errors"
	"sort"
	"strings"
)

// FrameScores is the read-only output of the external embedding model: one
// row per analysis frame, one column per external class, entries in [0,1].
type FrameScores struct {
	ClassNames []string
	Scores     [][]float64
}

// fallbackClassNamesV1 is the built-in class-name list, v1. It mirrors the
// model's published ordering for the classes the keyword table can use.
var fallbackClassNamesV1 = []string{
	"Speech", "Male speech", "Female speech", "Vocals", "Singing",
	"Drums", "Snare drum", "Bass drum", "Hi-hat", "Cymbal",
	"Guitar", "Electric guitar", "Acoustic guitar", "Piano",
	"Synthesizer", "Electronic music", "Music",
}

// FallbackClassNames returns a copy of the built-in class-name list.
func FallbackClassNames() []string {
	return append([]string(nil), fallbackClassNamesV1...)
}

var keywordTable = map[string]Category{
	"snare":           SnareDrum,
	"bass drum":       BassDrum,
	"kick drum":       BassDrum,
	"hi-hat":          HiHat,
	"hihat":           HiHat,
	"cymbal":          Cymbal,
	"drum":            Drums,
	"percussion":      Percussion,
	"tabla":           Percussion,
	"conga":           Percussion,
	"electric guitar": ElectricGuitar,
	"acoustic guitar": AcousticGuitar,
	"bass guitar":     BassGuitar,
	"guitar":          Guitar,
	"piano":           Piano,
	"violin":          Violin,
	"fiddle":          Violin,
	"saxophone":       Saxophone,
	"trumpet":         Trumpet,
	"flute":           Flute,
	"clarinet":        Clarinet,
	"synthesizer":     Synthesizer,
	"synth":           Synthesizer,
	"electronic":      Electronic,
	"sample":          Sample,
	"male speech":     MaleSpeech,
	"female speech":   FemaleSpeech,
	"speech":          Speech,
	"singing":         Singing,
	"choir":           Vocals,
	"vocal":           Vocals,
	"music":           Music,
}

// keywordOrder holds the table keys sorted longest first so the most specific
// synonym wins.
var keywordOrder = func() []string {
	keys := make([]string, 0, len(keywordTable))
	for key := range keywordTable {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// matchKeyword resolves an external class name to a vocabulary category.
func matchKeyword(className string) (Category, bool) {
	lowered := strings.ToLower(className)
	for _, keyword := range keywordOrder {
		if strings.Contains(lowered, keyword) {
			return keywordTable[keyword], true
		}
	}
	return "", false
}

// MapFrameScores aggregates a frame-score matrix into a partial confidence
// map. The caller merges the result into the heuristic map via max-combine.
func MapFrameScores(frames *FrameScores) (ConfidenceMap, error) {
	conf := NewConfidenceMap()
	if frames == nil || len(frames.Scores) == 0 {
		return nil, errors.New("empty frame score matrix")
	}

	classCount := len(frames.Scores[0])
	if classCount == 0 {
		return nil, errors.New("frame score matrix has no classes")
	}
	for _, row := range frames.Scores {
		if len(row) != classCount {
			return nil, errors.New("ragged frame score matrix")
		}
	}

	names := frames.ClassNames
	if len(names) == 0 {
		names = fallbackClassNamesV1
	}
	if classCount < len(names) {
		names = names[:classCount]
	}

	frameCount := float64(len(frames.Scores))
	votes := make([]float64, len(names))
	sums := make([]float64, len(names))

	for _, row := range frames.Scores {
		winner := 0
		for class := 1; class < len(names); class++ {
			if row[class] > row[winner] {
				winner = class
			}
		}
		votes[winner]++
		for class := range names {
			sums[class] += row[class]
		}
	}

	for class, name := range names {
		confidence := (votes[class] / frameCount) * (sums[class] / frameCount)
		if confidence <= 0 {
			continue
		}
		if category, ok := matchKeyword(name); ok {
			conf.Raise(category, confidence)
		}
	}

	return conf, nil
}
