package classify

// Classification pipeline
//
// Ties the stages together: feature extraction -> heuristic rules ->
// embedding score mapping -> fusion/boosts -> selection -> color. One
// waveform in, one (category, color) out. Every intermediate structure is
// local to the call, so concurrent callers need no locking on the
// classifier's own data; only the external model collaborator may impose
// serialization, and that contract belongs to the collaborator.

import (
	"log/slog"

	"sample-sorter/utils"
)

// Strategy selects which confidence sources feed the fusion stage.
type Strategy string

const (
	// StrategyHeuristic classifies from spectral heuristics alone.
	StrategyHeuristic Strategy = "heuristic"
	// StrategyHybrid fuses heuristics with the external embedding model.
	StrategyHybrid Strategy = "hybrid"
)

// ModelErrorPolicy decides what a failed model collaborator does to the call.
type ModelErrorPolicy string

const (
	// PolicyHeuristicFallback degrades to heuristic-only classification,
	// logged explicitly and flagged on the outcome.
	PolicyHeuristicFallback ModelErrorPolicy = "heuristic"
	// PolicyFail surfaces ModelUnavailableError to the caller.
	PolicyFail ModelErrorPolicy = "fail"
)

// ScoreProvider is the external embedding model collaborator. Implementations
// are responsible for resampling to whatever rate the model requires.
type ScoreProvider interface {
	Score(samples []float64, sampleRate int) (*FrameScores, error)
}

// Config selects the fusion strategy. Strategies are chosen here by
// configuration, not by subclassing.
type Config struct {
	Strategy     Strategy
	Model        ScoreProvider
	OnModelError ModelErrorPolicy
}

// Outcome is the result of one classification call.
type Outcome struct {
	Category    Category      `json:"category"`
	Color       string        `json:"color"`
	Confidence  float64       `json:"confidence"`
	Confidences ConfidenceMap `json:"confidences"`
	Degraded    bool          `json:"degraded,omitempty"`
}

// Classifier runs the fusion pipeline. It holds no per-call state and is safe
// for concurrent use.
type Classifier struct {
	cfg    Config
	logger *slog.Logger
}

// New builds a classifier. A nil model forces the heuristic strategy; the
// default error policy is heuristic fallback.
func New(cfg Config) *Classifier {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyHybrid
	}
	if cfg.Model == nil {
		cfg.Strategy = StrategyHeuristic
	}
	if cfg.OnModelError == "" {
		cfg.OnModelError = PolicyHeuristicFallback
	}
	return &Classifier{cfg: cfg, logger: utils.GetLogger()}
}

// Classify assigns one category and color to a mono waveform.
func (c *Classifier) Classify(samples []float64, sampleRate int) (*Outcome, error) {
	features, err := ExtractFeatures(samples, sampleRate)
	if err != nil {
		return nil, err
	}

	conf := ApplyHeuristics(features)
	degraded := false

	if c.cfg.Strategy == StrategyHybrid {
		mapped, err := c.scoreWithModel(samples, sampleRate)
		switch {
		case err != nil && c.cfg.OnModelError == PolicyFail:
			return nil, err
		case err != nil:
			// explicit degraded-mode decision, never silent
			c.logger.Warn("embedding model unavailable, continuing heuristic-only",
				slog.Any("error", err))
			degraded = true
		default:
			conf.Merge(mapped)
		}
	}

	ApplyBoosts(conf)
	category, confidence := SelectCategory(conf)

	return &Outcome{
		Category:    category,
		Color:       ColorFor(category),
		Confidence:  confidence,
		Confidences: conf,
		Degraded:    degraded,
	}, nil
}

func (c *Classifier) scoreWithModel(samples []float64, sampleRate int) (ConfidenceMap, error) {
	frames, err := c.cfg.Model.Score(samples, sampleRate)
	if err != nil {
		return nil, &ModelUnavailableError{Err: err}
	}
	mapped, err := MapFrameScores(frames)
	if err != nil {
		return nil, &ModelUnavailableError{Err: err}
	}
	return mapped, nil
}
