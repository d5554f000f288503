package main

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/mdobak/go-xerrors"

	"sample-sorter/audiofile"
	"sample-sorter/classify"
	"sample-sorter/models"
	"sample-sorter/utils"
)

type socketController struct {
	classifier *classify.Classifier
	logger     *slog.Logger
}

func newSocketController(classifier *classify.Classifier) *socketController {
	return &socketController{
		classifier: classifier,
		logger:     utils.GetLogger(),
	}
}

type classificationEvent struct {
	Name      string  `json:"name"`
	LatencyMs int64   `json:"latencyMs"`
	*classify.Outcome
}

// emitVocabulary pushes the full category list with families and colors so
// clients can render legends without hardcoding them.
func (c *socketController) emitVocabulary(socket socketio.Conn) {
	vocabulary := make([]models.CategoryInfo, 0, len(classify.Vocabulary))
	for _, category := range classify.Vocabulary {
		vocabulary = append(vocabulary, models.CategoryInfo{
			Category: string(category),
			Family:   string(category.Family()),
			Color:    classify.ColorFor(category),
		})
	}
	socket.Emit("vocabulary", vocabulary)
}

// handleNewSample decodes an uploaded PCM payload, classifies it, and emits
// the outcome back on the same socket.
func (c *socketController) handleNewSample(socket socketio.Conn, msg string) {
	var payload models.SamplePayload
	if err := json.Unmarshal([]byte(msg), &payload); err != nil {
		c.logger.Error("failed to unmarshal sample payload", slog.Any("error", xerrors.New(err)))
		socket.Emit("analysisError", map[string]string{"message": "invalid sample payload"})
		return
	}

	raw, err := base64.StdEncoding.DecodeString(payload.Audio)
	if err != nil {
		c.logger.Error("failed to decode sample audio", slog.Any("error", xerrors.New(err)))
		socket.Emit("analysisError", map[string]string{"message": "invalid base64 audio data"})
		return
	}

	samples, err := audiofile.PCMToSamples(raw, payload.SampleSize, payload.Channels)
	if err != nil {
		c.logger.Error("failed to convert sample audio",
			slog.String("name", payload.Name),
			slog.Any("error", xerrors.New(err)))
		socket.Emit("analysisError", map[string]string{"message": "unable to decode audio samples"})
		return
	}

	start := time.Now()
	outcome, err := c.classifier.Classify(samples, payload.SampleRate)
	if err != nil {
		c.logger.Error("classification failed",
			slog.String("name", payload.Name),
			slog.Any("error", xerrors.New(err)))
		socket.Emit("analysisError", map[string]string{"message": err.Error()})
		return
	}

	latency := time.Since(start).Milliseconds()
	c.logger.Info("classified sample",
		slog.String("name", payload.Name),
		slog.String("category", string(outcome.Category)),
		slog.Float64("confidence", outcome.Confidence),
		slog.Int64("latencyMs", latency),
	)

	socket.Emit("classification", classificationEvent{
		Name:      payload.Name,
		LatencyMs: latency,
		Outcome:   outcome,
	})
}
