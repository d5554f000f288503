package embedding

// Client for the external audio tagging service. The service hosts a
// pretrained multi-class model and returns per-frame class scores; this
// process treats it as an opaque collaborator. The model expects a fixed
// sample rate, so the client resamples before upload; the model never sees
// the original rate.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"sample-sorter/audiofile"
	"sample-sorter/classify"
	"sample-sorter/dsp"
)

// ModelSampleRate is the sample rate the hosted model requires.
const ModelSampleRate = 16000

// Client communicates with the scoring service over HTTP.
type Client struct {
	serviceURL string
	client     *http.Client
}

type scoreResponse struct {
	ClassNames []string    `json:"classNames"`
	Scores     [][]float64 `json:"scores"`
}

// NewClient creates a scoring client. An empty URL falls back to the local
// development default.
func NewClient(serviceURL string) *Client {
	if serviceURL == "" {
		serviceURL = "http://localhost:5002"
	}

	return &Client{
		serviceURL: serviceURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HealthCheck verifies the scoring service is running.
func (c *Client) HealthCheck() error {
	resp, err := c.client.Get(c.serviceURL + "/health")
	if err != nil {
		return fmt.Errorf("scoring service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring service unhealthy: status %d", resp.StatusCode)
	}

	return nil
}

// Score uploads the waveform and returns the model's frame-score matrix with
// its parallel class-name list. Implements classify.ScoreProvider.
func (c *Client) Score(samples []float64, sampleRate int) (*classify.FrameScores, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples provided")
	}

	if sampleRate != ModelSampleRate {
		samples = dsp.Resample(samples, sampleRate, ModelSampleRate)
	}
	wavData := audiofile.EncodeWAV(samples, ModelSampleRate)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("audio", "clip.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(wavData); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequest("POST", c.serviceURL+"/score", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scoring service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var scored scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&scored); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(scored.Scores) == 0 {
		return nil, errors.New("received empty score matrix")
	}

	return &classify.FrameScores{
		ClassNames: scored.ClassNames,
		Scores:     scored.Scores,
	}, nil
}
