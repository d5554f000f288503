package models

import "time"

// SamplePayload is the socket payload carrying one clip from the frontend:
// base64-encoded raw PCM plus the parameters needed to decode it.
type SamplePayload struct {
	Audio      string  `json:"audio"`
	Name       string  `json:"name,omitempty"`
	SampleRate int     `json:"sampleRate"`
	Channels   int     `json:"channels"`
	SampleSize int     `json:"sampleSize"`
	Duration   float64 `json:"duration"`
}

// SortedFile is one row of the library ledger: a source file that has been
// classified and placed into the library.
type SortedFile struct {
	ID             string    `json:"id"`
	SourcePath     string    `json:"sourcePath"`
	SourceModified int64     `json:"sourceModified"`
	Category       string    `json:"category"`
	Color          string    `json:"color"`
	Confidence     float64   `json:"confidence"`
	Degraded       bool      `json:"degraded"`
	Destination    string    `json:"destination"`
	ProcessedAt    time.Time `json:"processedAt"`
}

// CategoryInfo describes one vocabulary entry for the frontend.
type CategoryInfo struct {
	Category string `json:"category"`
	Family   string `json:"family"`
	Color    string `json:"color"`
}
