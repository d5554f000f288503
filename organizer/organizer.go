package organizer

// Sample Organizer
//
// The file-mover layer around the classification core. One call decodes a
// sample file, classifies it, and copies (or moves) it into the library under
// a family/category folder, recording the placement in the ledger. Batch
// scans isolate failures per file: a broken sample is reported and the rest
// of the batch continues.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mdobak/go-xerrors"

	"sample-sorter/audiofile"
	"sample-sorter/classify"
	"sample-sorter/models"
	"sample-sorter/utils"
)

// ErrAlreadySorted marks a file the ledger says was placed before.
var ErrAlreadySorted = errors.New("file already sorted")

// Labeler assigns one category and color to a decoded clip.
type Labeler interface {
	Classify(samples []float64, sampleRate int) (*classify.Outcome, error)
}

// Ledger tracks which files have been placed. A nil ledger disables
// deduplication.
type Ledger interface {
	IsSorted(sourcePath string, sourceModified int64) (bool, error)
	RecordSortedFile(record *models.SortedFile) error
}

// Organizer wires the classifier, ledger, and library layout together.
type Organizer struct {
	labeler    Labeler
	ledger     Ledger
	libraryDir string
	moveFiles  bool
	logger     *slog.Logger
}

// Result describes one placed sample.
type Result struct {
	ID          string            `json:"id"`
	SourcePath  string            `json:"sourcePath"`
	Category    classify.Category `json:"category"`
	Color       string            `json:"color"`
	Confidence  float64           `json:"confidence"`
	Degraded    bool              `json:"degraded,omitempty"`
	Destination string            `json:"destination"`
}

// FileFailure pairs a failed path with its error for batch reporting.
type FileFailure struct {
	Path string
	Err  error
}

// BatchSummary reports the outcome of a directory scan.
type BatchSummary struct {
	Processed []Result
	Skipped   int
	Failures  []FileFailure
}

// New builds an organizer rooted at libraryDir. When moveFiles is false,
// sources are copied and left in place.
func New(labeler Labeler, ledger Ledger, libraryDir string, moveFiles bool) *Organizer {
	return &Organizer{
		labeler:    labeler,
		ledger:     ledger,
		libraryDir: libraryDir,
		moveFiles:  moveFiles,
		logger:     utils.GetLogger(),
	}
}

// ProcessFile classifies one sample file and places it into the library.
// Returns ErrAlreadySorted when the ledger already has this file version.
func (o *Organizer) ProcessFile(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat sample: %w", err)
	}
	modified := info.ModTime().Unix()

	if o.ledger != nil {
		sorted, err := o.ledger.IsSorted(path, modified)
		if err != nil {
			return nil, fmt.Errorf("ledger lookup failed: %w", err)
		}
		if sorted {
			return nil, ErrAlreadySorted
		}
	}

	clip, err := audiofile.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sample: %w", err)
	}

	outcome, err := o.labeler.Classify(clip.Samples, clip.SampleRate)
	if err != nil {
		return nil, err
	}

	destination, err := o.place(path, outcome.Category)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:          utils.GenerateUniqueID(),
		SourcePath:  path,
		Category:    outcome.Category,
		Color:       outcome.Color,
		Confidence:  outcome.Confidence,
		Degraded:    outcome.Degraded,
		Destination: destination,
	}

	if o.ledger != nil {
		record := &models.SortedFile{
			ID:             result.ID,
			SourcePath:     path,
			SourceModified: modified,
			Category:       string(outcome.Category),
			Color:          outcome.Color,
			Confidence:     outcome.Confidence,
			Degraded:       outcome.Degraded,
			Destination:    destination,
			ProcessedAt:    time.Now(),
		}
		if err := o.ledger.RecordSortedFile(record); err != nil {
			// the file has been placed; a ledger write failure only costs
			// dedupe on the next run
			o.logger.Warn("failed to record sorted file",
				slog.String("path", path),
				slog.Any("error", xerrors.New(err)))
		}
	}

	o.logger.Info("sorted sample",
		slog.String("source", path),
		slog.String("category", string(outcome.Category)),
		slog.String("color", outcome.Color),
		slog.Float64("confidence", outcome.Confidence),
		slog.Bool("degraded", outcome.Degraded),
		slog.String("destination", destination),
	)

	return result, nil
}

// ProcessDirectory scans dir non-recursively and processes every supported
// audio file. One file's failure never aborts the batch.
func (o *Organizer) ProcessDirectory(ctx context.Context, dir string) (*BatchSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !audiofile.SupportedExtension(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	summary := &BatchSummary{}
	for _, name := range names {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			default:
			}
		}

		path := filepath.Join(dir, name)
		result, err := o.ProcessFile(path)
		switch {
		case errors.Is(err, ErrAlreadySorted):
			summary.Skipped++
		case err != nil:
			summary.Failures = append(summary.Failures, FileFailure{Path: path, Err: err})
			o.logger.Error("failed to sort sample",
				slog.String("path", path),
				slog.Any("error", xerrors.New(err)))
		default:
			summary.Processed = append(summary.Processed, *result)
		}
	}

	return summary, nil
}

// place copies or moves the source file into the library layout:
// <library>/<family>/<category>/<name>, with a numeric suffix on collisions.
func (o *Organizer) place(sourcePath string, category classify.Category) (string, error) {
	targetDir := filepath.Join(o.libraryDir, string(category.Family()), string(category))
	if err := utils.CreateFolder(targetDir); err != nil {
		return "", err
	}

	destination := uniqueDestination(targetDir, filepath.Base(sourcePath))

	if o.moveFiles {
		if err := os.Rename(sourcePath, destination); err == nil {
			return destination, nil
		}
		// cross-device rename fails; fall through to copy+remove
		if err := copyFile(sourcePath, destination); err != nil {
			return "", err
		}
		if err := os.Remove(sourcePath); err != nil {
			return "", fmt.Errorf("failed to remove source after move: %w", err)
		}
		return destination, nil
	}

	if err := copyFile(sourcePath, destination); err != nil {
		return "", err
	}
	return destination, nil
}

func uniqueDestination(dir, name string) string {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]

	candidate := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}
}

func copyFile(sourcePath, destination string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer source.Close()

	target, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(target, source); err != nil {
		target.Close()
		_ = os.Remove(destination)
		return fmt.Errorf("failed to copy sample: %w", err)
	}
	return target.Close()
}
