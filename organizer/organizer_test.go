package organizer

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"sample-sorter/audiofile"
	"sample-sorter/classify"
	"sample-sorter/models"
)

type fakeLabeler struct {
	outcome *classify.Outcome
	err     error
}

func (f *fakeLabeler) Classify(samples []float64, sampleRate int) (*classify.Outcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type memoryLedger struct {
	sorted  map[string]int64
	records []*models.SortedFile
	failSet bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{sorted: make(map[string]int64)}
}

func (m *memoryLedger) IsSorted(sourcePath string, sourceModified int64) (bool, error) {
	modified, ok := m.sorted[sourcePath]
	return ok && modified == sourceModified, nil
}

func (m *memoryLedger) RecordSortedFile(record *models.SortedFile) error {
	if m.failSet {
		return errors.New("ledger write failed")
	}
	m.sorted[record.SourcePath] = record.SourceModified
	m.records = append(m.records, record)
	return nil
}

func guitarLabeler() *fakeLabeler {
	return &fakeLabeler{outcome: &classify.Outcome{
		Category:   classify.Guitar,
		Color:      classify.ColorFor(classify.Guitar),
		Confidence: 0.85,
	}}
}

func writeTestTone(t *testing.T, path string) {
	t.Helper()
	samples := make([]float64, 4000)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/8000)
	}
	if err := audiofile.WriteWAV(path, samples, 8000); err != nil {
		t.Fatalf("failed to write test tone: %v", err)
	}
}

func TestProcessFilePlacesIntoFamilyLayout(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	library := t.TempDir()
	source := filepath.Join(incoming, "riff.wav")
	writeTestTone(t, source)

	ledger := newMemoryLedger()
	org := New(guitarLabeler(), ledger, library, false)

	result, err := org.ProcessFile(source)
	if err != nil {
		t.Fatalf("ProcessFile returned error: %v", err)
	}

	expected := filepath.Join(library, "Strings", "Guitar", "riff.wav")
	if result.Destination != expected {
		t.Errorf("expected destination %s, got %s", expected, result.Destination)
	}
	if _, err := os.Stat(expected); err != nil {
		t.Errorf("destination file missing: %v", err)
	}
	// copy mode leaves the source in place
	if _, err := os.Stat(source); err != nil {
		t.Errorf("source must survive a copy: %v", err)
	}
	if result.Category != classify.Guitar || result.Color != "#98FB98" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.ID == "" {
		t.Error("expected a generated result ID")
	}
	if len(ledger.records) != 1 {
		t.Fatalf("expected 1 ledger record, got %d", len(ledger.records))
	}
}

func TestProcessFileMoveRemovesSource(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	source := filepath.Join(incoming, "riff.wav")
	writeTestTone(t, source)

	org := New(guitarLabeler(), newMemoryLedger(), t.TempDir(), true)
	result, err := org.ProcessFile(source)
	if err != nil {
		t.Fatalf("ProcessFile returned error: %v", err)
	}

	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Error("move mode must remove the source file")
	}
	if _, err := os.Stat(result.Destination); err != nil {
		t.Errorf("destination file missing: %v", err)
	}
}

func TestProcessFileSkipsAlreadySorted(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	source := filepath.Join(incoming, "riff.wav")
	writeTestTone(t, source)

	ledger := newMemoryLedger()
	info, err := os.Stat(source)
	if err != nil {
		t.Fatal(err)
	}
	ledger.sorted[source] = info.ModTime().Unix()

	org := New(guitarLabeler(), ledger, t.TempDir(), false)
	if _, err := org.ProcessFile(source); !errors.Is(err, ErrAlreadySorted) {
		t.Fatalf("expected ErrAlreadySorted, got %v", err)
	}
}

func TestProcessFileCollisionGetsSuffix(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	library := t.TempDir()
	first := filepath.Join(incoming, "riff.wav")
	writeTestTone(t, first)

	org := New(guitarLabeler(), nil, library, false)
	if _, err := org.ProcessFile(first); err != nil {
		t.Fatalf("first ProcessFile returned error: %v", err)
	}

	// same base name from a different folder collides in the library
	other := filepath.Join(t.TempDir(), "riff.wav")
	writeTestTone(t, other)
	result, err := org.ProcessFile(other)
	if err != nil {
		t.Fatalf("second ProcessFile returned error: %v", err)
	}

	expected := filepath.Join(library, "Strings", "Guitar", "riff-1.wav")
	if result.Destination != expected {
		t.Errorf("expected suffixed destination %s, got %s", expected, result.Destination)
	}
}

func TestProcessFileLedgerWriteFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	source := filepath.Join(incoming, "riff.wav")
	writeTestTone(t, source)

	ledger := newMemoryLedger()
	ledger.failSet = true

	org := New(guitarLabeler(), ledger, t.TempDir(), false)
	result, err := org.ProcessFile(source)
	if err != nil {
		t.Fatalf("a ledger write failure must not fail the call, got %v", err)
	}
	if _, err := os.Stat(result.Destination); err != nil {
		t.Errorf("destination file missing: %v", err)
	}
}

func TestProcessDirectoryIsolatesFailures(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	writeTestTone(t, filepath.Join(incoming, "good-a.wav"))
	writeTestTone(t, filepath.Join(incoming, "good-b.wav"))
	if err := os.WriteFile(filepath.Join(incoming, "broken.wav"), []byte("not audio"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(incoming, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	org := New(guitarLabeler(), newMemoryLedger(), t.TempDir(), false)
	summary, err := org.ProcessDirectory(context.Background(), incoming)
	if err != nil {
		t.Fatalf("ProcessDirectory returned error: %v", err)
	}

	if len(summary.Processed) != 2 {
		t.Errorf("expected 2 processed files, got %d", len(summary.Processed))
	}
	if len(summary.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(summary.Failures))
	}
	if filepath.Base(summary.Failures[0].Path) != "broken.wav" {
		t.Errorf("expected broken.wav to fail, got %s", summary.Failures[0].Path)
	}
}

func TestProcessDirectorySkipsSortedFiles(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	source := filepath.Join(incoming, "riff.wav")
	writeTestTone(t, source)

	ledger := newMemoryLedger()
	org := New(guitarLabeler(), ledger, t.TempDir(), false)

	first, err := org.ProcessDirectory(context.Background(), incoming)
	if err != nil {
		t.Fatalf("first pass returned error: %v", err)
	}
	if len(first.Processed) != 1 || first.Skipped != 0 {
		t.Fatalf("unexpected first pass: %+v", first)
	}

	second, err := org.ProcessDirectory(context.Background(), incoming)
	if err != nil {
		t.Fatalf("second pass returned error: %v", err)
	}
	if len(second.Processed) != 0 || second.Skipped != 1 {
		t.Errorf("expected the second pass to skip the file: %+v", second)
	}
}

func TestProcessDirectoryHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	writeTestTone(t, filepath.Join(incoming, "riff.wav"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	org := New(guitarLabeler(), nil, t.TempDir(), false)
	if _, err := org.ProcessDirectory(ctx, incoming); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProcessFileClassifierErrorPropagates(t *testing.T) {
	t.Parallel()

	incoming := t.TempDir()
	source := filepath.Join(incoming, "riff.wav")
	writeTestTone(t, source)

	wantErr := errors.New("model exploded")
	org := New(&fakeLabeler{err: wantErr}, nil, t.TempDir(), false)
	if _, err := org.ProcessFile(source); !errors.Is(err, wantErr) {
		t.Fatalf("expected classifier error to propagate, got %v", err)
	}
}
