package audiofile

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeWAVRoundTrip(t *testing.T) {
	t.Parallel()

	const sampleRate = 8000
	samples := make([]float64, sampleRate)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	clip, err := DecodeWAV(EncodeWAV(samples, sampleRate))
	if err != nil {
		t.Fatalf("DecodeWAV returned error: %v", err)
	}

	if clip.SampleRate != sampleRate {
		t.Errorf("expected sample rate %d, got %d", sampleRate, clip.SampleRate)
	}
	if clip.Channels != 1 {
		t.Errorf("expected mono, got %d channels", clip.Channels)
	}
	if len(clip.Samples) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(clip.Samples))
	}

	// 16-bit quantization costs at most ~1/32768 per sample
	for i := range samples {
		if math.Abs(clip.Samples[i]-samples[i]) > 1.0/16384 {
			t.Fatalf("sample %d: expected %.5f, got %.5f", i, samples[i], clip.Samples[i])
		}
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	t.Parallel()

	cases := map[string][]byte{
		"empty":        {},
		"too short":    []byte("RIFF"),
		"wrong magic":  []byte("OggS\x00\x00\x00\x00WAVE\x00\x00\x00\x00"),
		"missing data": EncodeWAV(nil, 8000)[:36],
	}
	for name, data := range cases {
		if _, err := DecodeWAV(data); err == nil {
			t.Errorf("expected error for %s input", name)
		}
	}
}

func TestWriteAndReadWAVFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := make([]float64, 4000)
	for i := range samples {
		samples[i] = 0.25 * math.Sin(2*math.Pi*220*float64(i)/8000)
	}

	if err := WriteWAV(path, samples, 8000); err != nil {
		t.Fatalf("WriteWAV returned error: %v", err)
	}

	clip, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if clip.SampleRate != 8000 || len(clip.Samples) != 4000 {
		t.Errorf("unexpected clip: rate=%d samples=%d", clip.SampleRate, len(clip.Samples))
	}
	if clip.Duration() != 0.5 {
		t.Errorf("expected 0.5s duration, got %.3f", clip.Duration())
	}
}

func TestPCMToSamplesStereoDownmix(t *testing.T) {
	t.Parallel()

	// one stereo frame: left at full positive, right at full negative
	data := make([]byte, 4)
	left := int16(32767)
	right := int16(-32767)
	binary.LittleEndian.PutUint16(data[0:2], uint16(left))
	binary.LittleEndian.PutUint16(data[2:4], uint16(right))

	samples, err := PCMToSamples(data, 16, 2)
	if err != nil {
		t.Fatalf("PCMToSamples returned error: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 mono frame, got %d", len(samples))
	}
	if math.Abs(samples[0]) > 1e-9 {
		t.Errorf("expected opposite channels to cancel, got %.6f", samples[0])
	}
}

func TestPCMToSamplesBitDepths(t *testing.T) {
	t.Parallel()

	// 8-bit WAV PCM is unsigned: 255 is full positive
	samples, err := PCMToSamples([]byte{255}, 8, 1)
	if err != nil {
		t.Fatalf("8-bit conversion failed: %v", err)
	}
	if samples[0] < 0.98 {
		t.Errorf("expected near-full-scale 8-bit sample, got %.4f", samples[0])
	}

	// 24-bit negative full scale
	samples, err = PCMToSamples([]byte{0x00, 0x00, 0x80}, 24, 1)
	if err != nil {
		t.Fatalf("24-bit conversion failed: %v", err)
	}
	if samples[0] != -1 {
		t.Errorf("expected -1 for 24-bit min value, got %.4f", samples[0])
	}

	if _, err := PCMToSamples([]byte{0, 0}, 12, 1); err == nil {
		t.Error("expected error for unsupported bit depth")
	}
	if _, err := PCMToSamples([]byte{0, 0}, 16, 0); err == nil {
		t.Error("expected error for zero channels")
	}
	if _, err := PCMToSamples([]byte{0}, 16, 1); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestSupportedExtension(t *testing.T) {
	t.Parallel()

	supported := []string{"kick.wav", "loop.MP3", "pad.Flac", "/tmp/dir/snare.WAV"}
	for _, path := range supported {
		if !SupportedExtension(path) {
			t.Errorf("expected %s to be supported", path)
		}
	}

	unsupported := []string{"notes.txt", "song.ogg", "wav", "sample.aiff", ""}
	for _, path := range unsupported {
		if SupportedExtension(path) {
			t.Errorf("expected %s to be unsupported", path)
		}
	}
}

func TestReadFileUnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample.ogg")
	if err := os.WriteFile(path, []byte("not audio"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
