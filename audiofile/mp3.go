package audiofile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// readMP3File decodes an MP3 file. go-mp3 always emits 16-bit stereo PCM at
// the source sample rate.
func readMP3File(path string) (*Clip, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open mp3 file: %w", err)
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	samples, err := PCMToSamples(pcm, 16, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to convert mp3 samples: %w", err)
	}

	return &Clip{
		Samples:    samples,
		SampleRate: decoder.SampleRate(),
		Channels:   2,
	}, nil
}
