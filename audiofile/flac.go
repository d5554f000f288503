package audiofile

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// readFLACFile decodes a FLAC file frame by frame via mewkiz/flac.
func readFLACFile(path string) (*Clip, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flac file: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	if info.NChannels == 0 || info.SampleRate == 0 {
		return nil, errors.New("flac stream has invalid parameters")
	}

	channels := int(info.NChannels)
	scale := float64(int64(1) << (info.BitsPerSample - 1))
	var samples []float64

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac decode error: %w", err)
		}

		blockSize := int(frame.BlockSize)
		for i := 0; i < blockSize; i++ {
			var sum float64
			for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
				if i < len(frame.Subframes[ch].Samples) {
					sum += float64(frame.Subframes[ch].Samples[i]) / scale
				}
			}
			samples = append(samples, clampUnit(sum/float64(channels)))
		}
	}

	return &Clip{
		Samples:    samples,
		SampleRate: int(info.SampleRate),
		Channels:   channels,
	}, nil
}
