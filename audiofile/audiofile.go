package audiofile

// Audio File Decoding
//
// Converts sample files on disk into the mono, [-1,1] float64 waveform the
// classifier consumes. WAV files are parsed by this package's own RIFF codec;
// MP3 and FLAC go through their respective decoder libraries. Multi-channel
// input is downmixed to mono by averaging channels, matching what the
// classification heuristics were tuned on.

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Clip is a decoded audio file: mono samples normalized to [-1,1] plus the
// source sample rate and channel count before downmix.
type Clip struct {
	Samples    []float64
	SampleRate int
	Channels   int
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// SupportedExtension reports whether the path names a decodable audio file.
func SupportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3", ".flac":
		return true
	}
	return false
}

// ReadFile decodes an audio file into a mono clip, dispatching on extension.
func ReadFile(path string) (*Clip, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return readWAVFile(path)
	case ".mp3":
		return readMP3File(path)
	case ".flac":
		return readFLACFile(path)
	}
	return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
}

// PCMToSamples converts interleaved little-endian PCM bytes into mono float64
// samples in [-1,1], averaging channels.
func PCMToSamples(data []byte, bitsPerSample, channels int) ([]float64, error) {
	if channels <= 0 {
		return nil, errors.New("invalid channel count")
	}

	bytesPerSample := bitsPerSample / 8
	switch bitsPerSample {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d", bitsPerSample)
	}

	frameBytes := bytesPerSample * channels
	if frameBytes == 0 || len(data) < frameBytes {
		return nil, errors.New("pcm payload too short")
	}

	frameCount := len(data) / frameBytes
	samples := make([]float64, frameCount)
	scale := float64(int64(1) << (bitsPerSample - 1))

	for frame := 0; frame < frameCount; frame++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			offset := frame*frameBytes + ch*bytesPerSample
			sum += decodePCMValue(data[offset:offset+bytesPerSample], bitsPerSample) / scale
		}
		samples[frame] = clampUnit(sum / float64(channels))
	}
	return samples, nil
}

func decodePCMValue(b []byte, bitsPerSample int) float64 {
	switch bitsPerSample {
	case 8:
		// 8-bit WAV PCM is unsigned
		return float64(int(b[0]) - 128)
	case 16:
		return float64(int16(uint16(b[0]) | uint16(b[1])<<8))
	case 24:
		value := int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16)
		if value&0x800000 != 0 {
			value |= ^int32(0xFFFFFF)
		}
		return float64(value)
	case 32:
		return float64(int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24))
	}
	return 0
}

func downmixChannels(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frameCount := len(interleaved) / channels
	mono := make([]float64, frameCount)
	for frame := 0; frame < frameCount; frame++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[frame*channels+ch]
		}
		mono[frame] = clampUnit(sum / float64(channels))
	}
	return mono
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
