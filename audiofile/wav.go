package audiofile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

const (
	waveFormatPCM        = 1
	waveFormatIEEEFloat  = 3
	waveFormatExtensible = 0xFFFE
)

type wavFormat struct {
	audioFormat   uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
}

func readWAVFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav file: %w", err)
	}
	return DecodeWAV(data)
}

// DecodeWAV parses a RIFF/WAVE payload into a mono clip. PCM (8/16/24/32 bit)
// and 32-bit IEEE float data are supported.
func DecodeWAV(data []byte) (*Clip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}

	var format *wavFormat
	var payload []byte

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, errors.New("wav fmt chunk too short")
			}
			format = &wavFormat{
				audioFormat:   binary.LittleEndian.Uint16(data[body : body+2]),
				channels:      binary.LittleEndian.Uint16(data[body+2 : body+4]),
				sampleRate:    binary.LittleEndian.Uint32(data[body+4 : body+8]),
				bitsPerSample: binary.LittleEndian.Uint16(data[body+14 : body+16]),
			}
		case "data":
			payload = data[body : body+chunkSize]
		}

		// chunks are word-aligned
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if format == nil {
		return nil, errors.New("wav file missing fmt chunk")
	}
	if payload == nil {
		return nil, errors.New("wav file missing data chunk")
	}
	if format.channels == 0 || format.sampleRate == 0 {
		return nil, errors.New("wav file has invalid format parameters")
	}

	var samples []float64
	var err error
	switch {
	case format.audioFormat == waveFormatIEEEFloat && format.bitsPerSample == 32:
		samples, err = float32ToSamples(payload, int(format.channels))
	case format.audioFormat == waveFormatPCM || format.audioFormat == waveFormatExtensible:
		samples, err = PCMToSamples(payload, int(format.bitsPerSample), int(format.channels))
	default:
		return nil, fmt.Errorf("unsupported wav encoding: format %d, %d bits",
			format.audioFormat, format.bitsPerSample)
	}
	if err != nil {
		return nil, err
	}

	return &Clip{
		Samples:    samples,
		SampleRate: int(format.sampleRate),
		Channels:   int(format.channels),
	}, nil
}

func float32ToSamples(data []byte, channels int) ([]float64, error) {
	if channels <= 0 {
		return nil, errors.New("invalid channel count")
	}
	valueCount := len(data) / 4
	interleaved := make([]float64, valueCount)
	for i := 0; i < valueCount; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		interleaved[i] = float64(math.Float32frombits(bits))
	}
	return downmixChannels(interleaved, channels), nil
}

// EncodeWAV serializes mono float64 samples as a 16-bit PCM WAV payload.
// Used for shipping clips to the embedding service and in tests.
func EncodeWAV(samples []float64, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(waveFormatPCM))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))           // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, sample := range samples {
		value := int16(clampUnit(sample) * 32767)
		binary.Write(buf, binary.LittleEndian, value)
	}

	return buf.Bytes()
}

// WriteWAV writes mono samples to disk as 16-bit PCM.
func WriteWAV(path string, samples []float64, sampleRate int) error {
	if err := os.WriteFile(path, EncodeWAV(samples, sampleRate), 0644); err != nil {
		return fmt.Errorf("failed to write wav file: %w", err)
	}
	return nil
}
