package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// WAVInfo describes the PCM stream inside a RIFF/WAVE container
type WAVInfo struct {
	AudioFormat   uint16 // 1 = integer PCM
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataOffset    int // Byte offset of the data chunk payload
	DataLength    int // Payload length in bytes, clamped to what is present
}

// ErrNotWAV is returned when data does not start with a RIFF/WAVE header
var ErrNotWAV = errors.New("not a RIFF/WAVE stream")

// Duration returns the playback length of the data chunk
func (w *WAVInfo) Duration() time.Duration {
	bytesPerSecond := int64(w.SampleRate) * int64(w.Channels) * int64(w.BitsPerSample) / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(int64(w.DataLength) * int64(time.Second) / bytesPerSecond)
}

// ParseWAVHeader walks the RIFF chunks of data and returns the fmt and data
// chunk details. Streamed responses often carry a placeholder data length
// (0xFFFFFFFF), so the data chunk is clamped to the bytes actually present.
func ParseWAVHeader(data []byte) (*WAVInfo, error) {
	if DetectFormat(data) != FormatWAV {
		return nil, ErrNotWAV
	}

	var (
		info    WAVInfo
		haveFmt bool
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		remaining := len(data) - body
		if size < 0 || size > remaining {
			size = remaining
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			info.AudioFormat = binary.LittleEndian.Uint16(data[body:])
			info.Channels = binary.LittleEndian.Uint16(data[body+2:])
			info.SampleRate = binary.LittleEndian.Uint32(data[body+4:])
			info.BitsPerSample = binary.LittleEndian.Uint16(data[body+14:])
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, errors.New("data chunk before fmt chunk")
			}
			info.DataOffset = body
			info.DataLength = size
			return &info, nil
		}

		// Chunks are word aligned
		pos = body + size + size%2
	}

	if !haveFmt {
		return nil, errors.New("missing fmt chunk")
	}
	return nil, errors.New("missing data chunk")
}

// Samples decodes the data chunk as 16-bit little-endian PCM. Other sample
// formats return an error.
func (w *WAVInfo) Samples(data []byte) ([]int16, error) {
	if w.AudioFormat != 1 || w.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported PCM layout: format %d, %d bits", w.AudioFormat, w.BitsPerSample)
	}

	payload := data[w.DataOffset : w.DataOffset+w.DataLength]
	samples := make([]int16, len(payload)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(payload[i*2:]))
	}
	return samples, nil
}
