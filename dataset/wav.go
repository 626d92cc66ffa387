package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Audio holds uncompressed PCM16 audio in memory. Samples are interleaved
// when Channels is greater than one.
type Audio struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Frames returns the number of sample frames.
func (a *Audio) Frames() int {
	if a.Channels == 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

// DecodeWAV parses a RIFF/WAVE file with 16-bit PCM content. Chunks other
// than fmt and data are skipped.
func DecodeWAV(data []byte) (*Audio, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errors.New("dataset: not a RIFF/WAVE file")
	}

	var (
		format, channels, bits int
		rate                   int
		samples                []int16
		haveFmt, haveData      bool
	)

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("dataset: truncated %s chunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, errors.New("dataset: short fmt chunk")
			}
			format = int(binary.LittleEndian.Uint16(data[body:]))
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			rate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFmt = true
		case "data":
			raw := data[body : body+size]
			samples = make([]int16, len(raw)/2)
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
			}
			haveData = true
		}

		off = body + size
		// Chunks are word aligned.
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt {
		return nil, errors.New("dataset: missing fmt chunk")
	}
	if !haveData {
		return nil, errors.New("dataset: missing data chunk")
	}
	if format != 1 || bits != 16 {
		return nil, fmt.Errorf("dataset: unsupported wav encoding (format %d, %d-bit)", format, bits)
	}
	if channels < 1 || rate < 1 {
		return nil, fmt.Errorf("dataset: invalid wav header (%d channels, %d Hz)", channels, rate)
	}

	return &Audio{SampleRate: rate, Channels: channels, Samples: samples}, nil
}

// EncodeWAV renders the audio as a canonical 44-byte-header PCM16 file.
func EncodeWAV(a *Audio) []byte {
	dataSize := len(a.Samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1)
	binary.LittleEndian.PutUint16(buf[22:24], uint16(a.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(a.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(a.SampleRate*a.Channels*2))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(a.Channels*2))
	binary.LittleEndian.PutUint16(buf[34:36], 16)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	for i, s := range a.Samples {
		binary.LittleEndian.PutUint16(buf[44+2*i:], uint16(s))
	}
	return buf
}
