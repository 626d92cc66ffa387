package dataset

import (
	"encoding/binary"
	"strings"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	in := &Audio{
		SampleRate: 16000,
		Channels:   1,
		Samples:    []int16{0, 1000, -1000, 32767, -32768, 42},
	}

	out, err := DecodeWAV(EncodeWAV(in))
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if out.SampleRate != in.SampleRate {
		t.Errorf("SampleRate = %d, want %d", out.SampleRate, in.SampleRate)
	}
	if out.Channels != in.Channels {
		t.Errorf("Channels = %d, want %d", out.Channels, in.Channels)
	}
	if len(out.Samples) != len(in.Samples) {
		t.Fatalf("len(Samples) = %d, want %d", len(out.Samples), len(in.Samples))
	}
	for i := range in.Samples {
		if out.Samples[i] != in.Samples[i] {
			t.Errorf("Samples[%d] = %d, want %d", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestWAVRoundTripStereo(t *testing.T) {
	in := &Audio{
		SampleRate: 44100,
		Channels:   2,
		Samples:    []int16{100, -100, 200, -200},
	}

	out, err := DecodeWAV(EncodeWAV(in))
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if out.Channels != 2 || out.SampleRate != 44100 {
		t.Errorf("got %d channels at %d Hz, want 2 channels at 44100 Hz", out.Channels, out.SampleRate)
	}
	if out.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", out.Frames())
	}
}

func TestDecodeWAVSkipsUnknownChunks(t *testing.T) {
	// Hand-build a file with an odd-sized LIST chunk before data to
	// exercise the word-alignment padding.
	var buf []byte
	buf = append(buf, "RIFF"...)
	buf = append(buf, 0, 0, 0, 0)
	buf = append(buf, "WAVE"...)

	buf = append(buf, "LIST"...)
	buf = appendUint32(buf, 3)
	buf = append(buf, 'a', 'b', 'c', 0) // 3 bytes plus pad

	buf = append(buf, "fmt "...)
	buf = appendUint32(buf, 16)
	buf = appendUint16(buf, 1)     // PCM
	buf = appendUint16(buf, 1)     // mono
	buf = appendUint32(buf, 16000) // rate
	buf = appendUint32(buf, 32000) // byte rate
	buf = appendUint16(buf, 2)     // block align
	buf = appendUint16(buf, 16)    // bits

	buf = append(buf, "data"...)
	buf = appendUint32(buf, 4)
	buf = appendUint16(buf, 500)
	buf = appendUint16(buf, 65036) // -500 as uint16

	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(buf)-8))

	out, err := DecodeWAV(buf)
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if len(out.Samples) != 2 || out.Samples[0] != 500 || out.Samples[1] != -500 {
		t.Errorf("Samples = %v, want [500 -500]", out.Samples)
	}
}

func TestDecodeWAVErrors(t *testing.T) {
	valid := EncodeWAV(&Audio{SampleRate: 16000, Channels: 1, Samples: []int16{1, 2, 3, 4}})

	corrupt := func(mutate func([]byte)) []byte {
		b := append([]byte(nil), valid...)
		mutate(b)
		return b
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr string
	}{
		{
			name:    "not riff",
			data:    corrupt(func(b []byte) { b[0] = 'X' }),
			wantErr: "not a RIFF/WAVE file",
		},
		{
			name:    "too short",
			data:    valid[:8],
			wantErr: "not a RIFF/WAVE file",
		},
		{
			name:    "truncated data chunk",
			data:    valid[:len(valid)-2],
			wantErr: "truncated data chunk",
		},
		{
			name:    "float format",
			data:    corrupt(func(b []byte) { binary.LittleEndian.PutUint16(b[20:22], 3) }),
			wantErr: "unsupported wav encoding",
		},
		{
			name:    "8-bit samples",
			data:    corrupt(func(b []byte) { binary.LittleEndian.PutUint16(b[34:36], 8) }),
			wantErr: "unsupported wav encoding",
		},
		{
			name:    "zero channels",
			data:    corrupt(func(b []byte) { binary.LittleEndian.PutUint16(b[22:24], 0) }),
			wantErr: "invalid wav header",
		},
		{
			name:    "missing data chunk",
			data:    valid[:36],
			wantErr: "missing data chunk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWAV(tt.data)
			if err == nil {
				t.Fatal("DecodeWAV() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func appendUint16(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}
