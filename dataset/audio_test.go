package dataset

import (
	"math"
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name  string
		audio *Audio
		want  time.Duration
	}{
		{
			name:  "one second mono",
			audio: &Audio{SampleRate: 16000, Channels: 1, Samples: make([]int16, 16000)},
			want:  time.Second,
		},
		{
			name:  "half second stereo",
			audio: &Audio{SampleRate: 16000, Channels: 2, Samples: make([]int16, 16000)},
			want:  500 * time.Millisecond,
		},
		{
			name:  "zero rate",
			audio: &Audio{Channels: 1, Samples: make([]int16, 100)},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.audio.Duration(); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStandardizeDownmixesAndResamples(t *testing.T) {
	// Constant stereo signal at 8 kHz: left 1000, right 3000.
	in := &Audio{SampleRate: 8000, Channels: 2}
	for i := 0; i < 80; i++ {
		in.Samples = append(in.Samples, 1000, 3000)
	}

	out := in.Standardize()

	if out.SampleRate != StandardRate {
		t.Errorf("SampleRate = %d, want %d", out.SampleRate, StandardRate)
	}
	if out.Channels != 1 {
		t.Errorf("Channels = %d, want 1", out.Channels)
	}
	if out.Frames() != 160 {
		t.Errorf("Frames() = %d, want 160", out.Frames())
	}
	// Averaging a constant signal then interpolating it keeps it constant.
	for i, s := range out.Samples {
		if s != 2000 {
			t.Fatalf("Samples[%d] = %d, want 2000", i, s)
		}
	}
}

func TestStandardizeKeepsConformingAudio(t *testing.T) {
	in := &Audio{SampleRate: StandardRate, Channels: 1, Samples: []int16{5, -5, 10, -10}}

	out := in.Standardize()

	if out.Frames() != in.Frames() {
		t.Fatalf("Frames() = %d, want %d", out.Frames(), in.Frames())
	}
	for i := range in.Samples {
		if out.Samples[i] != in.Samples[i] {
			t.Errorf("Samples[%d] = %d, want %d", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestDBFS(t *testing.T) {
	constant := func(amp int16, n int) *Audio {
		a := &Audio{SampleRate: StandardRate, Channels: 1, Samples: make([]int16, n)}
		for i := range a.Samples {
			a.Samples[i] = amp
		}
		return a
	}

	t.Run("full scale", func(t *testing.T) {
		got := constant(32767, 100).DBFS()
		if got > 0 || got < -0.01 {
			t.Errorf("DBFS() = %f, want just below 0", got)
		}
	})

	t.Run("half scale", func(t *testing.T) {
		got := constant(16384, 100).DBFS()
		if math.Abs(got-(-6.0206)) > 0.01 {
			t.Errorf("DBFS() = %f, want about -6.02", got)
		}
	})

	t.Run("silence", func(t *testing.T) {
		if got := constant(0, 100).DBFS(); !math.IsInf(got, -1) {
			t.Errorf("DBFS() = %f, want -Inf", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := (&Audio{SampleRate: StandardRate, Channels: 1}).DBFS(); !math.IsInf(got, -1) {
			t.Errorf("DBFS() = %f, want -Inf", got)
		}
	})
}

func TestApplyGain(t *testing.T) {
	in := &Audio{SampleRate: StandardRate, Channels: 1, Samples: []int16{30000, -30000, 1000}}

	t.Run("positive gain clips", func(t *testing.T) {
		out := in.ApplyGain(6)
		if out.Samples[0] != 32767 {
			t.Errorf("Samples[0] = %d, want 32767", out.Samples[0])
		}
		if out.Samples[1] != -32768 {
			t.Errorf("Samples[1] = %d, want -32768", out.Samples[1])
		}
		if out.Samples[2] <= 1000 {
			t.Errorf("Samples[2] = %d, want amplified above 1000", out.Samples[2])
		}
	})

	t.Run("zero gain is identity", func(t *testing.T) {
		out := in.ApplyGain(0)
		for i := range in.Samples {
			if out.Samples[i] != in.Samples[i] {
				t.Errorf("Samples[%d] = %d, want %d", i, out.Samples[i], in.Samples[i])
			}
		}
	})

	t.Run("attenuation lowers level", func(t *testing.T) {
		out := in.ApplyGain(-20)
		if got := out.Samples[0]; got < 2900 || got > 3100 {
			t.Errorf("Samples[0] = %d, want about 3000", got)
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		in.ApplyGain(6)
		if in.Samples[0] != 30000 {
			t.Errorf("input mutated: Samples[0] = %d", in.Samples[0])
		}
	})
}

func TestSegment(t *testing.T) {
	in := &Audio{SampleRate: StandardRate, Channels: 1, Samples: []int16{0, 1, 2, 3, 4, 5, 6, 7}}

	seg := in.Segment(2, 3)

	want := []int16{2, 3, 4}
	if len(seg.Samples) != len(want) {
		t.Fatalf("len(Samples) = %d, want %d", len(seg.Samples), len(want))
	}
	for i := range want {
		if seg.Samples[i] != want[i] {
			t.Errorf("Samples[%d] = %d, want %d", i, seg.Samples[i], want[i])
		}
	}

	seg.Samples[0] = 99
	if in.Samples[2] != 2 {
		t.Error("Segment() shares backing array with source")
	}
}

func TestSegmentStereo(t *testing.T) {
	in := &Audio{SampleRate: StandardRate, Channels: 2, Samples: []int16{0, 1, 10, 11, 20, 21, 30, 31}}

	seg := in.Segment(1, 2)

	want := []int16{10, 11, 20, 21}
	if len(seg.Samples) != len(want) {
		t.Fatalf("len(Samples) = %d, want %d", len(seg.Samples), len(want))
	}
	for i := range want {
		if seg.Samples[i] != want[i] {
			t.Errorf("Samples[%d] = %d, want %d", i, seg.Samples[i], want[i])
		}
	}
}

func TestOverlay(t *testing.T) {
	base := &Audio{SampleRate: StandardRate, Channels: 1, Samples: []int16{20000, 20000, -20000, 100}}
	other := &Audio{SampleRate: StandardRate, Channels: 1, Samples: []int16{20000, -5000, -20000}}

	out := base.Overlay(other)

	want := []int16{32767, 15000, -32768, 100}
	for i := range want {
		if out.Samples[i] != want[i] {
			t.Errorf("Samples[%d] = %d, want %d", i, out.Samples[i], want[i])
		}
	}
	if base.Samples[0] != 20000 {
		t.Errorf("input mutated: Samples[0] = %d", base.Samples[0])
	}
}
