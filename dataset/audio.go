package dataset

import (
	"math"
	"time"
)

// StandardRate is the sample rate all generated audio is converted to.
const StandardRate = 16000

// Duration returns the playing time of the audio.
func (a *Audio) Duration() time.Duration {
	if a.SampleRate == 0 {
		return 0
	}
	return time.Duration(a.Frames()) * time.Second / time.Duration(a.SampleRate)
}

// Standardize returns the audio downmixed to mono at StandardRate.
// Multi-channel input is averaged; sample rate conversion is a linear
// resample.
func (a *Audio) Standardize() *Audio {
	mono := a.Samples
	if a.Channels > 1 {
		frames := a.Frames()
		mono = make([]int16, frames)
		for i := 0; i < frames; i++ {
			var sum int32
			for c := 0; c < a.Channels; c++ {
				sum += int32(a.Samples[i*a.Channels+c])
			}
			mono[i] = int16(sum / int32(a.Channels))
		}
	}
	return &Audio{
		SampleRate: StandardRate,
		Channels:   1,
		Samples:    resample(mono, a.SampleRate, StandardRate),
	}
}

// resample converts mono samples between rates by linear interpolation.
func resample(samples []int16, from, to int) []int16 {
	if from == to || len(samples) == 0 {
		return samples
	}
	n := int(math.Round(float64(len(samples)) * float64(to) / float64(from)))
	out := make([]int16, n)
	for i := range out {
		pos := float64(i) * float64(from) / float64(to)
		j := int(pos)
		if j >= len(samples) {
			j = len(samples) - 1
		}
		frac := pos - float64(j)
		s0 := float64(samples[j])
		s1 := s0
		if j+1 < len(samples) {
			s1 = float64(samples[j+1])
		}
		out[i] = clip16(s0*(1-frac) + s1*frac)
	}
	return out
}

// DBFS measures the RMS level relative to full scale. Silence measures
// negative infinity.
func (a *Audio) DBFS() float64 {
	if len(a.Samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range a.Samples {
		f := float64(s)
		sum += f * f
	}
	rms := math.Sqrt(sum / float64(len(a.Samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/32768.0)
}

// ApplyGain returns a copy with the given gain in dB applied, clipping
// at full scale.
func (a *Audio) ApplyGain(db float64) *Audio {
	factor := math.Pow(10, db/20)
	out := make([]int16, len(a.Samples))
	for i, s := range a.Samples {
		out[i] = clip16(float64(s) * factor)
	}
	return &Audio{SampleRate: a.SampleRate, Channels: a.Channels, Samples: out}
}

// Segment returns a copy of frames [start, start+frames).
func (a *Audio) Segment(start, frames int) *Audio {
	lo := start * a.Channels
	hi := (start + frames) * a.Channels
	out := make([]int16, hi-lo)
	copy(out, a.Samples[lo:hi])
	return &Audio{SampleRate: a.SampleRate, Channels: a.Channels, Samples: out}
}

// Overlay mixes other into the audio sample-wise with clipping. Where
// other is shorter, the original samples pass through.
func (a *Audio) Overlay(other *Audio) *Audio {
	out := make([]int16, len(a.Samples))
	copy(out, a.Samples)
	n := len(other.Samples)
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = clip16(float64(a.Samples[i]) + float64(other.Samples[i]))
	}
	return &Audio{SampleRate: a.SampleRate, Channels: a.Channels, Samples: out}
}

func clip16(v float64) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(math.Round(v))
	}
}
