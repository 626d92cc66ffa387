// Package dataset builds noisy evaluation audio by mixing clean voice
// recordings with noise at fixed signal-to-noise ratios.
package dataset

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/skillsenselab/batchscribe/errors"
	"github.com/skillsenselab/batchscribe/logger"
	"github.com/skillsenselab/batchscribe/storage"
	"github.com/skillsenselab/batchscribe/util"
)

// Generator mixes every voice file with every noise file at each SNR
// level and writes the results through a storage client.
type Generator struct {
	out storage.ByteClient
	log *logger.Logger
	rng *rand.Rand
}

// NewGenerator creates a Generator. The seed fixes noise segment
// selection, making runs reproducible.
func NewGenerator(out storage.ByteClient, log *logger.Logger, seed int64) *Generator {
	return &Generator{
		out: out,
		log: log.WithComponent("dataset"),
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Generate produces <voice>_<noise>_<snr>dB.wav for the full cross
// product of inputs and returns how many files were written. A noise
// file shorter than the voice recording skips that pair with a warning.
func (g *Generator) Generate(ctx context.Context, voiceDir, noiseDir string, snrLevels []int) (int, error) {
	voices, err := listWAVFiles(voiceDir)
	if err != nil {
		return 0, err
	}
	if len(voices) == 0 {
		return 0, apperrors.Configuration(fmt.Sprintf("no wav files found in %s", voiceDir))
	}
	noises, err := listWAVFiles(noiseDir)
	if err != nil {
		return 0, err
	}
	if len(noises) == 0 {
		return 0, apperrors.Configuration(fmt.Sprintf("no wav files found in %s", noiseDir))
	}

	total := len(voices) * len(noises) * len(snrLevels)
	g.log.Info("generating noisy dataset", map[string]interface{}{
		"voice_files": len(voices),
		"noise_files": len(noises),
		"snr_levels":  snrLevels,
		"total":       total,
	})

	generated := 0
	for _, voicePath := range voices {
		voice, err := loadStandardized(voicePath)
		if err != nil {
			return generated, err
		}

		for _, noisePath := range noises {
			noise, err := loadStandardized(noisePath)
			if err != nil {
				return generated, err
			}

			for _, snr := range snrLevels {
				name := fmt.Sprintf("%s_%s_%ddB.wav", stem(voicePath), stem(noisePath), snr)

				mixed := g.mix(voice, noise, snr)
				if mixed == nil {
					g.log.Warn("noise file too short, skipping", map[string]interface{}{
						"output": name,
						"noise":  noisePath,
					})
					continue
				}

				if err := g.out.Upload(ctx, name, EncodeWAV(mixed)); err != nil {
					return generated, fmt.Errorf("dataset: write %s: %w", name, err)
				}
				generated++
				g.log.Info("generated mix", map[string]interface{}{
					"output":   name,
					"progress": fmt.Sprintf("%d/%d", generated, total),
				})
			}
		}
	}

	g.log.Info("dataset generation complete", map[string]interface{}{
		"generated": generated,
	})
	return generated, nil
}

// mix overlays a random noise segment onto the voice at the target SNR.
// Returns nil when the noise is shorter than the voice.
func (g *Generator) mix(voice, noise *Audio, snr int) *Audio {
	frames := voice.Frames()
	if noise.Frames() < frames {
		return nil
	}

	maxStart := noise.Frames() - frames
	start := 0
	if maxStart > 0 {
		start = g.rng.Intn(maxStart + 1)
	}
	segment := noise.Segment(start, frames)

	segmentLevel := segment.DBFS()
	if math.IsInf(segmentLevel, -1) {
		// A silent segment has no level to adjust; overlaying it is a no-op.
		return voice.Overlay(segment)
	}

	gain := (voice.DBFS() - float64(snr)) - segmentLevel
	return voice.Overlay(segment.ApplyGain(gain))
}

func listWAVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Configuration(fmt.Sprintf("cannot list audio directory %s", dir)).WithCause(err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	util.SortNatural(files)
	return files, nil
}

func loadStandardized(path string) (*Audio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	audio, err := DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("dataset: decode %s: %w", path, err)
	}
	return audio.Standardize(), nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
