// Command noisemix mixes clean voice recordings with noise at several
// signal-to-noise ratios to build evaluation datasets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skillsenselab/batchscribe/dataset"
	"github.com/skillsenselab/batchscribe/logger"
	"github.com/skillsenselab/batchscribe/storage"
	_ "github.com/skillsenselab/batchscribe/storage/local"
	"github.com/skillsenselab/batchscribe/version"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorRed   = "\033[31m"
)

func info(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[info] "+colorReset+msg+"\n", a...)
}

func ok(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[ok] "+colorReset+msg+"\n", a...)
}

func fail(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[error] "+colorReset+msg+"\n", a...)
}

// intSlice collects repeatable or comma-separated integer flag values.
type intSlice []int

func (s *intSlice) String() string {
	parts := make([]string, len(*s))
	for i, v := range *s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (s *intSlice) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid SNR value %q", p)
		}
		*s = append(*s, n)
	}
	return nil
}

func main() {
	var (
		voiceDir    string
		noiseDir    string
		outputDir   string
		snrLevels   intSlice
		seed        int64
		showVersion bool
	)

	flag.StringVar(&voiceDir, "voice-dir", "./audio", "Directory containing clean voice recordings")
	flag.StringVar(&noiseDir, "noise-dir", "./noise", "Directory containing noise files")
	flag.StringVar(&outputDir, "output-dir", "./audio_noise", "Output directory for noisy audio files")
	flag.Var(&snrLevels, "snr", "SNR level in dB (repeatable or comma-separated, default 10,5,0)")
	flag.Int64Var(&seed, "seed", 0, "Random seed for noise segment selection (0 = time-based)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("noisemix " + version.Resolve().String())
		return
	}

	if len(snrLevels) == 0 {
		snrLevels = intSlice{10, 5, 0}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log := logger.NewDefault("noisemix")
	st, err := storage.New(storage.Config{Provider: storage.ProviderLocal, BasePath: outputDir}, nil, log)
	if err != nil {
		fail("%v", err)
		os.Exit(1)
	}

	info("Generating mixes at SNR levels: %s dB", snrLevels.String())

	gen := dataset.NewGenerator(storage.NewByteClient(st), log, seed)
	n, err := gen.Generate(context.Background(), voiceDir, noiseDir, snrLevels)
	if err != nil {
		fail("%v", err)
		os.Exit(1)
	}

	ok("Dataset generation complete: %d files in %s", n, outputDir)
}
