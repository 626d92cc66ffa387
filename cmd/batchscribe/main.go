// Command batchscribe transcribes a directory of audio files through a
// cloud speech-to-text provider and appends the results to a CSV table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skillsenselab/batchscribe/config"
	apperrors "github.com/skillsenselab/batchscribe/errors"
	"github.com/skillsenselab/batchscribe/history"
	"github.com/skillsenselab/batchscribe/logger"
	"github.com/skillsenselab/batchscribe/sink"
	"github.com/skillsenselab/batchscribe/transcribe"
	"github.com/skillsenselab/batchscribe/version"

	_ "github.com/skillsenselab/batchscribe/transcribe/amazon"
	_ "github.com/skillsenselab/batchscribe/transcribe/azure"
	_ "github.com/skillsenselab/batchscribe/transcribe/custom"
	_ "github.com/skillsenselab/batchscribe/transcribe/google"
)

const serviceName = "batchscribe"

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorRed    = "\033[31m"
)

func info(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[info] "+colorReset+msg+"\n", a...)
}

func warn(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[warn] "+colorReset+msg+"\n", a...)
}

func ok(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[ok] "+colorReset+msg+"\n", a...)
}

func fail(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[error] "+colorReset+msg+"\n", a...)
}

func main() {
	var (
		audioDir     string
		outputCSV    string
		language     string
		providerName string
		configFile   string
		envFile      string
		historyPath  string
		verbose      bool
		showVersion  bool
	)

	flag.StringVar(&audioDir, "audio-dir", "", "Directory containing audio files (-a)")
	flag.StringVar(&audioDir, "a", "", "Directory containing audio files")
	flag.StringVar(&outputCSV, "output", "", "Output CSV file path (-o)")
	flag.StringVar(&outputCSV, "o", "", "Output CSV file path")
	flag.StringVar(&language, "language", "", "Speech recognition language, e.g. en-US or es-ES (-l)")
	flag.StringVar(&language, "l", "", "Speech recognition language")
	flag.StringVar(&providerName, "provider", "", "Speech-to-text provider: azure|google|custom|amazon (-p)")
	flag.StringVar(&providerName, "p", "", "Speech-to-text provider")
	flag.StringVar(&configFile, "config", "", "Config file path (default: search standard locations)")
	flag.StringVar(&envFile, "env-file", "", ".env file path (default: search standard locations)")
	flag.StringVar(&historyPath, "history", "", "Record the run to this SQLite database")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(serviceName + " " + version.Resolve().String())
		return
	}

	var loaderOpts []config.LoaderOption
	if configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(envFile))
	}

	settings, err := config.LoadSettingsWith(serviceName, func(s *config.Settings) {
		if audioDir != "" {
			s.AudioDir = audioDir
		}
		if outputCSV != "" {
			s.OutputCSV = outputCSV
		}
		if language != "" {
			s.Language = language
		}
		if providerName != "" {
			s.Provider = providerName
		}
		if historyPath != "" {
			s.History.Enabled = true
			s.History.Path = historyPath
		}
		if verbose {
			s.Logging.Level = "debug"
		}
	}, loaderOpts...)
	if err != nil {
		fail("%v", err)
		os.Exit(1)
	}

	log := logger.New(&settings.Logging, serviceName)

	prov, err := transcribe.New(settings, log)
	if err != nil {
		fail("%v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if !prov.IsAvailable(ctx) {
		fail("Provider not available: %v", apperrors.ServiceUnavailable(prov.Name()))
		os.Exit(1)
	}

	info("Using provider: %s", strings.ToUpper(prov.Name()))

	started := time.Now()
	records, err := transcribe.TranscribeDirectory(ctx, prov, settings, log)
	if err != nil {
		fail("%v", err)
		os.Exit(1)
	}

	if settings.History.Enabled {
		recordHistory(ctx, settings, records, started)
	}

	if len(records) == 0 {
		ok("No audio files to transcribe in %s", settings.AudioDir)
		return
	}

	succeeded := 0
	for _, rec := range records {
		switch rec["status"] {
		case "success", "no_speech_detected":
			succeeded++
		}
	}
	ok("Transcription complete: %d/%d files succeeded, results in %s",
		succeeded, len(records), settings.OutputCSV)
}

// recordHistory stores the run in the local history database. History is
// best effort; failures are reported but never change the exit status.
func recordHistory(ctx context.Context, settings *config.Settings, records []sink.Record, started time.Time) {
	store, err := history.Open(settings.History.Path)
	if err != nil {
		warn("run history unavailable: %v", err)
		return
	}
	defer store.Close() //nolint:errcheck // Best-effort close on exit.

	run := &history.Run{
		Provider:   settings.Provider,
		AudioDir:   settings.AudioDir,
		OutputCSV:  settings.OutputCSV,
		Language:   settings.Language,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err := store.RecordRun(ctx, run, records); err != nil {
		warn("could not record run history: %v", err)
		return
	}
	info("Run %s recorded in %s", run.ID, settings.History.Path)
}
