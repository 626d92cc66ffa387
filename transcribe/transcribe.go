package transcribe

import (
	"context"
	"time"

	"github.com/skillsenselab/batchscribe/provider"
)

// Result is the outcome of transcribing a single audio file.
type Result struct {
	// Text is the transcript, empty when nothing was recognized or the
	// file failed.
	Text string

	// Status describes the outcome: "success", "no_speech_detected", or
	// a descriptive failure string.
	Status string

	// Elapsed is the transcription duration, zero when the back-end did
	// not measure one.
	Elapsed time.Duration
}

// Provider is the interface that transcription back-ends must implement.
//
// TranscribeFile captures every failure mode (no speech, remote
// cancellation, network faults, unexpected errors) in the Result's Status
// rather than returning an error, so one failing file never aborts a
// directory batch. Back-ends with an asynchronous submit-then-poll job
// model additionally implement batch.Service; TranscribeDirectory detects
// that capability and routes them through the batch orchestrator.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// TranscribeFile transcribes one audio file.
	TranscribeFile(ctx context.Context, path string) *Result
}
