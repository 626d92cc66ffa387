package batch

import (
	"fmt"
	"time"
)

// Stage tracks a descriptor's progress through the transcription pipeline.
type Stage int

const (
	// StagePending is the initial stage before any remote interaction.
	StagePending Stage = iota
	// StageUploaded means the audio file reached remote staging storage.
	StageUploaded
	// StageSubmitted means the remote transcription job was started.
	StageSubmitted
	// StageCompleted means the remote job finished with a transcript.
	StageCompleted
	// StageFailed means the remote service reported the job as failed.
	StageFailed
	// StageCheckFailed means a status poll faulted before the job resolved.
	StageCheckFailed
	// StageUploadFailed means the staging upload faulted.
	StageUploadFailed
	// StageSubmitFailed means starting the remote job faulted.
	StageSubmitFailed
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageUploaded:
		return "uploaded"
	case StageSubmitted:
		return "submitted"
	case StageCompleted:
		return "completed"
	case StageFailed:
		return "failed"
	case StageCheckFailed:
		return "check_failed"
	case StageUploadFailed:
		return "upload_failed"
	case StageSubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the stage ends a descriptor's lifecycle.
func (s Stage) Terminal() bool {
	switch s {
	case StageCompleted, StageFailed, StageCheckFailed, StageUploadFailed, StageSubmitFailed:
		return true
	}
	return false
}

// transitions lists the stages reachable from each non-terminal stage.
var transitions = map[Stage][]Stage{
	StagePending:   {StageUploaded, StageUploadFailed},
	StageUploaded:  {StageSubmitted, StageSubmitFailed},
	StageSubmitted: {StageCompleted, StageFailed, StageCheckFailed},
}

// CanAdvance reports whether moving from s to next is a legal forward
// transition. Terminal stages cannot be left and no stage is revisited.
func (s Stage) CanAdvance(next Stage) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Descriptor tracks one audio file's progress through an asynchronous
// transcription job. Descriptors exist only for the duration of a batch
// run; they are never persisted.
type Descriptor struct {
	// SourcePath is the path of the input audio file.
	SourcePath string

	// DisplayName is the file's base name, used for reporting and for
	// naming the remote job.
	DisplayName string

	// RemoteLocation is the staging handle assigned by a successful
	// upload. Empty until then, and empty forever if the upload failed.
	RemoteLocation string

	// JobID uniquely identifies the remote transcription job.
	JobID string

	// Stage is the descriptor's current pipeline stage.
	Stage Stage

	// ErrorDetail carries the diagnostic for whichever fault ended the
	// descriptor's run.
	ErrorDetail string

	// ResultText is the transcript, set only after a successful fetch.
	ResultText string

	// Timing is the job duration reported by the remote service, zero
	// when the service did not report one.
	Timing time.Duration

	// remote is the terminal poll response, kept for the transcript fetch.
	remote *JobStatus
}

// Advance moves the descriptor to the next stage, enforcing the
// forward-only transition order.
func (d *Descriptor) Advance(next Stage) error {
	if !d.Stage.CanAdvance(next) {
		return fmt.Errorf("batch: invalid stage transition %s -> %s", d.Stage, next)
	}
	d.Stage = next
	return nil
}
