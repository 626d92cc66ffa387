package batch

import (
	"context"
	"time"
)

// JobState is the remote service's view of a transcription job.
type JobState int

const (
	// JobPending means the remote job has not resolved yet.
	JobPending JobState = iota
	// JobCompleted means the remote job produced a transcript.
	JobCompleted
	// JobFailed means the remote service reported the job as failed.
	JobFailed
)

// String returns the state name.
func (s JobState) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobCompleted:
		return "completed"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// JobStatus is one poll response for a remote transcription job.
type JobStatus struct {
	// JobID echoes the identity of the job this response describes. The
	// runner rejects responses whose identity does not match the request.
	JobID string

	// State is the remote job state.
	State JobState

	// FailureReason carries the remote explanation when State is JobFailed.
	FailureReason string

	// TranscriptURI locates the transcript document of a completed job.
	// Its format is provider-specific; only the provider's Fetch reads it.
	TranscriptURI string

	// Timing is the job duration reported by the service, zero when the
	// service did not report one.
	Timing time.Duration
}

// Service is the five-operation contract a batch-shape transcription
// back-end implements. The runner owns ordering, timeout discipline and
// cleanup guarantees; implementations only talk to their remote APIs.
type Service interface {
	// Upload stages the audio file remotely and returns its remote location.
	Upload(ctx context.Context, path, jobID string) (string, error)

	// Submit starts the remote transcription job for an uploaded file.
	Submit(ctx context.Context, jobID, remoteLocation, displayName string) error

	// Check polls the remote job once and returns its current status.
	Check(ctx context.Context, jobID string) (*JobStatus, error)

	// Fetch retrieves the transcript of a completed job.
	Fetch(ctx context.Context, status *JobStatus) (string, error)

	// Cleanup removes the remote job metadata and the staged object.
	// Missing resources are not an error.
	Cleanup(ctx context.Context, jobID, remoteLocation string) error
}

// CleanupTarget names one descriptor's remote resources.
type CleanupTarget struct {
	JobID          string
	RemoteLocation string
}

// BulkCleaner is optionally implemented by services that can release many
// jobs' remote resources with fewer round-trips, for example one bulk
// storage deletion. The runner uses it when present, falling back to
// per-job Cleanup otherwise.
type BulkCleaner interface {
	CleanupBatch(ctx context.Context, targets []CleanupTarget) error
}
