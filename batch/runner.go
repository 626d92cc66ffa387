package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/skillsenselab/batchscribe/logger"
	"github.com/skillsenselab/batchscribe/resilience"
	"github.com/skillsenselab/batchscribe/sink"
)

// Default polling cadence for remote transcription jobs.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 5 * time.Minute
)

// Config bounds the runner's polling and pacing.
type Config struct {
	// PollInterval is the sleep between polling rounds.
	PollInterval time.Duration

	// PollTimeout caps the whole poll sweep. Jobs unresolved at the
	// deadline are reported as unresolved, not waited for.
	PollTimeout time.Duration

	// SubmitDelay is the minimum spacing between staging uploads.
	SubmitDelay time.Duration
}

// ApplyDefaults fills zero-valued fields with the default poll cadence.
func (c *Config) ApplyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.SubmitDelay < 0 {
		c.SubmitDelay = 0
	}
}

// Runner drives a set of descriptors through the four orchestration
// sweeps: upload, submit, poll, collect-and-cleanup. All parallelism is
// remote-side; each sweep visits descriptors sequentially in input order.
type Runner struct {
	svc   Service
	cfg   Config
	log   *logger.Logger
	pacer *resilience.Pacer
	namer *JobNamer
}

// NewRunner creates a Runner for the given back-end service.
func NewRunner(svc Service, cfg Config, log *logger.Logger) *Runner {
	cfg.ApplyDefaults()
	return &Runner{
		svc:   svc,
		cfg:   cfg,
		log:   log.WithComponent("batch"),
		pacer: resilience.NewPacer(cfg.SubmitDelay),
		namer: NewJobNamer(),
	}
}

// Run drives every path through the four sweeps and returns exactly one
// record per input path, in input order. Per-file faults are captured in
// the record's status string; Run itself never fails.
func (r *Runner) Run(ctx context.Context, paths []string) []sink.Record {
	descs := make([]*Descriptor, len(paths))
	for i, p := range paths {
		name := filepath.Base(p)
		descs[i] = &Descriptor{
			SourcePath:  p,
			DisplayName: name,
			JobID:       r.namer.Next(name),
		}
	}

	r.uploadSweep(ctx, descs)
	r.submitSweep(ctx, descs)
	r.pollSweep(ctx, descs)
	return r.collectSweep(ctx, descs)
}

// RunOne drives a single file through the same sweeps as a full batch,
// giving batch-shape back-ends the synchronous single-file contract.
func RunOne(ctx context.Context, svc Service, cfg Config, log *logger.Logger, path string) sink.Record {
	return NewRunner(svc, cfg, log).Run(ctx, []string{path})[0]
}

func (r *Runner) uploadSweep(ctx context.Context, descs []*Descriptor) {
	for _, d := range descs {
		if err := r.pacer.Wait(ctx); err != nil {
			r.fail(d, StageUploadFailed, err)
			continue
		}
		loc, err := r.svc.Upload(ctx, d.SourcePath, d.JobID)
		if err != nil {
			r.fail(d, StageUploadFailed, err)
			continue
		}
		d.RemoteLocation = loc
		r.advance(d, StageUploaded)
		r.log.Info("file staged", map[string]interface{}{"file": d.DisplayName, "location": loc})
	}
}

func (r *Runner) submitSweep(ctx context.Context, descs []*Descriptor) {
	for _, d := range descs {
		if d.Stage != StageUploaded {
			continue
		}
		if err := r.svc.Submit(ctx, d.JobID, d.RemoteLocation, d.DisplayName); err != nil {
			r.fail(d, StageSubmitFailed, err)
			continue
		}
		r.advance(d, StageSubmitted)
		r.log.Info("job submitted", map[string]interface{}{"file": d.DisplayName, "job_id": d.JobID})
	}
}

func (r *Runner) pollSweep(ctx context.Context, descs []*Descriptor) {
	pending := make([]*Descriptor, 0, len(descs))
	for _, d := range descs {
		if d.Stage == StageSubmitted {
			pending = append(pending, d)
		}
	}
	if len(pending) == 0 {
		return
	}

	r.log.Info("waiting for transcription jobs", map[string]interface{}{
		"jobs":    len(pending),
		"timeout": r.cfg.PollTimeout.String(),
	})
	deadline := time.Now().Add(r.cfg.PollTimeout)

loop:
	for len(pending) > 0 && time.Now().Before(deadline) {
		still := pending[:0]
		for _, d := range pending {
			st, err := r.svc.Check(ctx, d.JobID)
			if err != nil {
				r.fail(d, StageCheckFailed, err)
				continue
			}
			if st.JobID != d.JobID {
				r.fail(d, StageCheckFailed, fmt.Errorf("job identity mismatch: requested %s, got %s", d.JobID, st.JobID))
				continue
			}
			switch st.State {
			case JobCompleted:
				d.remote = st
				d.Timing = st.Timing
				r.advance(d, StageCompleted)
				r.log.Info("job completed", map[string]interface{}{"job_id": d.JobID})
			case JobFailed:
				reason := st.FailureReason
				if reason == "" {
					reason = "Unknown"
				}
				d.ErrorDetail = reason
				r.advance(d, StageFailed)
				r.log.Warn("job failed", map[string]interface{}{"job_id": d.JobID, "reason": reason})
			default:
				still = append(still, d)
			}
		}
		pending = still
		if len(pending) == 0 || !time.Now().Before(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			break loop
		case <-time.After(r.cfg.PollInterval):
		}
	}

	// Unresolved jobs keep running remotely; there is no way to cancel
	// them. They stay Submitted and are reported, not dropped.
	for _, d := range pending {
		r.log.Warn("job unresolved at deadline", map[string]interface{}{"job_id": d.JobID})
	}
}

func (r *Runner) collectSweep(ctx context.Context, descs []*Descriptor) []sink.Record {
	records := make([]sink.Record, 0, len(descs))
	var targets []CleanupTarget

	for _, d := range descs {
		if d.Stage == StageCompleted {
			text, err := r.svc.Fetch(ctx, d.remote)
			if err != nil {
				d.ErrorDetail = err.Error()
				r.log.Warn("transcript fetch failed", map[string]interface{}{"job_id": d.JobID, "error": err.Error()})
			} else {
				d.ResultText = text
			}
		}
		if d.RemoteLocation != "" {
			targets = append(targets, CleanupTarget{JobID: d.JobID, RemoteLocation: d.RemoteLocation})
		}
		records = append(records, r.record(d))
	}

	r.cleanup(ctx, targets)
	return records
}

// cleanup releases remote resources for every descriptor that got past
// upload. Failures are warnings; they never affect the batch outcome.
func (r *Runner) cleanup(ctx context.Context, targets []CleanupTarget) {
	if len(targets) == 0 {
		return
	}
	if bc, ok := r.svc.(BulkCleaner); ok {
		if err := bc.CleanupBatch(ctx, targets); err != nil {
			r.log.Warn("bulk cleanup failed", map[string]interface{}{"jobs": len(targets), "error": err.Error()})
		}
		return
	}
	for _, t := range targets {
		if err := r.svc.Cleanup(ctx, t.JobID, t.RemoteLocation); err != nil {
			r.log.Warn("cleanup failed", map[string]interface{}{"job_id": t.JobID, "error": err.Error()})
		}
	}
}

func (r *Runner) record(d *Descriptor) sink.Record {
	rec := sink.Record{
		"filename": d.DisplayName,
		"text":     d.ResultText,
		"status":   r.status(d),
	}
	if d.Timing > 0 {
		rec["transcription_time"] = fmt.Sprintf("%.2f", d.Timing.Seconds())
	}
	return rec
}

func (r *Runner) status(d *Descriptor) string {
	switch d.Stage {
	case StageCompleted:
		if d.ErrorDetail != "" {
			return "error: fetch: " + d.ErrorDetail
		}
		if d.ResultText == "" {
			return "no_speech_detected"
		}
		return "success"
	case StageFailed:
		return "failed: " + d.ErrorDetail
	case StageSubmitted:
		return "timeout: transcription job unresolved after " + r.cfg.PollTimeout.String()
	case StageUploadFailed:
		return "error: upload: " + d.ErrorDetail
	case StageSubmitFailed:
		return "error: submit: " + d.ErrorDetail
	case StageCheckFailed:
		return "error: check: " + d.ErrorDetail
	default:
		return "error: " + d.ErrorDetail
	}
}

func (r *Runner) advance(d *Descriptor, next Stage) {
	if err := d.Advance(next); err != nil {
		r.log.Error("stage transition rejected", map[string]interface{}{"file": d.DisplayName, "error": err.Error()})
	}
}

func (r *Runner) fail(d *Descriptor, stage Stage, err error) {
	d.ErrorDetail = err.Error()
	r.advance(d, stage)
	r.log.Warn("stage failed", map[string]interface{}{
		"file":  d.DisplayName,
		"stage": stage.String(),
		"error": err.Error(),
	})
}
