// Package batch orchestrates asynchronous remote transcription jobs.
//
// A batch run drives one Descriptor per input file through four sequential
// sweeps: upload to staging storage, submit the remote job, poll until every
// job resolves or a global deadline passes, then collect transcripts and
// release remote resources. Faults are isolated per descriptor: one file's
// failure becomes a status string in its result record and never aborts the
// batch. Back-ends implement the five-operation Service contract; the
// orchestration order, timeout discipline and cleanup guarantees live here.
package batch
