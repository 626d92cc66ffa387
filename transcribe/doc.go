// Package transcribe defines the provider interface and directory batch
// contract for speech-to-text back-ends.
//
// It follows the provider pattern with a pluggable registry for
// runtime-selectable back-ends.
//
// # Backends
//
//   - transcribe/azure: Azure Speech short-audio REST recognition
//   - transcribe/google: Google Cloud Speech-to-Text
//   - transcribe/amazon: Amazon Transcribe asynchronous batch jobs
//   - transcribe/custom: self-hosted transcription HTTP service
//
// # Usage
//
//	import _ "github.com/skillsenselab/batchscribe/transcribe/azure"
//
//	p, err := transcribe.New(cfg, log)
//	if err != nil {
//		return err
//	}
//	records, err := transcribe.TranscribeDirectory(ctx, p, cfg, log)
package transcribe
