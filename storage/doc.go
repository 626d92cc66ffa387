// Package storage provides object storage abstractions with pluggable backends.
//
// It defines interfaces for common storage operations (upload, download,
// delete, list) plus optional capabilities (BatchDeleter, Prober) that
// backends implement when the underlying service supports them.
//
// # Backends
//
//   - storage/s3: Amazon S3 and S3-compatible storage
//   - storage/local: Local filesystem storage for development/testing
//
// # Configuration
//
// Backend selection and settings are provided via Config:
//
//	storage:
//	  provider: "s3"
//	  bucket: "my-bucket"
//	  region: "us-east-1"
//
// Backends register themselves through RegisterFactory in an init function,
// so callers select one by blank-importing the implementation package:
//
//	import _ "github.com/skillsenselab/batchscribe/storage/s3"
package storage
