// Package logger provides structured logging for batchscribe
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.WithComponent("batch")
//	log.Info("sweep complete", logger.Fields("count", n))
package logger
