// Package config loads and validates configuration for the transcription
// tools.
//
// Configuration is layered: an optional YAML file provides the base, .env
// files and process environment variables override it, and a small set of
// well-known variable names (AZURE_SPEECH_KEY, AWS_S3_BUCKET, ...) bind onto
// their nested keys for compatibility with existing deployments.
//
// # Usage
//
//	settings, err := config.LoadSettings("batchscribe")
//
// LoadSettings applies defaults and validates the selected provider's
// required settings before returning.
package config
