// Package resilience provides retry and pacing primitives for remote calls.
//
// This package includes:
//   - Retry: Retries failed operations with exponential backoff
//   - Pacer: Enforces a minimum gap between successive actions
//
// Retry honors AppError retryability, so permanent faults such as a rejected
// remote job are never retried:
//
//	loc, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() (string, error) {
//	    return store.Upload(ctx, path)
//	})
package resilience
