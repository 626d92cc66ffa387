// Package util provides generic utility functions for batchscribe.
//
// It includes small map and slice helpers, string sanitization for remote
// job names, and natural-order sorting of file names.
package util
