package storage

import (
	"fmt"
	"strings"

	apperrors "github.com/skillsenselab/batchscribe/errors"
)

// FromS3 converts an S3 SDK error into an AppError with an actionable
// message. The bucket and region feed the guidance text.
func FromS3(err error, bucket, region string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())

	// Missing bucket
	if strings.Contains(errStr, "nosuchbucket") ||
		strings.Contains(errStr, "notfound") ||
		strings.Contains(errStr, "status code: 404") {
		return apperrors.Configuration(fmt.Sprintf(
			"S3 bucket %q does not exist. Create it first: aws s3 mb s3://%s --region %s",
			bucket, bucket, region)).WithCause(err)
	}

	// Permission problems
	if strings.Contains(errStr, "accessdenied") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "status code: 403") {
		return apperrors.Configuration(fmt.Sprintf(
			"access denied to S3 bucket %q, check that the credentials have s3 permissions",
			bucket)).WithCause(err)
	}

	// Connectivity
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "network") {
		return apperrors.ConnectionFailed("s3").WithCause(err)
	}

	// Default
	return apperrors.New(apperrors.ErrCodeInternal,
		fmt.Sprintf("failed to access S3 bucket %q", bucket)).WithCause(err)
}
