package bulkurl

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := ingester.Apply(ctx, cfg, plan)
//	if errors.Is(err, bulkurl.ErrApprovalDenied) {
//	    // Handle user denying approval
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceNotFound indicates the URL file was not found or unreadable.
	ErrSourceNotFound = errors.New("url file not found")

	// ErrCollision indicates resolved file names are not pairwise distinct
	// across the batch.
	ErrCollision = errors.New("file name collision")

	// ErrMalformedMeta indicates a metadata template did not produce a
	// "field=value" pair.
	ErrMalformedMeta = errors.New("malformed metadata argument")

	// ErrApprovalDenied indicates the user denied approval for the operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrStoreFailed indicates the content store failed for every row.
	ErrStoreFailed = errors.New("content store failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrMalformedMeta):
		return ExitConfigError
	case errors.Is(err, ErrSourceNotFound):
		return ExitSourceError
	case errors.Is(err, ErrCollision):
		return ExitCollisionError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrStoreFailed):
		return ExitStoreError
	}

	// Check for common source error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "no such file") ||
		strings.Contains(errStr, "permission denied") {
		return ExitSourceError
	}

	return ExitGeneralError
}
