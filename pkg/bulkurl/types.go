package bulkurl

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// IngestConfig contains all parameters needed for an ingestion run.
type IngestConfig struct {
	// URLFile is the path to the file that holds the records (CSV, JSON,
	// or a SQL query for the postgres input type).
	URLFile string

	// InputType selects how URLFile is read: "csv", "json", "postgres",
	// or "ext" to decide by extension.
	InputType string

	// DatasetPath is the root of the dataset that receives the files.
	DatasetPath string

	// URLFormat is the template that resolves each row's download URL.
	URLFormat string

	// FilenameFormat is the template that resolves each row's destination
	// path. "//" marks nested container boundaries; the synthetic
	// "_repindex" and "_url*" placeholders are available here.
	FilenameFormat string

	// Meta holds explicit "field={placeholder}" metadata templates.
	Meta []string

	// ExcludeAutometa is a regular expression matched against source field
	// names to exclude them from automatic metadata. "*" or an explicitly
	// empty value disables automatic metadata entirely.
	ExcludeAutometa string

	// ExcludeAutometaSet reports whether ExcludeAutometa was supplied at
	// all, so an explicit empty value can be told apart from the default.
	ExcludeAutometaSet bool

	// MissingValue substitutes empty string values during resolution.
	MissingValue string

	// IfExists selects the policy for destinations that already exist:
	// IfExistsSkip, IfExistsOverwrite, or IfExistsDefault.
	IfExists string

	// Message overrides the default commit message.
	Message string

	// DryRun reports the planned work and performs no store mutation.
	DryRun bool

	// Fast adds the URLs without downloading their content.
	Fast bool

	// Force bypasses interactive approval for the overwrite policy.
	Force bool

	// Connection is the database connection string for the postgres
	// input type. Ignored for file-based sources.
	Connection string

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the IngestConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *IngestConfig) Validate() error {
	var errs []error

	if c.URLFile == "" {
		errs = append(errs, fmt.Errorf("URLFile is required: %w", ErrInvalidConfig))
	}

	if c.DatasetPath == "" {
		errs = append(errs, fmt.Errorf("DatasetPath is required: %w", ErrInvalidConfig))
	}

	switch c.InputType {
	case InputTypeExt, InputTypeCSV, InputTypeJSON:
	case InputTypePostgres:
		if c.Connection == "" {
			errs = append(errs, fmt.Errorf("postgres input requires a connection string: %w", ErrInvalidConfig))
		}
	default:
		errs = append(errs, fmt.Errorf("input type must be ext, csv, json, or postgres, got %q: %w",
			c.InputType, ErrInvalidConfig))
	}

	switch c.IfExists {
	case IfExistsDefault, IfExistsSkip, IfExistsOverwrite:
	default:
		errs = append(errs, fmt.Errorf("ifexists must be skip or overwrite, got %q: %w",
			c.IfExists, ErrInvalidConfig))
	}

	if c.Force && c.IfExists != IfExistsOverwrite {
		errs = append(errs, fmt.Errorf("force flag requires the overwrite policy: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Descriptor is the resolved output for one source row: where to put the
// file, where to fetch it from, and which metadata to attach.
type Descriptor struct {
	// URL is the resolved download URL.
	URL string

	// Filename is the resolved destination path relative to the dataset
	// root, with container markers collapsed to plain separators.
	Filename string

	// Subpath is the deepest container boundary the filename crosses,
	// or "" when it crosses none.
	Subpath string

	// MetaArgs maps metadata field names to resolved values.
	MetaArgs map[string]string

	// Execution bookkeeping filled in by the drivers, not the pipeline.

	// AbsPath is the absolute destination path.
	AbsPath string

	// ContainerPath is the absolute path of the container that owns the
	// file (the dataset root when Subpath is empty).
	ContainerPath string

	// ContainerRel is the destination path relative to ContainerPath.
	ContainerRel string
}

// Plan is the validated result of the extraction pipeline for one run.
type Plan struct {
	// RunID uniquely identifies this extraction run.
	RunID uuid.UUID

	// Descriptors holds one entry per surviving source row, in row order.
	Descriptors []Descriptor

	// Subpaths lists every container boundary crossed by any filename,
	// sorted, each required to exist before files beneath it are added.
	Subpaths []string
}

// Outcome statuses reported by the execution drivers.
const (
	StatusOK        = "ok"
	StatusNotNeeded = "notneeded"
	StatusError     = "error"
)

// Outcome is the per-row result of a driver operation.
type Outcome struct {
	// Action is the driver operation, "addurl" or "metadata".
	Action string

	// Path is the absolute destination path of the row.
	Path string

	// Status is StatusOK, StatusNotNeeded, or StatusError.
	Status string

	// Message carries the failure detail for StatusError outcomes.
	Message string
}

// Store is the external content store the drivers operate against.
// The extraction pipeline never touches it; a dry run never constructs one.
type Store interface {
	// Exists reports whether path is already present in the store.
	Exists(path string) bool

	// Remove deletes an existing artifact at path.
	Remove(path string) error

	// AddURL registers url as the content of the file at path inside the
	// container at dir. With fast set, content is not downloaded.
	AddURL(ctx context.Context, dir, path, url string, fast bool) error

	// SetMetadata attaches field=value pairs to the file at path inside
	// the container at dir.
	SetMetadata(ctx context.Context, dir, path string, fields map[string]string) error

	// CreateContainer initializes a nested container at path.
	CreateContainer(ctx context.Context, path string) error

	// Commit records all staged additions with the given message.
	Commit(ctx context.Context, dir, message string) error
}

// Approver handles user interaction for approval workflows, particularly
// for the destructive overwrite policy.
//
// Implementations:
//   - ForcedApprover: logs a notice and automatically approves
//   - InteractiveApprover: prompts user to confirm on the terminal
type Approver interface {
	// RequestApproval prompts for confirmation before an ingestion run
	// that removes existing files.
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: Any error that occurred during the approval process
	RequestApproval(ctx context.Context, datasetPath string, removals int) (bool, error)
}
