package bulkurl

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Ingestion completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration, templates, or parameters
	ExitSourceError     = 11 // URL file missing or unreadable
	ExitApprovalDenied  = 12 // User denied overwrite approval
	ExitCollisionError  = 13 // Resolved file names collide across the batch
	ExitStoreError      = 14 // The content store rejected every mutation
)

const (
	// DefaultURLFormat resolves the first column of the source as the URL.
	DefaultURLFormat = "{0}"

	// DefaultFilenameFormat resolves the second column as the destination path.
	DefaultFilenameFormat = "{1}"

	// SubdatasetMarker splits a resolved file name into nested container
	// boundaries. "a//b//c.dat" places c.dat inside container a/b inside
	// container a.
	SubdatasetMarker = "//"

	// RepIndexField is the synthetic placeholder exposed to filename
	// templates. Its value increments each time a resolved name repeats.
	RepIndexField = "_repindex"

	// URLFieldPrefix marks the synthetic placeholders derived from each
	// row's resolved URL (_url_hostname, _url0.., _url_basename).
	URLFieldPrefix = "_url"
)

// Policies for destinations that already exist in the store.
const (
	// IfExistsDefault hands the conflict to the store, which rejects
	// content that differs from what it already holds.
	IfExistsDefault = ""

	// IfExistsSkip reports a no-op outcome and leaves the file alone.
	IfExistsSkip = "skip"

	// IfExistsOverwrite removes the existing file before adding.
	IfExistsOverwrite = "overwrite"
)

// Input types accepted for the URL file.
const (
	InputTypeExt      = "ext" // decide by file extension
	InputTypeCSV      = "csv"
	InputTypeJSON     = "json"
	InputTypePostgres = "postgres" // URL file holds a SQL query
)
