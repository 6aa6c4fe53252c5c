// Package source reads record sources into the ordered row collection the
// extraction pipeline consumes. The pipeline is agnostic to the original
// encoding; every source yields rows of named string fields plus, for
// columnar sources, a positional-index-to-name map.
package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// Row is one record: field name to stringified scalar value.
type Row = map[string]string

// RecordSet is an ordered collection of rows plus the positional map that
// lets templates reference columns as {0}, {1}, and so on. IdxToName is
// empty for sources with no positional concept (JSON).
type RecordSet struct {
	Rows      []Row
	IdxToName map[int]string
}

// DetectType resolves the effective input type for path. The "ext" type
// decides by file extension: ".json" means JSON, anything else CSV.
func DetectType(path, explicit string) (string, error) {
	switch explicit {
	case bulkurl.InputTypeCSV, bulkurl.InputTypeJSON, bulkurl.InputTypePostgres:
		return explicit, nil
	case bulkurl.InputTypeExt:
		if filepath.Ext(path) == ".json" {
			return bulkurl.InputTypeJSON, nil
		}
		return bulkurl.InputTypeCSV, nil
	default:
		return "", fmt.Errorf("input type must be ext, csv, json, or postgres, got %q: %w",
			explicit, bulkurl.ErrInvalidConfig)
	}
}

// ReadFile reads the record source at path as inputType ("csv", "json", or
// "ext" to decide by extension).
func ReadFile(path, inputType string) (*RecordSet, error) {
	resolved, err := DetectType(path, inputType)
	if err != nil {
		return nil, err
	}
	if resolved == bulkurl.InputTypePostgres {
		return nil, fmt.Errorf("postgres input is read with ReadQuery, not ReadFile: %w",
			bulkurl.ErrInvalidConfig)
	}

	fd, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, bulkurl.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("failed to open url file: %w", err)
	}
	defer fd.Close()

	if resolved == bulkurl.InputTypeJSON {
		return ReadJSON(fd)
	}
	return ReadCSV(fd)
}
