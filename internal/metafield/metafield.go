// Package metafield validates and parses metadata field names and
// field=value arguments against the content store's naming grammar.
package metafield

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// legalField is the set of names git-annex accepts for metadata fields
// (MetaData.hs:legalField): leading alphanumeric, then alphanumerics,
// '_', '.', or '-'.
var legalField = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// IsLegal reports whether name is a valid metadata field name.
func IsLegal(name string) bool {
	return legalField.MatchString(name)
}

// FilterLegal removes illegal names from fields, preserving the order of
// the survivors. Each dropped name is logged at verbose level.
func FilterLegal(fields []string, logger bulkurl.Logger) []string {
	legal := make([]string, 0, len(fields))
	for _, field := range fields {
		if IsLegal(field) {
			legal = append(legal, field)
		} else {
			logger.Verbose("%s is not a valid metadata field name; dropping", field)
		}
	}
	return legal
}

// ParseArg splits a resolved metadata argument into its field and value.
//
// An argument without '=' or with an empty field name is a configuration
// error. An empty value is not: the source row simply had nothing in that
// column, and the pair is skipped (ok is false with a nil error).
func ParseArg(arg string) (field, value string, ok bool, err error) {
	field, value, found := strings.Cut(arg, "=")
	if !found {
		return "", "", false, fmt.Errorf("argument %q is not in field=value format: %w",
			arg, bulkurl.ErrMalformedMeta)
	}

	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)
	if field == "" {
		return "", "", false, fmt.Errorf("argument %q has an empty field name: %w",
			arg, bulkurl.ErrMalformedMeta)
	}
	if value == "" {
		return field, "", false, nil
	}
	return field, value, true, nil
}
