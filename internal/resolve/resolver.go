package resolve

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one record of the source: field name to scalar value, already
// stringified by the record source.
type Row = map[string]string

// UnknownFieldError reports a placeholder that no field in the row
// satisfies. Templates are assumed globally valid against the source
// schema, so this is a configuration error rather than a row-scoped one.
type UnknownFieldError struct {
	Field    string
	Template string
}

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("template %q references unknown field %q", e.Template, e.Field)
}

// Resolver renders parsed templates against rows.
//
// A Resolver carries no per-run mutable state and may be shared, but the
// RepResolver wrapping it may not; see RepResolver.
type Resolver struct {
	idxToName  map[int]string
	missing    string
	hasMissing bool
}

// New creates a Resolver. idxToName maps positional indices to field names
// for columnar sources; it may be nil or empty, in which case positional
// placeholders fail to resolve.
func New(idxToName map[int]string) *Resolver {
	return &Resolver{idxToName: idxToName}
}

// NewWithMissing creates a Resolver that substitutes missing for fields
// whose raw row value is the empty string. Substitution happens at value
// fetch time, before any conversion is applied.
func NewWithMissing(idxToName map[int]string, missing string) *Resolver {
	return &Resolver{idxToName: idxToName, missing: missing, hasMissing: true}
}

// Resolve renders tmpl against row. Placeholders that are purely numeric
// are first translated through the positional-index map.
func (r *Resolver) Resolve(tmpl *Template, row Row) (string, error) {
	var out strings.Builder
	for _, seg := range tmpl.segments {
		out.WriteString(seg.literal)
		if seg.field == "" {
			continue
		}

		name := seg.field
		if idx, err := strconv.Atoi(seg.field); err == nil {
			mapped, ok := r.idxToName[idx]
			if !ok {
				return "", &UnknownFieldError{Field: seg.field, Template: tmpl.raw}
			}
			name = mapped
		}

		value, ok := row[name]
		if !ok {
			return "", &UnknownFieldError{Field: name, Template: tmpl.raw}
		}
		if r.hasMissing && value == "" {
			value = r.missing
		}
		if seg.lower {
			value = strings.ToLower(value)
		}
		out.WriteString(value)
	}
	return out.String(), nil
}
