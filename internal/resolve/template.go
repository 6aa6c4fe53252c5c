// Package resolve implements the template engine that turns per-row field
// values into URLs and file names.
//
// Resolution is split into two stages: Parse scans a template into typed
// segments (literal text and field references), and a Resolver renders the
// parsed template against one row at a time. The split lets callers inspect
// what a template references (Template.Names) without rendering it, which
// decides whether URL-derived fields need to be computed at all.
package resolve

import (
	"fmt"
	"strconv"
	"strings"
)

// segment is one parsed piece of a template: literal text followed by an
// optional field reference.
type segment struct {
	literal string
	field   string // "" when the segment is a bare literal tail
	lower   bool   // apply lowercase conversion ({name!l})
}

// Template is a parsed format string. Placeholders take the form {name},
// {name!l} (lowercased), or {N} (positional, translated through the
// source's column-index map at render time).
type Template struct {
	raw      string
	segments []segment
}

// Parse scans a template string into a Template. "{{" and "}}" escape
// literal braces. A placeholder may not contain ':' or '!' except for the
// trailing "!l" conversion flag.
func Parse(raw string) (*Template, error) {
	t := &Template{raw: raw}
	var literal strings.Builder

	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == '{' && i+1 < len(raw) && raw[i+1] == '{':
			literal.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(raw) && raw[i+1] == '}':
			literal.WriteByte('}')
			i += 2
		case c == '}':
			return nil, fmt.Errorf("template %q: unmatched '}' at offset %d", raw, i)
		case c == '{':
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("template %q: unclosed placeholder at offset %d", raw, i)
			}
			field := raw[i+1 : i+end]
			lower := false
			if bang := strings.IndexByte(field, '!'); bang >= 0 {
				conv := field[bang+1:]
				if conv != "l" {
					return nil, fmt.Errorf("template %q: unsupported conversion %q (only !l is recognized)", raw, conv)
				}
				field = field[:bang]
				lower = true
			}
			if field == "" {
				return nil, fmt.Errorf("template %q: empty placeholder at offset %d", raw, i)
			}
			if strings.ContainsAny(field, ":!{") {
				return nil, fmt.Errorf("template %q: placeholder %q may not contain ':' or '!'", raw, field)
			}
			t.segments = append(t.segments, segment{
				literal: literal.String(),
				field:   field,
				lower:   lower,
			})
			literal.Reset()
			i += end + 1
		default:
			literal.WriteByte(c)
			i++
		}
	}

	if literal.Len() > 0 {
		t.segments = append(t.segments, segment{literal: literal.String()})
	}
	return t, nil
}

// String returns the original template text.
func (t *Template) String() string {
	return t.raw
}

// Names returns the field names referenced by the template, in order of
// appearance. A field referenced twice appears twice.
func (t *Template) Names() []string {
	var names []string
	for _, seg := range t.segments {
		if seg.field != "" {
			names = append(names, seg.field)
		}
	}
	return names
}

// ReferencesPrefix reports whether any referenced field name starts with
// prefix.
func (t *Template) ReferencesPrefix(prefix string) bool {
	for _, seg := range t.segments {
		if seg.field != "" && strings.HasPrefix(seg.field, prefix) {
			return true
		}
	}
	return false
}

// SingleName maps a template consisting of exactly one placeholder and no
// other text to the field name it resolves. A positional placeholder is
// translated through idxToName when possible. The second return value is
// false when the template is empty, carries literal text, or references
// more than one field.
func (t *Template) SingleName(idxToName map[int]string) (string, bool) {
	if len(t.segments) != 1 {
		return "", false
	}
	seg := t.segments[0]
	if seg.literal != "" || seg.field == "" {
		return "", false
	}
	if idx, err := strconv.Atoi(seg.field); err == nil {
		if name, ok := idxToName[idx]; ok {
			return name, true
		}
	}
	return seg.field, true
}
