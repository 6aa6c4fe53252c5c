// Package subpath decomposes resolved file names into nested container
// boundaries. A "//" in a file name marks the directory on its left as a
// container boundary; "p1/p2//p3/p4//file" places file under the container
// p1/p2/p3/p4, which itself lives under the container p1/p2.
package subpath

import (
	"path"
	"strings"
)

// Marker is the two-character boundary marker inside file names.
const Marker = "//"

// Split returns the file name with boundary markers collapsed to plain
// separators, plus the cumulative boundary paths in first-to-last order.
// A name without markers is returned unchanged with no boundaries.
//
// The last boundary is the deepest container the file belongs to.
func Split(filename string) (string, []string) {
	if !strings.Contains(filename, Marker) {
		return filename, nil
	}

	parts := strings.Split(filename, Marker)
	boundaries := make([]string, 0, len(parts)-1)
	prefix := ""
	for _, part := range parts[:len(parts)-1] {
		prefix = path.Join(prefix, part)
		boundaries = append(boundaries, prefix)
	}
	return strings.ReplaceAll(filename, Marker, "/"), boundaries
}
