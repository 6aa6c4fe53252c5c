package subpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		wantFlat   string
		wantBounds []string
	}{
		{
			name:       "No marker",
			filename:   "p1/p2/file",
			wantFlat:   "p1/p2/file",
			wantBounds: nil,
		},
		{
			name:       "Single marker",
			filename:   "p1//file",
			wantFlat:   "p1/file",
			wantBounds: []string{"p1"},
		},
		{
			name:       "Two markers accumulate",
			filename:   "p1/p2//p3/p4//file",
			wantFlat:   "p1/p2/p3/p4/file",
			wantBounds: []string{"p1/p2", "p1/p2/p3/p4"},
		},
		{
			name:       "Marker with multi-component tail",
			filename:   "a//b/c",
			wantFlat:   "a/b/c",
			wantBounds: []string{"a"},
		},
		{
			name:       "Bare file",
			filename:   "file",
			wantFlat:   "file",
			wantBounds: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat, bounds := Split(tt.filename)
			require.Equal(t, tt.wantFlat, flat)
			require.Equal(t, tt.wantBounds, bounds)
		})
	}
}

// Re-inserting the marker at each recorded boundary length must
// reconstruct the original name.
func TestSplit_RoundTrip(t *testing.T) {
	inputs := []string{
		"file",
		"p1//file",
		"p1/p2//p3/p4//file",
		"a//b//c//d",
	}

	for _, input := range inputs {
		flat, bounds := Split(input)

		rebuilt := flat
		// Replace from the deepest boundary outward so earlier offsets
		// stay valid.
		for i := len(bounds) - 1; i >= 0; i-- {
			n := len(bounds[i])
			require.Equal(t, "/", rebuilt[n:n+1], "input %q", input)
			rebuilt = rebuilt[:n] + Marker + rebuilt[n+1:]
		}
		require.Equal(t, input, rebuilt, "round trip for %q", input)
		require.False(t, strings.Contains(flat, Marker), "flat path keeps marker for %q", input)
	}
}
