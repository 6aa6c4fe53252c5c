package metafield

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vvka-141/bulkurl/internal/logging"
	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

func TestIsLegal(t *testing.T) {
	legal := []string{"a", "A1.b-c_d", "0field", "x"}
	for _, name := range legal {
		if !IsLegal(name) {
			t.Errorf("Expected %q to be legal", name)
		}
	}

	illegal := []string{"_a", "", "a:b", ".a", "-x", "a b", "a=b"}
	for _, name := range illegal {
		if IsLegal(name) {
			t.Errorf("Expected %q to be illegal", name)
		}
	}
}

func TestFilterLegal(t *testing.T) {
	logger := logging.NewRecordingLogger()

	got := FilterLegal([]string{"ok", "_bad", "also.ok", "worse:"}, logger)
	require.Equal(t, []string{"ok", "also.ok"}, got)

	// One verbose line per dropped field.
	require.Len(t, logger.Verboses, 2)
	require.Contains(t, logger.Verboses[0], "_bad")
	require.Contains(t, logger.Verboses[1], "worse:")
}

func TestParseArg(t *testing.T) {
	tests := []struct {
		name      string
		arg       string
		wantField string
		wantValue string
		wantOK    bool
		wantErr   bool
	}{
		{"Simple pair", "who=ann", "who", "ann", true, false},
		{"Value keeps later equals", "note=a=b", "note", "a=b", true, false},
		{"Whitespace trimmed", " who = ann ", "who", "ann", true, false},
		{"Empty value skipped", "who=", "who", "", false, false},
		{"No equals", "who", "", "", false, true},
		{"Empty field", "=v", "", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, value, ok, err := ParseArg(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, bulkurl.ErrMalformedMeta))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantField, field)
			require.Equal(t, tt.wantValue, value)
		})
	}
}
