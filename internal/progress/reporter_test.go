package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/bulkurl/internal/logging"
	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

func TestDetectMode_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Non-interactive flag", "BULKURL_NON_INTERACTIVE", "1"},
		{"CI convention", "CI", "true"},
		{"NO_COLOR convention", "NO_COLOR", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.Equal(t, ModePlain, DetectMode())
		})
	}
}

func TestDetectMode_PipedOutput(t *testing.T) {
	// The test binary's stdout is not a terminal, so without any env
	// override the detector still lands on plain mode.
	t.Setenv("BULKURL_NON_INTERACTIVE", "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, ModePlain, DetectMode())
}

func TestReporter_PlainMode(t *testing.T) {
	logger := logging.NewRecordingLogger()
	var out bytes.Buffer
	r := NewReporter("Adding URLs", 3, ModePlain, &out, logger)

	r.Observe(bulkurl.Outcome{Action: "addurl", Path: "/ds/a", Status: bulkurl.StatusOK})
	r.Observe(bulkurl.Outcome{Action: "addurl", Path: "/ds/b", Status: bulkurl.StatusNotNeeded})
	r.Observe(bulkurl.Outcome{
		Action: "addurl", Path: "/ds/c", Status: bulkurl.StatusError, Message: "download failed",
	})
	r.Finish()

	// Plain mode writes nothing to the live output stream.
	assert.Empty(t, out.String())

	require.Contains(t, logger.Errors, "addurl failed for /ds/c: download failed")
	require.Contains(t, logger.Verboses, "addurl skipped for /ds/b")
	require.Equal(t, []string{"Adding URLs: 3/3 done, 1 failed, 1 skipped"}, logger.Infos)
}

func TestReporter_LiveMode(t *testing.T) {
	logger := logging.NewRecordingLogger()
	var out bytes.Buffer
	r := NewReporter("Adding URLs", 2, ModeLive, &out, logger)

	r.Observe(bulkurl.Outcome{Action: "addurl", Path: "/ds/a", Status: bulkurl.StatusOK})
	r.Observe(bulkurl.Outcome{Action: "addurl", Path: "/ds/b", Status: bulkurl.StatusOK})
	r.Finish()

	rendered := out.String()
	assert.Contains(t, rendered, "Adding URLs 1/2")
	assert.Contains(t, rendered, "Adding URLs 2/2")
	assert.True(t, strings.HasSuffix(rendered, "\n"))

	// Live mode never routes outcomes through the logger.
	assert.Empty(t, logger.Infos)
	assert.Empty(t, logger.Errors)
}

func TestReporter_NilDependenciesPanic(t *testing.T) {
	logger := logging.NewNullLogger()
	require.Panics(t, func() { NewReporter("x", 1, ModePlain, nil, logger) })
	require.Panics(t, func() { NewReporter("x", 1, ModePlain, &bytes.Buffer{}, nil) })
}
