package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/bulkurl/internal/annex"
	"github.com/vvka-141/bulkurl/internal/logging"
	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

func desc(name string) bulkurl.Descriptor {
	return bulkurl.Descriptor{
		URL:           "https://host.example/" + name,
		Filename:      name,
		AbsPath:       "/ds/" + name,
		ContainerPath: "/ds",
		ContainerRel:  name,
	}
}

func TestAddURLs_Order(t *testing.T) {
	store := annex.NewRecordingStore()
	rows := []bulkurl.Descriptor{desc("a"), desc("b"), desc("c")}

	outcomes := AddURLs(context.Background(), store, logging.NewNullLogger(),
		rows, Options{}, nil)

	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		assert.Equal(t, "addurl", o.Action)
		assert.Equal(t, rows[i].AbsPath, o.Path)
		assert.Equal(t, bulkurl.StatusOK, o.Status)
	}

	calls := store.CallsFor("addurl")
	require.Len(t, calls, 3)
	assert.Equal(t, "a", calls[0].Path)
	assert.Equal(t, "c", calls[2].Path)
}

func TestAddURLs_FailingRowDoesNotAbortBatch(t *testing.T) {
	store := annex.NewRecordingStore()
	store.FailAdds["c"] = "download failed"
	rows := []bulkurl.Descriptor{
		desc("a"), desc("b"), desc("c"), desc("d"), desc("e"),
	}

	outcomes := AddURLs(context.Background(), store, logging.NewNullLogger(),
		rows, Options{}, nil)

	require.Len(t, outcomes, 5)
	assert.Equal(t, bulkurl.StatusOK, outcomes[1].Status)
	assert.Equal(t, bulkurl.StatusError, outcomes[2].Status)
	assert.Equal(t, "download failed", outcomes[2].Message)
	assert.Equal(t, bulkurl.StatusOK, outcomes[3].Status)
	assert.Equal(t, bulkurl.StatusOK, outcomes[4].Status)
}

func TestAddURLs_SkipPolicy(t *testing.T) {
	store := annex.NewRecordingStore()
	store.Existing["/ds/a"] = true
	rows := []bulkurl.Descriptor{desc("a"), desc("b")}

	outcomes := AddURLs(context.Background(), store, logging.NewNullLogger(),
		rows, Options{IfExists: bulkurl.IfExistsSkip}, nil)

	require.Len(t, outcomes, 2)
	assert.Equal(t, bulkurl.StatusNotNeeded, outcomes[0].Status)
	assert.Equal(t, bulkurl.StatusOK, outcomes[1].Status)

	calls := store.CallsFor("addurl")
	require.Len(t, calls, 1)
	assert.Equal(t, "b", calls[0].Path)
}

func TestAddURLs_OverwritePolicy(t *testing.T) {
	store := annex.NewRecordingStore()
	store.Existing["/ds/a"] = true
	rows := []bulkurl.Descriptor{desc("a")}

	outcomes := AddURLs(context.Background(), store, logging.NewNullLogger(),
		rows, Options{IfExists: bulkurl.IfExistsOverwrite}, nil)

	require.Len(t, outcomes, 1)
	assert.Equal(t, bulkurl.StatusOK, outcomes[0].Status)

	require.Len(t, store.CallsFor("remove"), 1)
	require.Len(t, store.CallsFor("addurl"), 1)
}

func TestAddURLs_DefaultPolicyStillAdds(t *testing.T) {
	store := annex.NewRecordingStore()
	store.Existing["/ds/a"] = true
	rows := []bulkurl.Descriptor{desc("a")}

	outcomes := AddURLs(context.Background(), store, logging.NewNullLogger(),
		rows, Options{}, nil)

	require.Len(t, outcomes, 1)
	assert.Equal(t, bulkurl.StatusOK, outcomes[0].Status)
	require.Empty(t, store.CallsFor("remove"))
	require.Len(t, store.CallsFor("addurl"), 1)
}

func TestAddURLs_FastFlagForwarded(t *testing.T) {
	store := annex.NewRecordingStore()

	AddURLs(context.Background(), store, logging.NewNullLogger(),
		[]bulkurl.Descriptor{desc("a")}, Options{Fast: true}, nil)

	calls := store.CallsFor("addurl")
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Fast)
}

func TestAddURLs_Observer(t *testing.T) {
	store := annex.NewRecordingStore()
	var seen []bulkurl.Outcome

	AddURLs(context.Background(), store, logging.NewNullLogger(),
		[]bulkurl.Descriptor{desc("a"), desc("b")}, Options{},
		func(o bulkurl.Outcome) { seen = append(seen, o) })

	require.Len(t, seen, 2)
	assert.Equal(t, "/ds/a", seen[0].Path)
}

func TestAddMeta(t *testing.T) {
	store := annex.NewRecordingStore()
	withMeta := desc("a")
	withMeta.MetaArgs = map[string]string{"who": "ann", "season": "1"}
	noMeta := desc("b")

	outcomes := AddMeta(context.Background(), store, logging.NewNullLogger(),
		[]bulkurl.Descriptor{withMeta, noMeta}, nil)

	// Rows without metadata yield no outcome at all.
	require.Len(t, outcomes, 1)
	assert.Equal(t, "metadata", outcomes[0].Action)
	assert.Equal(t, bulkurl.StatusOK, outcomes[0].Status)

	calls := store.CallsFor("metadata")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]string{"who": "ann", "season": "1"}, calls[0].Fields)
}
