package results

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
)

func testRun(strategy string, batched bool) Run {
	return Run{
		Strategy:     strategy,
		Batched:      batched,
		Threads:      2,
		BufferBytes:  1 << 20,
		Ops:          1_000_000,
		PushAvgNs:    42.5,
		ConsumeAvgNs: 17.3,
		Hostname:     "testhost",
	}
}

func TestStoreRecordAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	defer store.Close()

	first := testRun("Basic", false)
	id1, err := store.Record(&first)
	require.NoError(t, err)
	require.Equal(t, id1, first.ID)
	require.NotEmpty(t, first.StartedAt, "Record stamps StartedAt")

	second := testRun("Separated", true)
	id2, err := store.Record(&second)
	require.NoError(t, err)
	require.Greater(t, id2, id1)

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	require.Equal(t, "Separated", runs[0].Strategy)
	require.True(t, runs[0].Batched)
	require.Equal(t, "Basic", runs[1].Strategy)
	require.Equal(t, first.PushAvgNs, runs[1].PushAvgNs)
	require.Equal(t, first.StartedAt, runs[1].StartedAt)
}

func TestStoreRecentHonorsLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		r := testRun("SpinLock", false)
		_, err := store.Record(&r)
		require.NoError(t, err)
	}

	runs, err := store.Recent(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
}

func TestExportJSONRoundTrip(t *testing.T) {
	in := []Run{testRun("Basic", false), testRun("Separated", true)}
	in[0].StartedAt = "2026-08-30T00:00:00Z"
	in[1].StartedAt = "2026-08-30T00:01:00Z"

	out, err := ExportJSON(in)
	require.NoError(t, err)

	var back []Run
	require.NoError(t, sonnet.Unmarshal(out, &back))
	require.Equal(t, in, back)
}
