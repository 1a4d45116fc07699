package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"probe_events", "generation_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendProbe(ctx, ProbeEventData{URL: "https://a", Found: true}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	repo := s.EventRepo()
	require.NoError(t, repo.AppendProbe(ctx, ProbeEventData{URL: "https://b"}))

	events, err := repo.QueryProbeEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[0].Sequence)
	assert.Equal(t, "https://b", events[0].URL)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestProbeEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	probes := []ProbeEventData{
		{URL: "https://h/x_1day_lens.jpg", ImageType: "lens", Found: false, LatencyMs: 12},
		{URL: "https://h/x_1day_lens.JPG", ImageType: "lens", Found: true, LatencyMs: 30},
		{URL: "https://h/x_1day_samune.jpg", ImageType: "thumbnail", Found: true, LatencyMs: 9},
	}
	for _, p := range probes {
		require.NoError(t, repo.AppendProbe(ctx, p))
	}

	events, err := repo.QueryProbeEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, probes[2].URL, events[0].URL)
	assert.Equal(t, probes[0].URL, events[2].URL)
	assert.True(t, events[1].Found)
	assert.False(t, events[2].Found)
	assert.Equal(t, int64(30), events[1].LatencyMs)
	assert.False(t, events[0].Timestamp.IsZero())

	limited, err := repo.QueryProbeEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, probes[2].URL, limited[0].URL)

	after, err := repo.QueryProbeEvents(ctx, QueryOpts{After: 1, Before: 3})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, int64(2), after[0].Sequence)

	future, err := repo.QueryProbeEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestQueryFiltersApplyBeforeLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendProbe(ctx, ProbeEventData{URL: "miss-1", ImageType: "lens"}))
	require.NoError(t, repo.AppendProbe(ctx, ProbeEventData{URL: "miss-2", ImageType: "thumbnail"}))
	for range 5 {
		require.NoError(t, repo.AppendProbe(ctx, ProbeEventData{URL: "hit", ImageType: "lens", Found: true}))
	}

	missing, err := repo.QueryProbeEvents(ctx, QueryOpts{Limit: 2, MissingOnly: true})
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, "miss-2", missing[0].URL)
	assert.Equal(t, "miss-1", missing[1].URL)

	lensMissing, err := repo.QueryProbeEvents(ctx, QueryOpts{Limit: 2, ImageType: "lens", MissingOnly: true})
	require.NoError(t, err)
	require.Len(t, lensMissing, 1)
	assert.Equal(t, "miss-1", lensMissing[0].URL)

	thumbs, err := repo.QueryProbeEvents(ctx, QueryOpts{Limit: 1, ImageType: "thumbnail"})
	require.NoError(t, err)
	require.Len(t, thumbs, 1)
	assert.Equal(t, "miss-2", thumbs[0].URL)
}

func TestProbeStatsByImageType(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, p := range []ProbeEventData{
		{URL: "a", ImageType: "lens", Found: true, LatencyMs: 10},
		{URL: "b", ImageType: "lens", Found: false, LatencyMs: 20},
		{URL: "c", ImageType: "thumbnail", Found: false, LatencyMs: 40},
	} {
		require.NoError(t, repo.AppendProbe(ctx, p))
	}

	stats, err := repo.ProbeStatsByImageType(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ProbeStat{
		{ImageType: "lens", Probes: 2, Found: 1, AvgLatencyMs: 15},
		{ImageType: "thumbnail", Probes: 1, Found: 0, AvgLatencyMs: 40},
	}, stats)
}

func TestProbeStatsEmpty(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.EventRepo().ProbeStatsByImageType(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestGenerationEvents_SharedSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendProbe(ctx, ProbeEventData{URL: "a", ImageType: "lens"}))
	require.NoError(t, repo.AppendGeneration(ctx, GenerationEventData{
		RunID:            "run-1",
		Requested:        10,
		Generated:        10,
		ShortDistractors: 2,
		Success:          true,
		LatencyMs:        120,
	}))
	require.NoError(t, repo.AppendGeneration(ctx, GenerationEventData{
		RunID:        "run-2",
		Requested:    10,
		ErrorMessage: "data insufficient",
	}))

	events, err := repo.QueryGenerationEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "run-2", events[0].RunID)
	assert.False(t, events[0].Success)
	assert.Equal(t, "data insufficient", events[0].ErrorMessage)
	assert.Equal(t, int64(3), events[0].Sequence)

	assert.Equal(t, "run-1", events[1].RunID)
	assert.True(t, events[1].Success)
	assert.Equal(t, 2, events[1].ShortDistractors)
	assert.Equal(t, int64(2), events[1].Sequence)
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "nested", "custom.db")
		t.Setenv("LENSQUIZ_DB", p)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.DirExists(t, filepath.Dir(p))
	})

	t.Run("xdg data home", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("LENSQUIZ_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "lensquiz", "lensquiz.db"), got)
	})
}
