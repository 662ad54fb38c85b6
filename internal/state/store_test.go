package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/certwatch/docsite/internal/content"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordBuild_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := BuildRecord{
		ID:        "b1",
		StartedAt: time.Now().Truncate(time.Second),
		Duration:  1200 * time.Millisecond,
		Pages:     7,
		Outcome:   "success",
	}
	require.NoError(t, s.RecordBuild(ctx, rec))

	got, err := s.RecentBuilds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "b1", got[0].ID)
	require.Equal(t, 7, got[0].Pages)
	require.Equal(t, "success", got[0].Outcome)
	require.Equal(t, rec.Duration, got[0].Duration)
}

func TestStore_RecentBuilds_NewestFirstAndLimited(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, s.RecordBuild(ctx, BuildRecord{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Outcome:   "success",
		}))
	}

	got, err := s.RecentBuilds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "b3", got[0].ID)
	require.Equal(t, "b2", got[1].ID)
}

func TestStore_Manifest_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	none, err := s.LatestManifest(ctx)
	require.NoError(t, err)
	require.Nil(t, none)

	m := &content.Manifest{
		Hash:  "abc123",
		Files: map[string]string{"index.md": "h1", "guide/1-install.md": "h2"},
	}
	require.NoError(t, s.SaveManifest(ctx, "b1", m))

	got, err := s.LatestManifest(ctx)
	require.NoError(t, err)
	require.Equal(t, m.Hash, got.Hash)
	require.Equal(t, m.Files, got.Files)
}

func TestStore_FailedBuild_KeepsError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordBuild(ctx, BuildRecord{
		ID:        "b1",
		StartedAt: time.Now(),
		Outcome:   "failed",
		Error:     "render: boom",
	}))

	got, err := s.RecentBuilds(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "render: boom", got[0].Error)
}
