package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/farol/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func testRecord(id string, endedAt time.Time) domain.SessionRecord {
	return domain.SessionRecord{
		Agent:     domain.AgentClaude,
		CostUSD:   1.25,
		CWD:       "/home/dev/project",
		EndedAt:   endedAt,
		ID:        id,
		Model:     "claude-opus-4-5",
		StartedAt: endedAt.Add(-10 * time.Minute),
		Title:     "fix the flaky watcher test",
		Usage: domain.TokenUsage{
			CacheCreationTokens: 2_000,
			CacheReadTokens:     40_000,
			InputTokens:         150_000,
			OutputTokens:        12_000,
		},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	endedAt := time.Date(2026, 2, 10, 17, 30, 0, 0, time.UTC)

	record := testRecord("sess-1", endedAt)
	require.NoError(t, repo.Save(ctx, record))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, record.Agent, got.Agent)
	assert.Equal(t, record.CostUSD, got.CostUSD)
	assert.Equal(t, record.CWD, got.CWD)
	assert.Equal(t, record.Model, got.Model)
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.Usage, got.Usage)
	assert.True(t, record.EndedAt.Equal(got.EndedAt))
	assert.True(t, record.StartedAt.Equal(got.StartedAt))
}

func TestSaveOverwritesExistingRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	endedAt := time.Date(2026, 2, 10, 17, 30, 0, 0, time.UTC)

	record := testRecord("sess-1", endedAt)
	require.NoError(t, repo.Save(ctx, record))

	record.CostUSD = 2.5
	record.Usage.OutputTokens = 24_000
	require.NoError(t, repo.Save(ctx, record))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.CostUSD)
	assert.Equal(t, 24_000, got.Usage.OutputTokens)

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestListNewestFirstWithLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"sess-a", "sess-b", "sess-c"} {
		require.NoError(t, repo.Save(ctx, testRecord(id, base.Add(time.Duration(i)*time.Hour))))
	}

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "sess-c", records[0].ID)
	assert.Equal(t, "sess-b", records[1].ID)
	assert.Equal(t, "sess-a", records[2].ID)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "sess-c", limited[0].ID)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testRecord("sess-1", time.Now().UTC())))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	_, err := repo.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMissingRecordErrors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	err = repo.Delete(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
