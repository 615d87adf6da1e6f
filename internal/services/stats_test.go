package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/farol/internal/domain"
	portsmocks "github.com/renato0307/farol/internal/ports/mocks"
)

func TestStatsAggregatesLiveAndArchived(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	_, err := engine.Apply(testFrame(domain.EventUserPromptSubmit))
	require.NoError(t, err)

	repo := portsmocks.NewMockSessionRepository(t)
	usage := portsmocks.NewMockUsageReader(t)

	usage.EXPECT().SessionUsage(domain.AgentClaude, "sess-1", "/home/dev/project").
		Return(map[string]domain.TokenUsage{
			"claude-opus-4-5": {InputTokens: 1_000_000},
		}, nil)
	repo.EXPECT().List(mock.Anything, 0).
		Return([]domain.SessionRecord{
			{
				Agent:   domain.AgentCodex,
				CostUSD: 2.5,
				ID:      "old-1",
				Model:   "gpt-5-codex",
				Usage:   domain.TokenUsage{InputTokens: 2_000_000},
			},
		}, nil)

	service := NewStatsService(engine, repo, usage)
	stats, err := service.ByModel(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// 1M opus-4-5 input tokens at $5/M outranks the archived $2.50.
	assert.Equal(t, "claude-opus-4-5", stats[0].Model)
	assert.InDelta(t, 5.0, stats[0].CostUSD, 1e-9)
	assert.Equal(t, "gpt-5-codex", stats[1].Model)
	assert.InDelta(t, 2.5, stats[1].CostUSD, 1e-9)

	total, err := service.TotalCost(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 7.5, total, 1e-9)
}

func TestStatsSkipsEndedLiveSessions(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	_, err := engine.Apply(testFrame(domain.EventSessionEnd))
	require.NoError(t, err)

	repo := portsmocks.NewMockSessionRepository(t)
	usage := portsmocks.NewMockUsageReader(t)
	repo.EXPECT().List(mock.Anything, 0).Return(nil, nil)

	service := NewStatsService(engine, repo, usage)
	stats, err := service.ByModel(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)

	usage.AssertNotCalled(t, "SessionUsage")
}

func TestStatsCachesWithinTTL(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	repo := portsmocks.NewMockSessionRepository(t)
	usage := portsmocks.NewMockUsageReader(t)
	repo.EXPECT().List(mock.Anything, 0).Return(nil, nil).Once()

	service := NewStatsService(engine, repo, usage)
	_, err := service.ByModel(context.Background())
	require.NoError(t, err)
	_, err = service.ByModel(context.Background())
	require.NoError(t, err)
}

func TestStatsHistoryErrorPropagates(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	repo := portsmocks.NewMockSessionRepository(t)
	usage := portsmocks.NewMockUsageReader(t)
	repo.EXPECT().List(mock.Anything, 0).Return(nil, errors.New("database locked"))

	service := NewStatsService(engine, repo, usage)
	_, err := service.ByModel(context.Background())
	assert.Error(t, err)
}
