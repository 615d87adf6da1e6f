package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/ports"
	"github.com/renato0307/farol/internal/pricing"
)

const (
	// statsCacheTTL is the duration to cache aggregated stats before refreshing
	statsCacheTTL = 60 * time.Second
)

// ModelStats aggregates usage and cost for one model
type ModelStats struct {
	CostUSD float64
	Model   string
	Usage   domain.TokenUsage
}

// StatsService aggregates token usage and cost across live and archived
// sessions, with caching
type StatsService struct {
	cache       []ModelStats
	cacheMu     sync.RWMutex
	engine      *Engine
	history     ports.HistoryReader
	lastRefresh time.Time
	usage       ports.UsageReader
}

// NewStatsService creates a new StatsService
func NewStatsService(engine *Engine, history ports.HistoryReader, usage ports.UsageReader) *StatsService {
	return &StatsService{
		engine:  engine,
		history: history,
		usage:   usage,
	}
}

// ByModel returns per-model usage and cost, most expensive first (cached)
func (s *StatsService) ByModel(ctx context.Context) ([]ModelStats, error) {
	if err := s.ensureCacheFresh(ctx); err != nil {
		return nil, err
	}

	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return append([]ModelStats(nil), s.cache...), nil
}

// TotalCost returns the summed cost across all models (cached)
func (s *StatsService) TotalCost(ctx context.Context) (float64, error) {
	stats, err := s.ByModel(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, entry := range stats {
		total += entry.CostUSD
	}
	return total, nil
}

// ensureCacheFresh refreshes the cache if it's stale or empty
func (s *StatsService) ensureCacheFresh(ctx context.Context) error {
	s.cacheMu.RLock()
	cacheValid := s.cache != nil && time.Since(s.lastRefresh) < statsCacheTTL
	s.cacheMu.RUnlock()

	if cacheValid {
		return nil
	}

	return s.refreshCache(ctx)
}

// refreshCache fetches fresh data and updates the cache
func (s *StatsService) refreshCache(ctx context.Context) error {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// Double-check after acquiring write lock
	if s.cache != nil && time.Since(s.lastRefresh) < statsCacheTTL {
		return nil
	}

	logging.Logger.Debug("Refreshing stats cache")

	byModel := make(map[string]*ModelStats)
	add := func(model string, usage domain.TokenUsage, cost float64) {
		entry, ok := byModel[model]
		if !ok {
			entry = &ModelStats{Model: model}
			byModel[model] = entry
		}
		entry.Usage.Add(usage)
		entry.CostUSD += cost
	}

	// Live sessions; ended ones are covered by their archive rows.
	for _, session := range s.engine.Sessions() {
		if session.Phase == domain.PhaseEnded {
			continue
		}
		sessionUsage, err := s.usage.SessionUsage(session.Agent, session.ID, session.CWD)
		if err != nil {
			logging.Logger.Debug("Skipping session without usage",
				"session", session.ID, "error", err)
			continue
		}
		for model, usage := range sessionUsage {
			add(model, usage, pricing.CostByAgent(usage, model, session.Agent))
		}
	}

	records, err := s.history.List(ctx, 0)
	if err != nil {
		logging.Logger.Warn("Failed to list archived sessions", "error", err)
		return err
	}
	for _, record := range records {
		add(record.Model, record.Usage, record.CostUSD)
	}

	stats := make([]ModelStats, 0, len(byModel))
	for _, entry := range byModel {
		stats = append(stats, *entry)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].CostUSD == stats[j].CostUSD {
			return stats[i].Model < stats[j].Model
		}
		return stats[i].CostUSD > stats[j].CostUSD
	})

	s.cache = stats
	s.lastRefresh = time.Now()

	logging.Logger.Debug("Stats cache refreshed", "models", len(stats))
	return nil
}
