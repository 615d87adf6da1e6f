package services

import (
	"context"
	"sync"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/ports"
	"github.com/renato0307/farol/internal/pricing"
)

// HistoryService archives ended sessions to the history store. It subscribes
// to engine transitions and records each session once, when it first reaches
// the ended phase.
type HistoryService struct {
	mu       sync.Mutex
	recorded map[string]bool
	repo     ports.HistoryWriter
	usage    ports.UsageReader
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(repo ports.HistoryWriter, usage ports.UsageReader) *HistoryService {
	return &HistoryService{
		recorded: make(map[string]bool),
		repo:     repo,
		usage:    usage,
	}
}

// Run consumes transitions until the channel closes
func (s *HistoryService) Run(ctx context.Context, transitions <-chan domain.Transition) {
	for transition := range transitions {
		s.HandleTransition(ctx, transition)
	}
}

// HandleTransition records the session when it reaches ended. Remove
// transitions clear the dedup marker so a reused id can be archived again.
func (s *HistoryService) HandleTransition(ctx context.Context, transition domain.Transition) {
	session := transition.Session

	if transition.Kind == domain.TransitionRemove {
		s.mu.Lock()
		delete(s.recorded, session.ID)
		s.mu.Unlock()
		return
	}
	if session.Phase != domain.PhaseEnded {
		return
	}

	s.mu.Lock()
	if s.recorded[session.ID] {
		s.mu.Unlock()
		return
	}
	s.recorded[session.ID] = true
	s.mu.Unlock()

	record := s.buildRecord(session)
	if err := s.repo.Save(ctx, record); err != nil {
		logging.Logger.Error("Failed to archive session",
			"session", session.ID, "error", err)
		s.mu.Lock()
		delete(s.recorded, session.ID)
		s.mu.Unlock()
		return
	}
	logging.Logger.Info("Archived session",
		"session", session.ID,
		"model", record.Model,
		"cost_usd", record.CostUSD)
}

// buildRecord folds transcript usage into the archive row. The model column
// carries the model with the most output tokens.
func (s *HistoryService) buildRecord(session domain.Session) domain.SessionRecord {
	record := domain.SessionRecord{
		Agent:     session.Agent,
		CWD:       session.CWD,
		EndedAt:   session.EndedAt,
		ID:        session.ID,
		StartedAt: session.StartedAt,
		Title:     session.Title,
	}

	byModel, err := s.usage.SessionUsage(session.Agent, session.ID, session.CWD)
	if err != nil {
		logging.Logger.Warn("Could not read session usage",
			"session", session.ID, "error", err)
		return record
	}

	for model, usage := range byModel {
		record.Usage.Add(usage)
		record.CostUSD += pricing.CostByAgent(usage, model, session.Agent)
		if record.Model == "" || usage.OutputTokens > byModel[record.Model].OutputTokens {
			record.Model = model
		}
	}
	return record
}
