package storage

import (
	"github.com/renato0307/farol/internal/domain"
)

// recordModelToDomain converts a SessionRecordModel (GORM) to domain.SessionRecord
func recordModelToDomain(m SessionRecordModel) domain.SessionRecord {
	return domain.SessionRecord{
		Agent:     domain.AgentFamily(m.Agent),
		CostUSD:   m.CostUSD,
		CWD:       m.CWD,
		EndedAt:   m.EndedAt,
		ID:        m.ID,
		Model:     m.Model,
		StartedAt: m.StartedAt,
		Title:     m.Title,
		Usage: domain.TokenUsage{
			CacheCreationTokens: m.CacheCreationTokens,
			CacheReadTokens:     m.CacheReadTokens,
			InputTokens:         m.InputTokens,
			OutputTokens:        m.OutputTokens,
		},
	}
}

// domainToRecordModel converts a domain.SessionRecord to SessionRecordModel (GORM)
func domainToRecordModel(r domain.SessionRecord) SessionRecordModel {
	return SessionRecordModel{
		Agent:               string(r.Agent),
		CacheCreationTokens: r.Usage.CacheCreationTokens,
		CacheReadTokens:     r.Usage.CacheReadTokens,
		CostUSD:             r.CostUSD,
		CWD:                 r.CWD,
		EndedAt:             r.EndedAt,
		ID:                  r.ID,
		InputTokens:         r.Usage.InputTokens,
		Model:               r.Model,
		OutputTokens:        r.Usage.OutputTokens,
		StartedAt:           r.StartedAt,
		Title:               r.Title,
	}
}
