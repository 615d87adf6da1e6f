package storage

import "time"

// SessionRecordModel is the GORM model for the session_records table
type SessionRecordModel struct {
	Agent               string  `gorm:"not null;index:idx_agent"`
	CacheCreationTokens int     `gorm:"not null;default:0"`
	CacheReadTokens     int     `gorm:"not null;default:0"`
	CostUSD             float64 `gorm:"not null;default:0"`
	CreatedAt           time.Time
	CWD                 string    `gorm:"default:''"`
	EndedAt             time.Time `gorm:"not null;index:idx_ended_at"`
	ID                  string    `gorm:"primaryKey"`
	InputTokens         int       `gorm:"not null;default:0"`
	Model               string    `gorm:"default:''"`
	OutputTokens        int       `gorm:"not null;default:0"`
	StartedAt           time.Time `gorm:"not null"`
	Title               string    `gorm:"default:''"`
	UpdatedAt           time.Time
}

// TableName specifies the table name for GORM
func (SessionRecordModel) TableName() string { return "session_records" }
