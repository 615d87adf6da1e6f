package domain

import "time"

// AgentFamily identifies which coding-agent CLI a session belongs to
type AgentFamily string

const (
	AgentClaude AgentFamily = "claude"
	AgentCodex  AgentFamily = "codex"
	AgentGemini AgentFamily = "gemini"
)

// KnownAgents lists every supported agent family
var KnownAgents = []AgentFamily{AgentClaude, AgentCodex, AgentGemini}

// Valid reports whether the family is one of the supported agents
func (a AgentFamily) Valid() bool {
	switch a {
	case AgentClaude, AgentCodex, AgentGemini:
		return true
	}
	return false
}

// Phase is the coarse state of a session in the state machine
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseProcessing         Phase = "processing"
	PhaseRunningTool        Phase = "runningTool"
	PhaseWaitingForInput    Phase = "waitingForInput"
	PhaseWaitingForApproval Phase = "waitingForApproval"
	PhaseCompacting         Phase = "compacting"
	PhaseError              Phase = "error"
	PhaseEnded              Phase = "ended"
)

// Status symbols (Unicode) for compact status-bar rendering
const (
	SymbolWorking = "●" // Green - processing, running a tool, compacting
	SymbolIdle    = "○" // Yellow - idle
	SymbolWaiting = "◐" // Red - waiting for input or approval
	SymbolError   = "✗" // Red - error
	SymbolEnded   = "■" // Gray - session ended
)

// Valid reports whether p is one of the defined phases
func (p Phase) Valid() bool {
	switch p {
	case PhaseIdle, PhaseProcessing, PhaseRunningTool, PhaseWaitingForInput,
		PhaseWaitingForApproval, PhaseCompacting, PhaseError, PhaseEnded:
		return true
	}
	return false
}

// Symbol returns the status-bar symbol for the phase
func (p Phase) Symbol() string {
	switch p {
	case PhaseProcessing, PhaseRunningTool, PhaseCompacting:
		return SymbolWorking
	case PhaseWaitingForInput, PhaseWaitingForApproval:
		return SymbolWaiting
	case PhaseError:
		return SymbolError
	case PhaseEnded:
		return SymbolEnded
	default:
		return SymbolIdle
	}
}

// MaxActivityEntries bounds the per-session activity log
const MaxActivityEntries = 50

// ActivityEntry is one item in a session's bounded activity log
type ActivityEntry struct {
	Event   EventKind
	Message string
	Time    time.Time
	Tool    string
}

// Session is one tracked agent invocation (domain entity)
type Session struct {
	Activity     []ActivityEntry
	Agent        AgentFamily
	CWD          string
	EndedAt      time.Time
	ID           string
	LastActivity time.Time
	PID          int
	Permission   *PermissionRequest
	Phase        Phase
	StartedAt    time.Time
	TTY          string
	Title        string
}

// RecordActivity appends an entry to the activity log, dropping the oldest
// entries beyond MaxActivityEntries
func (s *Session) RecordActivity(entry ActivityEntry) {
	s.Activity = append(s.Activity, entry)
	if len(s.Activity) > MaxActivityEntries {
		s.Activity = s.Activity[len(s.Activity)-MaxActivityEntries:]
	}
}

// TokenUsage holds token counts from a single usage record
type TokenUsage struct {
	CacheCreationTokens int
	CacheReadTokens     int
	InputTokens         int
	OutputTokens        int
}

// Add accumulates another usage record into this one
func (u *TokenUsage) Add(other TokenUsage) {
	u.CacheCreationTokens += other.CacheCreationTokens
	u.CacheReadTokens += other.CacheReadTokens
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
