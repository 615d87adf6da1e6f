package transcript

import (
	"time"

	"github.com/renato0307/farol/internal/domain"
)

// MessageKind classifies one parsed transcript message.
type MessageKind string

const (
	MessageText        MessageKind = "text"
	MessageToolUse     MessageKind = "tool_use"
	MessageThinking    MessageKind = "thinking"
	MessageInterrupted MessageKind = "interrupted"
)

// Message is one block from a transcript record. Structured content arrays
// produce one Message per recognized block.
type Message struct {
	Kind      MessageKind
	Model     string
	Role      string
	Text      string
	Thinking  string
	Timestamp time.Time
	ToolID    string
	ToolInput map[string]any
	ToolName  string
	UUID      string
	Usage     *domain.TokenUsage
}

// ToolResult is the raw outcome of one tool invocation.
type ToolResult struct {
	Content     string
	Interrupted bool
	IsError     bool
	Stderr      string
	Stdout      string
	ToolUseID   string
}

// StructuredResult is a per-tool-family decoded result. Kind selects which
// fields are populated; unknown tools (MCP included) land on "generic" with
// only Raw set.
type StructuredResult struct {
	Content     string
	FilePath    string
	Filenames   []string
	Interrupted bool
	Kind        string
	NumFiles    int
	NumLines    int
	Raw         string
	Stderr      string
	Stdout      string
}

// Structured result kinds.
const (
	ResultRead    = "read"
	ResultWrite   = "write"
	ResultEdit    = "edit"
	ResultBash    = "bash"
	ResultGrep    = "grep"
	ResultGlob    = "glob"
	ResultGeneric = "generic"
)

// ParseResult is the outcome of one incremental parse call.
type ParseResult struct {
	AllMessages       []Message
	ClearDetected     bool
	CompletedToolIDs  map[string]bool
	InterruptDetected bool
	NewMessages       []Message
	StructuredResults map[string]StructuredResult
	ToolResults       map[string]ToolResult
}

// ToolCall is one tool invocation extracted from a subagent transcript.
type ToolCall struct {
	ID        string
	Input     map[string]any
	Name      string
	Timestamp time.Time
}

// Summary answers "what is this session about" from a whole-file pass.
type Summary struct {
	FirstUserMessage string
	LastMessage      string
	SummaryLine      string
}
