package domain

// EventKind is the canonical event vocabulary all agent adapters translate into
type EventKind string

const (
	EventUserPromptSubmit  EventKind = "UserPromptSubmit"
	EventPreToolUse        EventKind = "PreToolUse"
	EventPostToolUse       EventKind = "PostToolUse"
	EventPermissionRequest EventKind = "PermissionRequest"
	EventNotification      EventKind = "Notification"
	EventStop              EventKind = "Stop"
	EventSubagentStop      EventKind = "SubagentStop"
	EventSessionStart      EventKind = "SessionStart"
	EventSessionEnd        EventKind = "SessionEnd"
	EventPreCompact        EventKind = "PreCompact"
)

// Notification subtypes carried in HookFrame.NotificationType
const (
	NotificationPermissionPrompt = "permission-prompt"
	NotificationIdlePrompt       = "idle-prompt"
)

// Control event names used on the session event channel alongside hook events.
// Register binds a long-lived connection to a session id so stdin/resize/kill
// frames can be routed back to it; Respond resolves a pending permission from
// another process; Snapshot asks a running instance for its live session table.
const (
	EventRegister EventKind = "register"
	EventRespond  EventKind = "respond"
	EventSnapshot EventKind = "snapshot"
	EventStdin    EventKind = "stdin"
	EventResize   EventKind = "resize"
	EventKill     EventKind = "kill"
)

// HookFrame is the canonical event frame sent over the session event channel.
// One JSON object per line; see the transport package for framing.
type HookFrame struct {
	SessionID        string         `json:"sessionId"`
	CWD              string         `json:"cwd,omitempty"`
	Event            EventKind      `json:"event"`
	Status           string         `json:"status,omitempty"`
	Agent            AgentFamily    `json:"agent"`
	PID              int            `json:"pid,omitempty"`
	TTY              string         `json:"tty,omitempty"`
	Tool             string         `json:"tool,omitempty"`
	ToolInput        map[string]any `json:"toolInput,omitempty"`
	ToolUseID        string         `json:"toolUseId,omitempty"`
	NotificationType string         `json:"notificationType,omitempty"`
	Message          string         `json:"message,omitempty"`
}

// PermissionClass reports whether the frame must be answered with a decision
// frame on the same connection
func (f HookFrame) PermissionClass() bool {
	return f.Event == EventPermissionRequest
}
