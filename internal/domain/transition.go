package domain

// TransitionKind classifies the change notified to engine subscribers
type TransitionKind string

const (
	TransitionAdd                TransitionKind = "add"
	TransitionUpdate             TransitionKind = "update"
	TransitionRemove             TransitionKind = "remove"
	TransitionPhaseChange        TransitionKind = "phaseChange"
	TransitionPermissionRequest  TransitionKind = "permissionRequest"
	TransitionPermissionResolved TransitionKind = "permissionResolved"
)

// Transition is one change notification. Session is a copy taken at the time
// of the change so subscribers never observe later mutations.
type Transition struct {
	Kind    TransitionKind
	Session Session
}

// PhaseFor maps a frame to its target phase per the transition table. The
// second return is false when the frame does not move the phase.
func PhaseFor(frame HookFrame) (Phase, bool) {
	switch frame.Event {
	case EventUserPromptSubmit:
		return PhaseProcessing, true
	case EventPreToolUse:
		return PhaseRunningTool, true
	case EventPostToolUse:
		return PhaseProcessing, true
	case EventPermissionRequest:
		if IsQuestionTool(frame.Agent, frame.Tool) {
			return PhaseWaitingForInput, true
		}
		return PhaseWaitingForApproval, true
	case EventNotification:
		if frame.NotificationType == NotificationIdlePrompt {
			return PhaseWaitingForInput, true
		}
		// Watcher and launcher notifications carry the phase in status.
		if phase := Phase(frame.Status); phase.Valid() {
			return phase, true
		}
		return "", false
	case EventStop, EventSubagentStop, EventSessionStart:
		return PhaseWaitingForInput, true
	case EventSessionEnd:
		return PhaseEnded, true
	case EventPreCompact:
		return PhaseCompacting, true
	}
	return "", false
}
