package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/farol/internal/domain"
)

func testFrame(event domain.EventKind) domain.HookFrame {
	return domain.HookFrame{
		SessionID: "sess-1",
		Agent:     domain.AgentClaude,
		CWD:       "/home/dev/project",
		Event:     event,
	}
}

func receiveDecision(t *testing.T, ch <-chan domain.Decision) domain.Decision {
	t.Helper()
	select {
	case decision := <-ch:
		return decision
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for decision")
		return domain.Decision{}
	}
}

func receiveTransition(t *testing.T, ch <-chan domain.Transition) domain.Transition {
	t.Helper()
	select {
	case transition := <-ch:
		return transition
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for transition")
		return domain.Transition{}
	}
}

func TestApplyTransitionTable(t *testing.T) {
	tests := []struct {
		name  string
		frame domain.HookFrame
		phase domain.Phase
	}{
		{
			name:  "user prompt starts processing",
			frame: testFrame(domain.EventUserPromptSubmit),
			phase: domain.PhaseProcessing,
		},
		{
			name:  "pre tool use runs tool",
			frame: testFrame(domain.EventPreToolUse),
			phase: domain.PhaseRunningTool,
		},
		{
			name:  "post tool use back to processing",
			frame: testFrame(domain.EventPostToolUse),
			phase: domain.PhaseProcessing,
		},
		{
			name: "permission request waits for approval",
			frame: func() domain.HookFrame {
				f := testFrame(domain.EventPermissionRequest)
				f.Tool = "Bash"
				return f
			}(),
			phase: domain.PhaseWaitingForApproval,
		},
		{
			name: "question tool waits for input",
			frame: func() domain.HookFrame {
				f := testFrame(domain.EventPermissionRequest)
				f.Tool = "AskUserQuestion"
				return f
			}(),
			phase: domain.PhaseWaitingForInput,
		},
		{
			name: "idle prompt notification waits for input",
			frame: func() domain.HookFrame {
				f := testFrame(domain.EventNotification)
				f.NotificationType = domain.NotificationIdlePrompt
				return f
			}(),
			phase: domain.PhaseWaitingForInput,
		},
		{
			name:  "session start waits for input",
			frame: testFrame(domain.EventSessionStart),
			phase: domain.PhaseWaitingForInput,
		},
		{
			name:  "stop waits for input",
			frame: testFrame(domain.EventStop),
			phase: domain.PhaseWaitingForInput,
		},
		{
			name:  "subagent stop waits for input",
			frame: testFrame(domain.EventSubagentStop),
			phase: domain.PhaseWaitingForInput,
		},
		{
			name:  "session end is terminal",
			frame: testFrame(domain.EventSessionEnd),
			phase: domain.PhaseEnded,
		},
		{
			name:  "pre compact compacts",
			frame: testFrame(domain.EventPreCompact),
			phase: domain.PhaseCompacting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(EngineConfig{})

			transition, err := engine.Apply(tt.frame)
			require.NoError(t, err)

			assert.Equal(t, tt.phase, transition.Session.Phase)
			session, ok := engine.Get("sess-1")
			require.True(t, ok)
			assert.Equal(t, tt.phase, session.Phase)
		})
	}
}

func TestApplyPermissionPromptSuppressed(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventNotification)
	f.NotificationType = domain.NotificationPermissionPrompt

	transition, err := engine.Apply(f)
	require.NoError(t, err)

	assert.Empty(t, transition.Kind)
	_, ok := engine.Get("sess-1")
	assert.False(t, ok, "suppressed notification should not create a session")
}

func TestApplyNotificationStatusMovesPhase(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventNotification)
	f.Status = string(domain.PhaseError)
	f.Message = "tool interrupted"

	transition, err := engine.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseError, transition.Session.Phase)

	f.Status = "not-a-phase"
	transition, err = engine.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseError, transition.Session.Phase, "unknown status should not move the phase")
}

func TestApplyTransitionKinds(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	transition, err := engine.Apply(testFrame(domain.EventUserPromptSubmit))
	require.NoError(t, err)
	assert.Equal(t, domain.TransitionAdd, transition.Kind, "first sight is add")

	transition, err = engine.Apply(testFrame(domain.EventPreToolUse))
	require.NoError(t, err)
	assert.Equal(t, domain.TransitionPhaseChange, transition.Kind)

	transition, err = engine.Apply(testFrame(domain.EventPreToolUse))
	require.NoError(t, err)
	assert.Equal(t, domain.TransitionUpdate, transition.Kind, "same phase is update")
}

func TestApplyRejectsInvalidFrames(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventStop)
	f.SessionID = ""
	_, err := engine.Apply(f)
	assert.ErrorIs(t, err, domain.ErrMissingSessionID)

	f = testFrame(domain.EventStop)
	f.Agent = "cursor"
	_, err = engine.Apply(f)
	assert.ErrorIs(t, err, domain.ErrUnknownAgent)
}

func TestApplyPermissionCreatesPendingRequest(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventPermissionRequest)
	f.Tool = "Bash"
	f.ToolInput = map[string]any{"command": "rm -rf build"}
	f.ToolUseID = "toolu_1"

	transition, ch, err := engine.ApplyPermission(f)
	require.NoError(t, err)
	require.NotNil(t, ch)

	assert.Equal(t, domain.TransitionPermissionRequest, transition.Kind)
	require.NotNil(t, transition.Session.Permission)
	assert.Equal(t, "Bash", transition.Session.Permission.ToolName)
	assert.Equal(t, "toolu_1", transition.Session.Permission.ToolUseID)
}

func TestApplyPermissionQuestionToolSkipsPending(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventPermissionRequest)
	f.Tool = "ExitPlanMode"

	transition, ch, err := engine.ApplyPermission(f)
	require.NoError(t, err)

	assert.Nil(t, ch, "question tools never block on a decision")
	assert.Nil(t, transition.Session.Permission)
	assert.Equal(t, domain.PhaseWaitingForInput, transition.Session.Phase)
}

func TestPermissionSupersededResolvesAsk(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	first := testFrame(domain.EventPermissionRequest)
	first.Tool = "Bash"
	first.ToolUseID = "toolu_1"
	_, firstCh, err := engine.ApplyPermission(first)
	require.NoError(t, err)

	second := testFrame(domain.EventPermissionRequest)
	second.Tool = "Write"
	second.ToolUseID = "toolu_2"
	_, secondCh, err := engine.ApplyPermission(second)
	require.NoError(t, err)

	decision := receiveDecision(t, firstCh)
	assert.Equal(t, domain.DecisionAsk, decision.Behavior, "superseded waiter resolves ask")

	session, ok := engine.Get("sess-1")
	require.True(t, ok)
	require.NotNil(t, session.Permission, "newest request stays pending")
	assert.Equal(t, "toolu_2", session.Permission.ToolUseID)

	require.True(t, engine.Respond("sess-1", domain.Decision{Behavior: domain.DecisionAllow}))
	decision = receiveDecision(t, secondCh)
	assert.Equal(t, domain.DecisionAllow, decision.Behavior)
}

func TestRespond(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	updates, cancel := engine.Subscribe()
	defer cancel()

	f := testFrame(domain.EventPermissionRequest)
	f.Tool = "Bash"
	_, ch, err := engine.ApplyPermission(f)
	require.NoError(t, err)
	receiveTransition(t, updates)

	ok := engine.Respond("sess-1", domain.Decision{
		Behavior: domain.DecisionDeny,
		Reason:   "not in this repo",
	})
	require.True(t, ok)

	decision := receiveDecision(t, ch)
	assert.Equal(t, domain.DecisionDeny, decision.Behavior)
	assert.Equal(t, "not in this repo", decision.Reason)

	transition := receiveTransition(t, updates)
	assert.Equal(t, domain.TransitionPermissionResolved, transition.Kind)
	assert.Nil(t, transition.Session.Permission)

	assert.False(t, engine.Respond("sess-1", domain.Decision{Behavior: domain.DecisionAllow}),
		"second respond has nothing pending")
}

func TestRespondWithoutPending(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	assert.False(t, engine.Respond("ghost", domain.Decision{Behavior: domain.DecisionAllow}))

	_, err := engine.Apply(testFrame(domain.EventStop))
	require.NoError(t, err)
	assert.False(t, engine.Respond("sess-1", domain.Decision{Behavior: domain.DecisionAllow}))
}

func TestSessionEndResolvesWaiter(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventPermissionRequest)
	f.Tool = "Bash"
	_, ch, err := engine.ApplyPermission(f)
	require.NoError(t, err)

	_, err = engine.Apply(testFrame(domain.EventSessionEnd))
	require.NoError(t, err)

	decision := receiveDecision(t, ch)
	assert.Equal(t, domain.DecisionAsk, decision.Behavior)

	session, ok := engine.Get("sess-1")
	require.True(t, ok)
	assert.Nil(t, session.Permission)
	assert.Equal(t, domain.PhaseEnded, session.Phase)
	assert.False(t, session.EndedAt.IsZero())
}

func TestSweepPurgesEndedSessions(t *testing.T) {
	engine := NewEngine(EngineConfig{Retention: time.Minute})
	updates, cancel := engine.Subscribe()
	defer cancel()

	_, err := engine.Apply(testFrame(domain.EventSessionEnd))
	require.NoError(t, err)
	receiveTransition(t, updates)

	live := testFrame(domain.EventUserPromptSubmit)
	live.SessionID = "sess-2"
	_, err = engine.Apply(live)
	require.NoError(t, err)
	receiveTransition(t, updates)

	engine.sweep(time.Now().Add(30 * time.Second))
	_, ok := engine.Get("sess-1")
	assert.True(t, ok, "inside retention window")

	engine.sweep(time.Now().Add(2 * time.Minute))
	_, ok = engine.Get("sess-1")
	assert.False(t, ok, "past retention window")
	_, ok = engine.Get("sess-2")
	assert.True(t, ok, "sweep only touches ended sessions")

	transition := receiveTransition(t, updates)
	assert.Equal(t, domain.TransitionRemove, transition.Kind)
	assert.Equal(t, "sess-1", transition.Session.ID)

	// The same id after purge is a new logical session.
	transition, err = engine.Apply(testFrame(domain.EventUserPromptSubmit))
	require.NoError(t, err)
	assert.Equal(t, domain.TransitionAdd, transition.Kind)
}

func TestStopResolvesInFlightWaiters(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventPermissionRequest)
	f.Tool = "Bash"
	_, ch, err := engine.ApplyPermission(f)
	require.NoError(t, err)

	engine.Stop()
	engine.Stop() // idempotent

	decision := receiveDecision(t, ch)
	assert.Equal(t, domain.DecisionAsk, decision.Behavior)
}

func TestRegister(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	transition, err := engine.Register(domain.HookFrame{
		SessionID: "sess-1",
		Agent:     domain.AgentCodex,
		CWD:       "/home/dev/project",
		Event:     domain.EventRegister,
		PID:       4242,
		TTY:       "/dev/pts/3",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TransitionAdd, transition.Kind)
	assert.Equal(t, domain.PhaseIdle, transition.Session.Phase)
	assert.Equal(t, 4242, transition.Session.PID)
	assert.Equal(t, "/dev/pts/3", transition.Session.TTY)
}

func TestRemove(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventPermissionRequest)
	f.Tool = "Bash"
	_, ch, err := engine.ApplyPermission(f)
	require.NoError(t, err)

	assert.True(t, engine.Remove("sess-1"))
	assert.False(t, engine.Remove("sess-1"))

	decision := receiveDecision(t, ch)
	assert.Equal(t, domain.DecisionAsk, decision.Behavior)
}

func TestSessionsOrderedAndCounted(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	for _, id := range []string{"c", "a", "b"} {
		f := testFrame(domain.EventUserPromptSubmit)
		f.SessionID = id
		_, err := engine.Apply(f)
		require.NoError(t, err)
	}
	end := testFrame(domain.EventSessionEnd)
	end.SessionID = "b"
	_, err := engine.Apply(end)
	require.NoError(t, err)

	sessions := engine.Sessions()
	require.Len(t, sessions, 3)

	counts := engine.PhaseCounts()
	assert.Equal(t, 2, counts[domain.PhaseProcessing])
	assert.Equal(t, 1, counts[domain.PhaseEnded])
}

func TestTitleDerivedFromPrompt(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventUserPromptSubmit)
	f.Message = "fix the flaky watcher test\nand add a regression case"
	transition, err := engine.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, "fix the flaky watcher test", transition.Session.Title)
}

func TestSnapshotsAreCopies(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	f := testFrame(domain.EventPermissionRequest)
	f.Tool = "Bash"
	transition, _, err := engine.ApplyPermission(f)
	require.NoError(t, err)

	transition.Session.Permission.ToolName = "mutated"
	transition.Session.Activity[0].Message = "mutated"

	session, ok := engine.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, "Bash", session.Permission.ToolName)
	assert.NotEqual(t, "mutated", session.Activity[0].Message)
}
