package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
)

const (
	// defaultRetention is how long ended sessions stay in the live table
	defaultRetention = 5 * time.Minute

	// defaultSweepInterval is how often the sweeper looks for purgeable sessions
	defaultSweepInterval = 60 * time.Second

	// subscriberBuffer bounds each subscriber channel; slow consumers drop
	// transitions rather than block the engine
	subscriberBuffer = 64

	// maxTitleLen bounds the derived session title
	maxTitleLen = 80
)

// EngineConfig tunes retention and sweeping
type EngineConfig struct {
	Retention     time.Duration
	SweepInterval time.Duration
}

// Engine is the session state machine. It holds the live session table,
// applies canonical hook frames to it, tracks pending permission requests,
// and fans transitions out to subscribers.
type Engine struct {
	config      EngineConfig
	mu          sync.RWMutex
	sessions    map[string]*domain.Session
	stopOnce    sync.Once
	stopped     bool
	stopCh      chan struct{}
	subscribers map[int]chan domain.Transition
	subSeq      int
	waiters     map[string]chan domain.Decision
}

// NewEngine creates a new Engine. Zero config fields get defaults.
func NewEngine(config EngineConfig) *Engine {
	if config.Retention <= 0 {
		config.Retention = defaultRetention
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = defaultSweepInterval
	}
	return &Engine{
		config:      config,
		sessions:    make(map[string]*domain.Session),
		stopCh:      make(chan struct{}),
		subscribers: make(map[int]chan domain.Transition),
		waiters:     make(map[string]chan domain.Decision),
	}
}

// Start launches the periodic sweeper. Call Stop to halt it.
func (e *Engine) Start() {
	go func() {
		ticker := time.NewTicker(e.config.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.sweep(time.Now())
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop halts the sweeper, resolves all in-flight permission waiters with ask,
// and closes subscriber channels. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopCh)

		e.mu.Lock()
		defer e.mu.Unlock()
		e.stopped = true
		for id, ch := range e.waiters {
			deliver(ch, domain.AskDecision())
			delete(e.waiters, id)
		}
		for id, ch := range e.subscribers {
			close(ch)
			delete(e.subscribers, id)
		}
	})
}

// Subscribe returns a channel of transitions and a cancel function. The
// channel is buffered; transitions are dropped, not blocked on, when the
// subscriber falls behind.
func (e *Engine) Subscribe() (<-chan domain.Transition, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan domain.Transition, subscriberBuffer)
	if e.stopped {
		close(ch)
		return ch, func() {}
	}

	id := e.subSeq
	e.subSeq++
	e.subscribers[id] = ch

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Apply processes one canonical hook frame: upserts the session, moves its
// phase per the transition table, and notifies subscribers. Permission-class
// frames create or replace the pending request; the transport side should use
// ApplyPermission to also obtain the decision channel.
func (e *Engine) Apply(frame domain.HookFrame) (domain.Transition, error) {
	transition, _, err := e.apply(frame)
	return transition, err
}

// ApplyPermission is Apply for permission-class frames. The returned channel
// carries exactly one decision: the response, or ask when the request is
// superseded or the engine stops.
func (e *Engine) ApplyPermission(frame domain.HookFrame) (domain.Transition, <-chan domain.Decision, error) {
	return e.apply(frame)
}

func (e *Engine) apply(frame domain.HookFrame) (domain.Transition, <-chan domain.Decision, error) {
	if frame.SessionID == "" {
		return domain.Transition{}, nil, domain.ErrMissingSessionID
	}
	if !frame.Agent.Valid() {
		return domain.Transition{}, nil, domain.ErrUnknownAgent
	}

	// A richer PermissionRequest frame always accompanies this subtype.
	if frame.Event == domain.EventNotification &&
		frame.NotificationType == domain.NotificationPermissionPrompt {
		logging.Logger.Debug("Suppressing permission-prompt notification",
			"session", frame.SessionID)
		return domain.Transition{}, nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	session, exists := e.sessions[frame.SessionID]
	if !exists {
		session = &domain.Session{
			ID:        frame.SessionID,
			Agent:     frame.Agent,
			Phase:     domain.PhaseIdle,
			StartedAt: now,
		}
		e.sessions[frame.SessionID] = session
	}
	previousPhase := session.Phase
	session.LastActivity = now
	if frame.CWD != "" {
		session.CWD = frame.CWD
	}
	if frame.PID != 0 {
		session.PID = frame.PID
	}
	if frame.TTY != "" {
		session.TTY = frame.TTY
	}
	if frame.Event == domain.EventUserPromptSubmit && frame.Message != "" {
		session.Title = titleFrom(frame.Message)
	}
	session.RecordActivity(domain.ActivityEntry{
		Event:   frame.Event,
		Message: frame.Message,
		Time:    now,
		Tool:    frame.Tool,
	})

	kind := domain.TransitionUpdate
	if !exists {
		kind = domain.TransitionAdd
	}

	var decisionCh chan domain.Decision
	if frame.PermissionClass() && !domain.IsQuestionTool(frame.Agent, frame.Tool) {
		// Supersede: the old waiter resolves ask, never leaks.
		if old, ok := e.waiters[frame.SessionID]; ok {
			deliver(old, domain.AskDecision())
			logging.Logger.Debug("Superseding pending permission",
				"session", frame.SessionID, "tool", frame.Tool)
		}
		session.Permission = &domain.PermissionRequest{
			CreatedAt: now,
			ToolInput: frame.ToolInput,
			ToolName:  frame.Tool,
			ToolUseID: frame.ToolUseID,
		}
		decisionCh = make(chan domain.Decision, 1)
		e.waiters[frame.SessionID] = decisionCh
		kind = domain.TransitionPermissionRequest
	}

	if phase, ok := domain.PhaseFor(frame); ok {
		if phase != previousPhase && kind == domain.TransitionUpdate {
			kind = domain.TransitionPhaseChange
		}
		session.Phase = phase
	}

	if frame.Event == domain.EventSessionEnd {
		session.EndedAt = now
		// The agent process is gone; any outstanding approval resolves ask.
		if old, ok := e.waiters[frame.SessionID]; ok {
			deliver(old, domain.AskDecision())
			delete(e.waiters, frame.SessionID)
		}
		session.Permission = nil
	}

	transition := domain.Transition{Kind: kind, Session: snapshotSession(session)}
	e.notifyLocked(transition)
	return transition, decisionCh, nil
}

// Register upserts a session from a launch registration frame without moving
// its phase. The dashboard sees the session before any hook fires.
func (e *Engine) Register(frame domain.HookFrame) (domain.Transition, error) {
	if frame.SessionID == "" {
		return domain.Transition{}, domain.ErrMissingSessionID
	}
	if !frame.Agent.Valid() {
		return domain.Transition{}, domain.ErrUnknownAgent
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	session, exists := e.sessions[frame.SessionID]
	if !exists {
		session = &domain.Session{
			ID:        frame.SessionID,
			Agent:     frame.Agent,
			Phase:     domain.PhaseIdle,
			StartedAt: now,
		}
		e.sessions[frame.SessionID] = session
	}
	session.LastActivity = now
	if frame.CWD != "" {
		session.CWD = frame.CWD
	}
	if frame.PID != 0 {
		session.PID = frame.PID
	}
	if frame.TTY != "" {
		session.TTY = frame.TTY
	}
	// The launcher passes a user-chosen session name in the message field
	if frame.Message != "" {
		session.Title = titleFrom(frame.Message)
	}

	kind := domain.TransitionUpdate
	if !exists {
		kind = domain.TransitionAdd
	}
	transition := domain.Transition{Kind: kind, Session: snapshotSession(session)}
	e.notifyLocked(transition)
	return transition, nil
}

// Respond resolves the pending permission request for a session. Returns
// false when nothing is pending.
func (e *Engine) Respond(sessionID string, decision domain.Decision) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[sessionID]
	if !ok || session.Permission == nil {
		return false
	}
	session.Permission = nil
	session.LastActivity = time.Now()

	if ch, ok := e.waiters[sessionID]; ok {
		deliver(ch, decision)
		delete(e.waiters, sessionID)
	}

	logging.Logger.Info("Permission resolved",
		"session", sessionID, "decision", decision.Behavior)
	e.notifyLocked(domain.Transition{
		Kind:    domain.TransitionPermissionResolved,
		Session: snapshotSession(session),
	})
	return true
}

// Get returns a copy of the session
func (e *Engine) Get(sessionID string) (domain.Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	session, ok := e.sessions[sessionID]
	if !ok {
		return domain.Session{}, false
	}
	return snapshotSession(session), true
}

// Sessions returns copies of all live sessions ordered by start time
func (e *Engine) Sessions() []domain.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Session, 0, len(e.sessions))
	for _, session := range e.sessions {
		out = append(out, snapshotSession(session))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// PhaseCounts returns the number of live sessions per phase
func (e *Engine) PhaseCounts() map[domain.Phase]int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	counts := make(map[domain.Phase]int)
	for _, session := range e.sessions {
		counts[session.Phase]++
	}
	return counts
}

// Remove deletes a session from the live table, resolving any pending waiter
// with ask. Returns false when the session is unknown.
func (e *Engine) Remove(sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[sessionID]
	if !ok {
		return false
	}
	if ch, ok := e.waiters[sessionID]; ok {
		deliver(ch, domain.AskDecision())
		delete(e.waiters, sessionID)
	}
	delete(e.sessions, sessionID)
	e.notifyLocked(domain.Transition{
		Kind:    domain.TransitionRemove,
		Session: snapshotSession(session),
	})
	return true
}

// sweep purges ended sessions whose last activity exceeds the retention
// window. This is the only automatic deletion path.
func (e *Engine) sweep(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, session := range e.sessions {
		if session.Phase != domain.PhaseEnded {
			continue
		}
		if now.Sub(session.LastActivity) < e.config.Retention {
			continue
		}
		delete(e.sessions, id)
		logging.Logger.Debug("Purged ended session", "session", id)
		e.notifyLocked(domain.Transition{
			Kind:    domain.TransitionRemove,
			Session: snapshotSession(session),
		})
	}
}

// notifyLocked fans a transition out to subscribers. Callers hold e.mu.
func (e *Engine) notifyLocked(transition domain.Transition) {
	for _, ch := range e.subscribers {
		select {
		case ch <- transition:
		default:
			logging.Logger.Debug("Dropping transition for slow subscriber",
				"kind", transition.Kind, "session", transition.Session.ID)
		}
	}
}

// deliver sends without blocking; the channel is buffered with capacity 1 and
// written at most once, so a full buffer means the value is already there.
func deliver(ch chan domain.Decision, decision domain.Decision) {
	select {
	case ch <- decision:
	default:
	}
}

// snapshotSession copies a session so subscribers never observe later
// mutations
func snapshotSession(session *domain.Session) domain.Session {
	out := *session
	out.Activity = append([]domain.ActivityEntry(nil), session.Activity...)
	if session.Permission != nil {
		permission := *session.Permission
		out.Permission = &permission
	}
	return out
}

// titleFrom derives a session title from a prompt: first line, bounded length
func titleFrom(message string) string {
	title := message
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	title = strings.TrimSpace(title)
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen-1]) + "…"
	}
	return title
}
