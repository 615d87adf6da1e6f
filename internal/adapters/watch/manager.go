package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/transcript"
)

// debounceDelay coalesces bursts of transcript writes into one parse
const debounceDelay = 500 * time.Millisecond

// FrameSink receives the frames the watcher feeds back into the engine
type FrameSink interface {
	Apply(frame domain.HookFrame) (domain.Transition, error)
}

// Manager runs one transcript watcher per live session. Watchers tail the
// session's transcript through the incremental parser and report detected
// interruptions back to the engine as error-phase frames.
type Manager struct {
	mu       sync.Mutex
	parser   *transcript.Parser
	sink     FrameSink
	watchers map[string]*sessionWatcher
}

type sessionWatcher struct {
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewManager creates a new Manager
func NewManager(parser *transcript.Parser, sink FrameSink) *Manager {
	return &Manager{
		parser:   parser,
		sink:     sink,
		watchers: make(map[string]*sessionWatcher),
	}
}

// Run consumes engine transitions, starting a watcher for every session that
// appears and stopping it when the session ends or is removed. Returns when
// the channel closes.
func (m *Manager) Run(transitions <-chan domain.Transition) {
	for transition := range transitions {
		m.HandleTransition(transition)
	}
}

// HandleTransition reacts to one engine transition
func (m *Manager) HandleTransition(transition domain.Transition) {
	session := transition.Session

	switch transition.Kind {
	case domain.TransitionRemove:
		m.Stop(session.ID)
		m.parser.Remove(session.ID)
	case domain.TransitionPhaseChange:
		if session.Phase == domain.PhaseEnded {
			m.Stop(session.ID)
			return
		}
		m.ensureWatching(session)
	default:
		if session.Phase != domain.PhaseEnded {
			m.ensureWatching(session)
		}
	}
}

// ensureWatching starts a watcher unless one is already running. Retried on
// every transition because the transcript directory may not exist until the
// agent writes its first entry.
func (m *Manager) ensureWatching(session domain.Session) {
	if session.CWD == "" {
		return
	}
	if err := m.Watch(session.Agent, session.ID, session.CWD); err != nil {
		logging.Logger.Debug("Transcript watcher not started",
			"session_id", session.ID, "error", err)
	}
}

// Watch starts tailing the session's transcript. Starting an already watched
// session is a no-op.
func (m *Manager) Watch(agent domain.AgentFamily, sessionID, cwd string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.watchers[sessionID]; ok {
		return nil
	}

	path := m.parser.TranscriptPath(agent, sessionID, cwd)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch transcript directory: %w", err)
	}

	sw := &sessionWatcher{
		done:    make(chan struct{}),
		watcher: watcher,
	}
	m.watchers[sessionID] = sw

	logging.Logger.Debug("Transcript watcher started", "session_id", sessionID, "path", path)
	go m.run(sw, agent, sessionID, cwd, path)

	return nil
}

// run is the per-session event loop
func (m *Manager) run(sw *sessionWatcher, agent domain.AgentFamily, sessionID, cwd, path string) {
	defer sw.watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	dir := filepath.Dir(path)
	for {
		select {
		case <-sw.done:
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			// A deleted transcript (or its whole directory) ends the watch
			if event.Op&fsnotify.Remove != 0 && (event.Name == path || event.Name == dir) {
				logging.Logger.Debug("Transcript removed, stopping watcher", "session_id", sessionID)
				m.Stop(sessionID)
				continue
			}

			if event.Name != path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: wait for the write burst to settle before parsing
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				m.parse(agent, sessionID, cwd)
			})

		case _, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// parse runs one incremental pass and feeds detected interruptions back into
// the engine
func (m *Manager) parse(agent domain.AgentFamily, sessionID, cwd string) {
	result := m.parser.ParseIncremental(agent, sessionID, cwd)
	if !result.InterruptDetected {
		return
	}

	logging.Logger.Info("Interrupt detected in transcript", "session_id", sessionID)

	frame := domain.HookFrame{
		Agent:     agent,
		CWD:       cwd,
		Event:     domain.EventNotification,
		Message:   "agent run interrupted by user",
		SessionID: sessionID,
		Status:    string(domain.PhaseError),
	}
	if _, err := m.sink.Apply(frame); err != nil {
		logging.Logger.Warn("Failed to report interrupt", "session_id", sessionID, "error", err)
	}
}

// Stop halts one session's watcher. Stopping an unknown session is a no-op.
func (m *Manager) Stop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sw, ok := m.watchers[sessionID]; ok {
		close(sw.done)
		delete(m.watchers, sessionID)
	}
}

// StopAll halts every watcher. Safe to call more than once.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, sw := range m.watchers {
		close(sw.done)
		delete(m.watchers, id)
	}
}

// Watching reports whether a session currently has a watcher
func (m *Manager) Watching(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.watchers[sessionID]
	return ok
}
