package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/services"
)

// Server accepts hook adapter and launcher connections on the unix socket and
// routes their frames into the engine. One server per running instance.
type Server struct {
	engine     *services.Engine
	listener   net.Listener
	mu         sync.Mutex
	registry   map[string]net.Conn
	socketPath string
	stopOnce   sync.Once
	stopped    bool
}

// NewServer creates a new Server
func NewServer(socketPath string, engine *services.Engine) *Server {
	return &Server{
		engine:     engine,
		registry:   make(map[string]net.Conn),
		socketPath: socketPath,
	}
}

// Listen binds the unix socket, replacing a stale one from a previous run.
// The socket directory is private to the user.
func (s *Server) Listen() error {
	if _, err := os.Stat(s.socketPath); err == nil {
		if err := os.Remove(s.socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.listener = listener
	logging.Logger.Info("Listening on socket", "path", s.socketPath)
	return nil
}

// Serve accepts connections until Close is called. Call Listen first.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting, closes registered connections, and removes the
// socket file. Safe to call more than once.
func (s *Server) Close() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		for id, conn := range s.registry {
			_ = conn.Close()
			delete(s.registry, id)
		}
		s.mu.Unlock()

		if s.listener != nil {
			_ = s.listener.Close()
		}
		_ = os.Remove(s.socketPath)
	})
	return nil
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	defer s.unregisterConn(conn)

	scanner := bufio.NewScanner(conn)
	// Increase buffer size for large lines
	buf := make([]byte, 0, 1024*1024) // 1MB buffer
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line size

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var frame Frame
		if err := json.Unmarshal(line, &frame); err != nil {
			logging.Logger.Warn("Dropping malformed frame", "error", err)
			continue
		}
		s.dispatch(conn, frame)
	}
	if err := scanner.Err(); err != nil {
		logging.Logger.Debug("Connection read ended", "error", err)
	}
}

func (s *Server) dispatch(conn net.Conn, frame Frame) {
	switch frame.Event {
	case domain.EventRegister:
		s.register(frame.SessionID, conn)
		if _, err := s.engine.Register(frame.HookFrame); err != nil {
			logging.Logger.Warn("Dropping register frame", "error", err)
		}

	case domain.EventRespond:
		decision := domain.Decision{
			Behavior:     domain.DecisionBehavior(frame.Decision),
			Interrupt:    frame.Interrupt,
			Reason:       frame.Reason,
			UpdatedInput: frame.UpdatedInput,
		}
		ok := s.engine.Respond(frame.SessionID, decision)
		if err := writeLine(conn, Ack{OK: ok}); err != nil {
			logging.Logger.Debug("Failed to ack respond", "error", err)
		}

	case domain.EventSnapshot:
		if err := writeLine(conn, s.engine.Sessions()); err != nil {
			logging.Logger.Debug("Failed to write snapshot", "error", err)
		}

	case domain.EventStdin, domain.EventResize, domain.EventKill:
		err := s.route(frame)
		ack := Ack{OK: err == nil}
		if err != nil {
			ack.Error = err.Error()
		}
		if err := writeLine(conn, ack); err != nil {
			logging.Logger.Debug("Failed to ack routed frame", "error", err)
		}

	case domain.EventPermissionRequest:
		// The permission connection doubles as the session's registration.
		s.register(frame.SessionID, conn)
		_, decisionCh, err := s.engine.ApplyPermission(frame.HookFrame)
		if err != nil {
			logging.Logger.Warn("Dropping permission frame", "error", err)
			return
		}
		if decisionCh == nil {
			// Question tool: fire-and-forget, the adapter is not waiting.
			return
		}
		decision := <-decisionCh
		if err := writeLine(conn, decision); err != nil {
			logging.Logger.Warn("Failed to write decision",
				"session", frame.SessionID, "error", err)
		}

	default:
		if _, err := s.engine.Apply(frame.HookFrame); err != nil {
			logging.Logger.Warn("Dropping hook frame",
				"event", frame.Event, "error", err)
		}
	}
}

// SendStdin routes keystrokes down a registered session connection
func (s *Server) SendStdin(sessionID, data string) error {
	return s.route(Frame{
		HookFrame: domain.HookFrame{SessionID: sessionID, Event: domain.EventStdin},
		Data:      data,
	})
}

// SendResize routes a terminal resize down a registered session connection
func (s *Server) SendResize(sessionID string, cols, rows int) error {
	return s.route(Frame{
		HookFrame: domain.HookFrame{SessionID: sessionID, Event: domain.EventResize},
		Cols:      cols,
		Rows:      rows,
	})
}

// SendKill asks a registered session's launcher to terminate the agent
func (s *Server) SendKill(sessionID string) error {
	return s.route(Frame{
		HookFrame: domain.HookFrame{SessionID: sessionID, Event: domain.EventKill},
	})
}

// route forwards a control frame to the connection registered for its
// session. A missing or dead connection is an error, never a panic.
func (s *Server) route(frame Frame) error {
	s.mu.Lock()
	conn, ok := s.registry[frame.SessionID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotConnected, frame.SessionID)
	}

	if err := writeLine(conn, frame); err != nil {
		s.unregisterConn(conn)
		return fmt.Errorf("session connection is dead: %w", err)
	}
	return nil
}

func (s *Server) register(sessionID string, conn net.Conn) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry[sessionID] = conn
}

func (s *Server) unregisterConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, registered := range s.registry {
		if registered == conn {
			delete(s.registry, id)
		}
	}
}
