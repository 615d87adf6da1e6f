package server

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"

	"github.com/renato0307/farol/internal/config"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/ui"
)

const defaultErrorClearDelay = 10 * time.Second

// sessionModel wraps ui.Model to release the engine subscription when the
// SSH session ends
type sessionModel struct {
	*ui.Model
	sessionID string
	startTime time.Time
}

func (s *sessionModel) Init() tea.Cmd {
	return s.Model.Init()
}

func (s *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Check for quit message to trigger cleanup
	if _, ok := msg.(tea.QuitMsg); ok {
		s.Model.Close()
		logging.Logger.Info("SSH session ended",
			"session_id", s.sessionID,
			"duration", time.Since(s.startTime).String())
	}

	updatedModel, cmd := s.Model.Update(msg)
	if m, ok := updatedModel.(*ui.Model); ok {
		s.Model = m
	}
	return s, cmd
}

func (s *sessionModel) View() string {
	return s.Model.View()
}

// teaHandler creates a Bubbletea model for each SSH session
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	// Get PTY info
	pty, _, _ := sess.Pty()
	sessionID := fmt.Sprintf("%s@%s", sess.User(), sess.RemoteAddr().String())

	logging.Logger.Info("New SSH session",
		"session_id", sessionID,
		"user", sess.User(),
		"remote_addr", sess.RemoteAddr().String(),
		"term", pty.Term,
		"window", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

	if s.engine == nil {
		return errorModel{fmt.Errorf("no engine attached to SSH server")}, nil
	}

	// Get show timestamps
	showTimestamps := false
	if s.settings.ShowTimestamps != nil {
		showTimestamps = *s.settings.ShowTimestamps
	}

	// Build model config from the shared services. Each SSH session gets
	// its own engine subscription, released by sessionModel on quit.
	cfg := ui.ModelConfig{
		Control:         s.control,
		DevMode:         false, // SSH mode never uses dev mode
		Engine:          s.engine,
		ErrorClearDelay: defaultErrorClearDelay,
		Keys:            s.settings.Keys,
		PhaseConfig:     config.NewPhaseConfig(s.settings.PhaseColors),
		ShowTimestamps:  showTimestamps,
		Stats:           s.stats,
		Tips:            ui.DefaultTipsConfig(),
	}

	model := ui.NewModel(cfg)

	// Wrap model to handle cleanup
	wrappedModel := &sessionModel{
		Model:     model,
		sessionID: sessionID,
		startTime: time.Now(),
	}

	return wrappedModel, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// errorModel is a simple model that displays an error
type errorModel struct {
	err error
}

func (e errorModel) Init() tea.Cmd {
	return nil
}

func (e errorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return e, tea.Quit
}

func (e errorModel) View() string {
	return fmt.Sprintf("Error: %v\n", e.err)
}
