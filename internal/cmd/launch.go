package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/terminal"
	"github.com/renato0307/farol/internal/transport"
)

// LaunchCmd runs an agent CLI under a PTY. The wrapper registers the session
// with a running farol instance, classifies the agent's terminal output into
// coarse phases, and accepts stdin/resize/kill control frames routed back from
// the dashboard. Without a running instance it degrades to a plain PTY
// passthrough.
type LaunchCmd struct {
	Agent   string   `help:"Agent CLI to launch" default:"claude" enum:"claude,codex,gemini"`
	Session string   `help:"Session name shown on the dashboard"`
	Args    []string `arg:"" optional:"" help:"Additional arguments to pass to the agent CLI"`
}

// Run executes the launcher
func (l *LaunchCmd) Run(cli *CLI) error {
	binary, err := exec.LookPath(l.Agent)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", l.Agent, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	sessionID := uuid.New().String()
	logging.Logger.Info("Launching agent",
		"agent", l.Agent, "session_id", sessionID, "args", l.Args)

	agentCmd := exec.Command(binary, l.Args...)
	ptmx, err := pty.Start(agentCmd)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", l.Agent, err)
	}
	defer ptmx.Close()

	// Propagate the controlling terminal's size, now and on every change
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				logging.Logger.Debug("Failed to inherit terminal size", "error", err)
			}
		}
	}()
	winch <- syscall.SIGWINCH

	restore := func() {}
	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		restore = func() { _ = term.Restore(stdinFd, oldState) }
	}
	defer restore()

	conn := l.register(cli, sessionID, cwd, agentCmd.Process.Pid)
	if conn != nil {
		defer conn.Close()
		go l.consumeControlFrames(conn, ptmx, agentCmd)
	}

	go func() {
		_, _ = io.Copy(ptmx, os.Stdin)
	}()

	l.streamOutput(cli, conn, ptmx, sessionID, cwd)

	exitCode := 0
	if err := agentCmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			logging.Logger.Warn("Agent wait failed", "error", err)
		}
	}

	if conn != nil {
		l.reportFrame(conn, domain.HookFrame{
			SessionID: sessionID,
			CWD:       cwd,
			Event:     domain.EventSessionEnd,
			Agent:     domain.AgentFamily(l.Agent),
		})
	}

	logging.Logger.Info("Agent exited",
		"agent", l.Agent, "session_id", sessionID, "exit_code", exitCode)
	if exitCode != 0 {
		restore()
		os.Exit(exitCode)
	}
	return nil
}

// register opens the long-lived registration connection. A missing instance
// is not an error; the launcher keeps working without a dashboard.
func (l *LaunchCmd) register(cli *CLI, sessionID, cwd string, pid int) *transport.Conn {
	client := transport.NewClient(cli.socketPath())

	frame := domain.HookFrame{
		SessionID: sessionID,
		CWD:       cwd,
		Agent:     domain.AgentFamily(l.Agent),
		PID:       pid,
		TTY:       controllingTTY(),
		Message:   l.Session,
	}
	conn, scanner, err := client.Register(frame)
	if err != nil {
		logging.Logger.Warn("No running farol instance, launching unmanaged", "error", err)
		return nil
	}
	return &transport.Conn{Conn: conn, Scanner: scanner}
}

// consumeControlFrames applies stdin/resize/kill frames routed back by the
// dashboard to the PTY and the agent process
func (l *LaunchCmd) consumeControlFrames(conn *transport.Conn, ptmx *os.File, agentCmd *exec.Cmd) {
	for conn.Scanner.Scan() {
		line := bytes.TrimSpace(conn.Scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var frame transport.Frame
		if err := json.Unmarshal(line, &frame); err != nil {
			logging.Logger.Debug("Dropping malformed control frame", "error", err)
			continue
		}

		switch frame.Event {
		case domain.EventStdin:
			if _, err := io.WriteString(ptmx, frame.Data); err != nil {
				logging.Logger.Debug("Failed to forward stdin", "error", err)
			}
		case domain.EventResize:
			size := &pty.Winsize{Rows: uint16(frame.Rows), Cols: uint16(frame.Cols)}
			if err := pty.Setsize(ptmx, size); err != nil {
				logging.Logger.Debug("Failed to resize PTY", "error", err)
			}
		case domain.EventKill:
			logging.Logger.Info("Kill requested from dashboard", "pid", agentCmd.Process.Pid)
			if err := agentCmd.Process.Signal(syscall.SIGTERM); err != nil {
				logging.Logger.Warn("Failed to signal agent", "error", err)
			}
		}
	}
}

// streamOutput copies agent output to the user's terminal while feeding the
// status detector. Phase changes are reported as notification frames carrying
// the phase in the status field.
func (l *LaunchCmd) streamOutput(cli *CLI, conn *transport.Conn, ptmx *os.File, sessionID, cwd string) {
	detectorConfig := terminal.DetectorConfig{}
	if cli.settings != nil && cli.settings.WatchDebounceMs != nil {
		detectorConfig.Debounce = time.Duration(*cli.settings.WatchDebounceMs) * time.Millisecond
	}
	detector := terminal.NewDetector(terminal.ProfileFor(l.Agent), detectorConfig)
	lastStatus := terminal.StatusIdle

	buf := make([]byte, 32*1024)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if _, err := os.Stdout.Write(chunk); err != nil {
				return
			}
			if conn == nil {
				continue
			}
			detection := detector.Detect(string(chunk))
			if detection.Status == lastStatus {
				continue
			}
			lastStatus = detection.Status
			phase, ok := phaseForStatus(detection.Status)
			if !ok {
				continue
			}
			l.reportFrame(conn, domain.HookFrame{
				SessionID: sessionID,
				CWD:       cwd,
				Event:     domain.EventNotification,
				Status:    string(phase),
				Agent:     domain.AgentFamily(l.Agent),
			})
		}
		if err != nil {
			// EOF (or EIO on linux) when the agent exits
			return
		}
	}
}

// reportFrame writes a frame on the registration connection, logging instead
// of failing when the dashboard is gone
func (l *LaunchCmd) reportFrame(conn *transport.Conn, frame domain.HookFrame) {
	if err := transport.WriteFrame(conn.Conn, transport.Frame{HookFrame: frame}); err != nil {
		logging.Logger.Debug("Failed to report frame", "event", frame.Event, "error", err)
	}
}

// phaseForStatus maps output-derived statuses to session phases. Output
// classification is a weaker signal than hooks, so unknown statuses map to
// nothing rather than guessing.
func phaseForStatus(status string) (domain.Phase, bool) {
	switch status {
	case terminal.StatusIdle:
		return domain.PhaseIdle, true
	case terminal.StatusThinking:
		return domain.PhaseProcessing, true
	case terminal.StatusWorking:
		return domain.PhaseRunningTool, true
	case terminal.StatusWaitingInput:
		return domain.PhaseWaitingForInput, true
	case terminal.StatusWaitingApproval:
		return domain.PhaseWaitingForApproval, true
	case terminal.StatusError:
		return domain.PhaseError, true
	}
	return "", false
}

// controllingTTY resolves the terminal the launcher is attached to. Linux
// only; elsewhere the field stays empty.
func controllingTTY() string {
	if link, err := os.Readlink("/proc/self/fd/0"); err == nil {
		return link
	}
	return ""
}
