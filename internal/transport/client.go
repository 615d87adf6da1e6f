package transport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/ports"
)

const defaultDialTimeout = 2 * time.Second

// Client sends frames to a running farol instance over the unix socket
type Client struct {
	dialTimeout time.Duration
	socketPath  string
}

// Conn bundles a registered connection with the scanner that yields the
// control frames routed back on it
type Conn struct {
	Conn    net.Conn
	Scanner *bufio.Scanner
}

// Close closes the underlying connection
func (c *Conn) Close() error {
	return c.Conn.Close()
}

var _ ports.EventSender = (*Client)(nil)

// NewClient creates a new Client
func NewClient(socketPath string) *Client {
	return &Client{
		dialTimeout: defaultDialTimeout,
		socketPath:  socketPath,
	}
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	return conn, nil
}

// Send delivers a fire-and-forget frame
func (c *Client) Send(frame domain.HookFrame) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()
	return writeLine(conn, frame)
}

// SendPermission delivers a permission-class frame and blocks until the
// decision line arrives or the timeout expires. Timeouts and transport errors
// return ask alongside the error, never deny.
func (c *Client) SendPermission(frame domain.HookFrame, timeout time.Duration) (domain.Decision, error) {
	conn, err := c.dial()
	if err != nil {
		return domain.AskDecision(), err
	}
	defer conn.Close()

	if err := writeLine(conn, frame); err != nil {
		return domain.AskDecision(), fmt.Errorf("write failed: %w", err)
	}
	if timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return domain.AskDecision(), fmt.Errorf("no decision: %w", err)
	}
	var decision domain.Decision
	if err := json.Unmarshal(line, &decision); err != nil {
		return domain.AskDecision(), fmt.Errorf("malformed decision: %w", err)
	}
	return decision, nil
}

// Respond resolves a pending permission in the running instance. Returns
// false when nothing was pending.
func (c *Client) Respond(sessionID string, decision domain.Decision) (bool, error) {
	conn, err := c.dial()
	if err != nil {
		return false, err
	}
	defer conn.Close()

	frame := Frame{
		HookFrame:    domain.HookFrame{SessionID: sessionID, Event: domain.EventRespond},
		Decision:     string(decision.Behavior),
		Interrupt:    decision.Interrupt,
		Reason:       decision.Reason,
		UpdatedInput: decision.UpdatedInput,
	}
	if err := writeLine(conn, frame); err != nil {
		return false, fmt.Errorf("write failed: %w", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(c.dialTimeout))

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return false, fmt.Errorf("no ack: %w", err)
	}
	var ack Ack
	if err := json.Unmarshal(line, &ack); err != nil {
		return false, fmt.Errorf("malformed ack: %w", err)
	}
	return ack.OK, nil
}

// Snapshot returns the live session table of the running instance
func (c *Client) Snapshot() ([]domain.Session, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	frame := Frame{HookFrame: domain.HookFrame{Event: domain.EventSnapshot}}
	if err := writeLine(conn, frame); err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(c.dialTimeout))

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("no snapshot: %w", err)
	}
	var sessions []domain.Session
	if err := json.Unmarshal(line, &sessions); err != nil {
		return nil, fmt.Errorf("malformed snapshot: %w", err)
	}
	return sessions, nil
}

// Register opens a long-lived connection for a launched session. The returned
// scanner yields control frames (stdin, resize, kill) routed back by the
// server; the caller owns closing the connection.
func (c *Client) Register(frame domain.HookFrame) (net.Conn, *bufio.Scanner, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, nil, err
	}

	frame.Event = domain.EventRegister
	if err := writeLine(conn, frame); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("write failed: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	// Increase buffer size for large lines
	buf := make([]byte, 0, 1024*1024) // 1MB buffer
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line size
	return conn, scanner, nil
}
