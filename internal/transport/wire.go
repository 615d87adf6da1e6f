package transport

import (
	"encoding/json"
	"net"

	"github.com/renato0307/farol/internal/domain"
)

// Frame is the on-wire superset of the canonical hook frame. Control events
// (register, respond, stdin, resize, kill, snapshot) ride the same socket and
// carry their extra fields here; hook adapters only ever fill the embedded
// part.
type Frame struct {
	domain.HookFrame

	// respond
	Decision     string         `json:"decision,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	UpdatedInput map[string]any `json:"updatedInput,omitempty"`
	Interrupt    bool           `json:"interrupt,omitempty"`

	// stdin
	Data string `json:"data,omitempty"`

	// resize
	Cols int `json:"cols,omitempty"`
	Rows int `json:"rows,omitempty"`
}

// Ack is the single response line for control frames
type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// WriteFrame writes one frame on an established connection. The launcher
// uses it to report status over its registration connection.
func WriteFrame(conn net.Conn, frame Frame) error {
	return writeLine(conn, frame)
}

// writeLine marshals v and writes it as one newline-terminated JSON line
func writeLine(conn net.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = conn.Write(append(data, '\n'))
	return err
}
