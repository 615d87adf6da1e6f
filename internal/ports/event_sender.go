package ports

import (
	"time"

	"github.com/renato0307/farol/internal/domain"
)

// EventSender delivers hook frames to a running farol instance
type EventSender interface {
	// Send delivers a fire-and-forget frame. The connection is closed as soon
	// as the frame is written.
	Send(frame domain.HookFrame) error

	// SendPermission delivers a permission-class frame and waits up to timeout
	// for the decision line. Timeout and transport errors degrade to ask,
	// never to deny.
	SendPermission(frame domain.HookFrame, timeout time.Duration) (domain.Decision, error)
}
