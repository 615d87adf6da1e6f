package domain

import "errors"

var (
	ErrMissingSessionID    = errors.New("frame has no session id")
	ErrNoPendingPermission = errors.New("no pending permission request")
	ErrNotConnected        = errors.New("session has no registered connection")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnknownAgent        = errors.New("unknown agent family")
)
