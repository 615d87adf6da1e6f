package ui

import (
	"github.com/renato0307/farol/internal/config"
)

// PermissionKeys defines key bindings for resolving pending permissions
type PermissionKeys struct {
	Allow   KeyWithTip
	Deny    KeyWithTip
	Respond KeyWithTip
}

// SessionKeys defines key bindings for acting on sessions
type SessionKeys struct {
	Dismiss KeyWithTip
	Kill    KeyWithTip
}

// newPermissionKeys creates permission key bindings
func newPermissionKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) PermissionKeys {
	return PermissionKeys{
		Allow:   buildBinding("allow", defaults, customKeys),
		Deny:    buildBinding("deny", defaults, customKeys),
		Respond: buildBinding("respond", defaults, customKeys),
	}
}

// newSessionKeys creates session key bindings
func newSessionKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) SessionKeys {
	return SessionKeys{
		Dismiss: buildBinding("dismiss", defaults, customKeys),
		Kill:    buildBinding("kill", defaults, customKeys),
	}
}
