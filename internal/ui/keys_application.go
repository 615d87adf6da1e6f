package ui

import (
	"github.com/renato0307/farol/internal/config"
)

// ApplicationKeys defines key bindings for application-level actions
type ApplicationKeys struct {
	Activity       KeyWithTip
	CommandPalette KeyWithTip
	ForceQuit      KeyWithTip
	Help           KeyWithTip
	Quit           KeyWithTip
	Timestamps     KeyWithTip
	UsageChart     KeyWithTip
}

// newApplicationKeys creates application key bindings
func newApplicationKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) ApplicationKeys {
	return ApplicationKeys{
		Activity:       buildBinding("activity", defaults, customKeys),
		CommandPalette: buildBinding("command_palette", defaults, customKeys),
		ForceQuit:      buildBinding("force_quit", defaults, customKeys),
		Help:           buildBinding("help", defaults, customKeys),
		Quit:           buildBinding("quit", defaults, customKeys),
		Timestamps:     buildBinding("timestamps", defaults, customKeys),
		UsageChart:     buildBinding("usage_chart", defaults, customKeys),
	}
}
