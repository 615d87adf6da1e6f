package ui

import (
	"github.com/renato0307/farol/internal/config"
)

// NavigationKeys defines key bindings for navigating the session list
type NavigationKeys struct {
	ClearFilter KeyWithTip
	Down        KeyWithTip
	Filter      KeyWithTip
	QuickSelect KeyWithTip
	Up          KeyWithTip
}

// newNavigationKeys creates navigation key bindings
func newNavigationKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) NavigationKeys {
	return NavigationKeys{
		ClearFilter: buildBinding("clear_filter", defaults, customKeys),
		Down:        buildBinding("down", defaults, customKeys),
		Filter:      buildBinding("filter", defaults, customKeys),
		QuickSelect: buildBinding("quick_select", defaults, customKeys),
		Up:          buildBinding("up", defaults, customKeys),
	}
}
