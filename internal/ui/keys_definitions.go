package ui

import (
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyDefinition defines the metadata for a configurable key binding.
// All key bindings are defined here as the single source of truth.
type KeyDefinition struct {
	Defaults        []string
	Help            string
	IsPaletteAction bool    // If true, this key appears in command palette
	Msg             tea.Msg // Prototype message for dispatch (nil if not dispatchable)
	Name            string
	TipFormat       string
}

// AllKeyDefinitions contains all configurable key bindings.
// This is the single source of truth for key names, defaults, help text, and tips.
// If IsPaletteAction is true, the key appears in the command palette.
// If Msg is set, the action can be dispatched via the command palette.
var AllKeyDefinitions = []KeyDefinition{
	// Application keys
	{Name: "activity", Defaults: []string{"v"}, Help: "toggle activity panel", IsPaletteAction: true, Msg: ToggleActivityMsg{}, TipFormat: "press %s to see what the selected agent has been doing"},
	{Name: "command_palette", Defaults: []string{"P"}, Help: "command palette", TipFormat: "press %s to open the command palette"},
	{Name: "force_quit", Defaults: []string{"ctrl+c"}, Help: "force quit"},
	{Name: "help", Defaults: []string{"h", "?"}, Help: "show keyboard shortcuts", IsPaletteAction: true, Msg: ShowHelpMsg{}, TipFormat: "press %s to see all shortcuts"},
	{Name: "quit", Defaults: []string{"q"}, Help: "exit dashboard", IsPaletteAction: true, Msg: QuitMsg{}},
	{Name: "timestamps", Defaults: []string{"t"}, Help: "toggle timestamps", IsPaletteAction: true, Msg: ToggleTimestampsMsg{}, TipFormat: "press %s to toggle timestamp display"},
	{Name: "usage_chart", Defaults: []string{"T"}, Help: "toggle usage chart", IsPaletteAction: true, Msg: ToggleUsageChartMsg{}, TipFormat: "press %s to toggle the token usage chart"},

	// Navigation keys
	{Name: "clear_filter", Defaults: []string{"esc"}, Help: "clear filter (press twice within 500ms)", TipFormat: "press %s twice to clear the filter"},
	{Name: "down", Defaults: []string{"down", "j"}, Help: "select next session"},
	{Name: "filter", Defaults: []string{"/"}, Help: "filter session list", TipFormat: "press %s to filter sessions by title or directory"},
	{Name: "quick_select", Defaults: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"}, Help: "quick select (0=10th)", TipFormat: "press %s to jump to a session by its number"},
	{Name: "up", Defaults: []string{"up", "k"}, Help: "select previous session"},

	// Permission keys
	{Name: "allow", Defaults: []string{"a"}, Help: "approve pending tool call", IsPaletteAction: true, Msg: AllowSessionMsg{}, TipFormat: "press %s to approve a pending tool call in one keystroke"},
	{Name: "deny", Defaults: []string{"d"}, Help: "deny pending tool call", IsPaletteAction: true, Msg: DenySessionMsg{}, TipFormat: "press %s to deny a pending tool call"},
	{Name: "respond", Defaults: []string{"enter"}, Help: "answer pending request", IsPaletteAction: true, Msg: RespondSessionMsg{}, TipFormat: "press %s to answer a request with a reason or edited input"},

	// Session keys
	{Name: "dismiss", Defaults: []string{"X"}, Help: "remove session from board", IsPaletteAction: true, Msg: DismissSessionMsg{}, TipFormat: "press %s to drop a session from the board"},
	{Name: "kill", Defaults: []string{"x"}, Help: "kill agent process", IsPaletteAction: true, Msg: KillSessionMsg{}, TipFormat: "press %s to stop a launched agent"},
}

var (
	defaultBindingsCache map[string][]string
	defaultBindingsOnce  sync.Once

	keyDefinitionsMap     map[string]KeyDefinition
	keyDefinitionsMapOnce sync.Once

	validKeyNames     []string
	validKeyNamesOnce sync.Once
)

// GetDefaultKeyBindings returns the default key bindings as a map.
// The result is cached after the first call.
func GetDefaultKeyBindings() map[string][]string {
	defaultBindingsOnce.Do(func() {
		defaultBindingsCache = make(map[string][]string, len(AllKeyDefinitions))
		for _, def := range AllKeyDefinitions {
			defaultBindingsCache[def.Name] = def.Defaults
		}
	})
	return defaultBindingsCache
}

// GetKeyDefinition returns the definition for a key by name.
// Returns nil if not found.
func GetKeyDefinition(name string) *KeyDefinition {
	keyDefinitionsMapOnce.Do(func() {
		keyDefinitionsMap = make(map[string]KeyDefinition, len(AllKeyDefinitions))
		for _, def := range AllKeyDefinitions {
			keyDefinitionsMap[def.Name] = def
		}
	})
	if def, ok := keyDefinitionsMap[name]; ok {
		return &def
	}
	return nil
}

// GetValidKeyNames returns all valid key binding names in sorted order.
// The result is cached after the first call.
func GetValidKeyNames() []string {
	validKeyNamesOnce.Do(func() {
		validKeyNames = make([]string, len(AllKeyDefinitions))
		for i, def := range AllKeyDefinitions {
			validKeyNames[i] = def.Name
		}
		sort.Strings(validKeyNames)
	})
	return validKeyNames
}

// IsValidKeyName checks if a name is a valid key binding name.
func IsValidKeyName(name string) bool {
	return GetKeyDefinition(name) != nil
}

// GetPaletteActions returns key definitions that should appear in the command palette.
func GetPaletteActions() []KeyDefinition {
	var actions []KeyDefinition
	for _, def := range AllKeyDefinitions {
		if !def.IsPaletteAction {
			continue
		}
		actions = append(actions, def)
	}
	return actions
}
