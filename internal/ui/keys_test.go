package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/farol/internal/config"
)

func TestKeyDefinitionsAreWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range AllKeyDefinitions {
		assert.NotEmpty(t, def.Name, "definition without a name")
		assert.NotEmpty(t, def.Defaults, "definition %s without default keys", def.Name)
		assert.NotEmpty(t, def.Help, "definition %s without help text", def.Name)
		assert.False(t, seen[def.Name], "duplicate definition %s", def.Name)
		seen[def.Name] = true
	}
}

func TestPaletteActionsCarryMessages(t *testing.T) {
	actions := GetPaletteActions()
	require.NotEmpty(t, actions)
	for _, def := range actions {
		assert.NotNil(t, def.Msg, "palette action %s has no message to dispatch", def.Name)
	}
}

func TestGetKeyDefinition(t *testing.T) {
	def := GetKeyDefinition("respond")
	require.NotNil(t, def)
	assert.Equal(t, []string{"enter"}, def.Defaults)

	assert.Nil(t, GetKeyDefinition("archive"))
	assert.True(t, IsValidKeyName("kill"))
	assert.False(t, IsValidKeyName("rename"))
}

func TestNewKeyMapUsesDefaults(t *testing.T) {
	keys := NewKeyMap(nil)

	assert.Equal(t, []string{"enter"}, keys.Permissions.Respond.Binding.Keys())
	assert.Equal(t, []string{"a"}, keys.Permissions.Allow.Binding.Keys())
	assert.Equal(t, []string{"d"}, keys.Permissions.Deny.Binding.Keys())
	assert.Equal(t, []string{"x"}, keys.Sessions.Kill.Binding.Keys())
	assert.Equal(t, []string{"q"}, keys.Application.Quit.Binding.Keys())
}

func TestNewKeyMapAppliesCustomBindings(t *testing.T) {
	keys := NewKeyMap(config.KeyBindingsConfig{
		"allow": {"y"},
		"deny":  {"n", "N"},
	})

	assert.Equal(t, []string{"y"}, keys.Permissions.Allow.Binding.Keys())
	assert.Equal(t, []string{"n", "N"}, keys.Permissions.Deny.Binding.Keys())
	assert.Equal(t, "n/N", keys.Permissions.Deny.Binding.Help().Key)

	// Unrelated bindings keep their defaults
	assert.Equal(t, []string{"x"}, keys.Sessions.Kill.Binding.Keys())
}

func TestValidKeyNamesMatchDefinitions(t *testing.T) {
	names := GetValidKeyNames()
	assert.Len(t, names, len(AllKeyDefinitions))
	for _, def := range AllKeyDefinitions {
		assert.Contains(t, names, def.Name)
	}
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		target   string
		expected bool
	}{
		{name: "empty query matches", query: "", target: "toggle timestamps", expected: true},
		{name: "exact match", query: "kill", target: "kill", expected: true},
		{name: "subsequence match", query: "tgl", target: "toggle timestamps", expected: true},
		{name: "query must be lowercase", query: "KILL", target: "kill agent process", expected: false},
		{name: "out of order", query: "pa", target: "approve", expected: false},
		{name: "missing characters", query: "xyz", target: "toggle", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fuzzyMatch(tt.query, tt.target))
		})
	}
}
