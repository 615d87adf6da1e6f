package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "json array",
			input:    `["claude", "codex"]`,
			expected: []string{"claude", "codex"},
		},
		{
			name:     "comma separated string",
			input:    `"claude, codex,gemini"`,
			expected: []string{"claude", "codex", "gemini"},
		},
		{
			name:     "empty string",
			input:    `""`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sa StringArray
			err := json.Unmarshal([]byte(tt.input), &sa)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, []string(sa))
		})
	}
}

func TestKeyBindingValueUnmarshal(t *testing.T) {
	var single KeyBindingValue
	require.NoError(t, json.Unmarshal([]byte(`"r"`), &single))
	assert.Equal(t, KeyBindingValue{"r"}, single)

	var multi KeyBindingValue
	require.NoError(t, json.Unmarshal([]byte(`["up", "k"]`), &multi))
	assert.Equal(t, KeyBindingValue{"up", "k"}, multi)
}

func TestKeyBindingsValidate(t *testing.T) {
	valid := []string{"respond", "quit", "help"}

	t.Run("unknown name rejected", func(t *testing.T) {
		cfg := KeyBindingsConfig{"archive": {"a"}}
		assert.Error(t, cfg.Validate(valid))
	})

	t.Run("duplicate key rejected", func(t *testing.T) {
		cfg := KeyBindingsConfig{"respond": {"r"}, "quit": {"r"}}
		assert.Error(t, cfg.Validate(valid))
	})

	t.Run("valid config accepted", func(t *testing.T) {
		cfg := KeyBindingsConfig{"respond": {"r"}, "quit": {"q", "ctrl+c"}}
		assert.NoError(t, cfg.Validate(valid))
	})
}

func TestPhaseConfigColors(t *testing.T) {
	t.Run("default palette", func(t *testing.T) {
		cfg := NewPhaseConfig(nil)
		assert.Equal(t, "196", cfg.GetColor("error"))
		assert.Equal(t, "240", cfg.GetColor("ended"))
	})

	t.Run("short palette cycles", func(t *testing.T) {
		cfg := NewPhaseConfig([]string{"1", "2"})
		assert.Equal(t, "1", cfg.GetColor("idle"))
		assert.Equal(t, "2", cfg.GetColor("processing"))
		assert.Equal(t, "1", cfg.GetColor("runningTool"))
	})

	t.Run("unknown phase falls back to first color", func(t *testing.T) {
		cfg := NewPhaseConfig([]string{"7"})
		assert.Equal(t, "7", cfg.GetColor("bogus"))
	})
}
