package config

import (
	"reflect"
	"strings"
)

// GetSettingsExample uses reflection to generate example settings
// This automatically stays in sync when new fields are added to Settings
func GetSettingsExample() map[string]any {
	var s Settings
	t := reflect.TypeOf(s)
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		// Extract the JSON field name (before comma)
		jsonName := strings.Split(jsonTag, ",")[0]

		// Generate example value based on field type
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}

	return example
}

// generateExampleValue creates appropriate example values based on type and field name
func generateExampleValue(t reflect.Type, fieldName string) any {
	// Handle pointer types
	if t.Kind() == reflect.Ptr {
		elemType := t.Elem()

		switch elemType.Kind() {
		case reflect.Bool:
			// Return boolean value directly (not pointer)
			if fieldName == "debug" || fieldName == "show_timestamps" || fieldName == "sound" {
				return true
			}
			return false
		case reflect.Int:
			// Return int value directly (not pointer)
			switch fieldName {
			case "max_log_files":
				return 1000
			case "retention_minutes":
				return 5
			case "sweep_seconds":
				return 60
			case "watch_debounce_ms":
				return 500
			}
			return 10
		}
	}

	// Handle KeyBindingsConfig
	if t.Name() == "KeyBindingsConfig" {
		return map[string]any{
			"respond": "r",
			"help":    []string{"H", "?"},
		}
	}

	// Handle direct types
	switch t.Kind() {
	case reflect.String:
		// Generate contextual examples based on field name
		switch fieldName {
		case "db_path":
			return "~/.farol/history.db"
		case "socket_path":
			return "~/.farol/run/farol.sock"
		case "sound_file":
			return "/usr/share/sounds/freedesktop/stereo/complete.oga"
		default:
			return "example"
		}
	case reflect.Slice:
		// Check if it's StringArray type
		if t.Name() == "StringArray" || (t.Elem().Kind() == reflect.String) {
			switch fieldName {
			case "agents":
				return []string{"claude", "codex", "gemini"}
			case "phase_colors":
				return []string{"246", "214", "214", "39", "204", "135", "196", "240"}
			default:
				return []string{"example1", "example2"}
			}
		}
	}

	return nil
}
