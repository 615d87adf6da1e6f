package integration_test

import (
	"testing"

	"github.com/renato0307/farol/test/integration/harness"
)

func TestPlaySound(t *testing.T) {
	// The play-sound command attempts to play a notification sound.
	// In a headless environment (Docker container, CI), there's no audio
	// device. The command may fail or succeed silently depending on the audio
	// backend; we only verify it runs without crashing.
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "play-sound")

	if result.ExitCode != 0 {
		t.Logf("play-sound exited with code %d (expected in headless env)", result.ExitCode)
		t.Logf("stderr: %s", result.Stderr)
	}
}
