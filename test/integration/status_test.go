package integration_test

import (
	"testing"

	"github.com/renato0307/farol/test/integration/harness"
)

func TestStatusWithoutInstance(t *testing.T) {
	// tmux runs the status command on every refresh; a missing instance must
	// produce placeholder output, never an error.
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "status")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, ":?")
}
