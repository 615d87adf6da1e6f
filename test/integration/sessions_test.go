package integration_test

import (
	"testing"

	"github.com/renato0307/farol/test/integration/harness"
)

func TestSessionsListEmpty(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "sessions", "list")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "No recorded sessions.")
}

func TestSessionsListJSONFormat(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "sessions", "list", "--format", "json")

	harness.AssertSuccess(t, result)
	// Empty history still renders valid JSON (null or [])
	var records []map[string]any
	harness.AssertValidJSON(t, result, &records)
}

func TestSessionsListLiveWithoutInstance(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "sessions", "list", "--live")

	harness.AssertFailure(t, result)
	harness.AssertStderrContains(t, result, "no running farol instance")
}

func TestSessionsViewNotFound(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "sessions", "view", "no-such-id")

	harness.AssertFailure(t, result)
	harness.AssertStderrContains(t, result, "failed to get session")
}

func TestSessionsDelNotFound(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "sessions", "del", "no-such-id", "--force")

	harness.AssertFailure(t, result)
	harness.AssertStderrContains(t, result, "session not found")
}
