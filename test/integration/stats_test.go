package integration_test

import (
	"testing"

	"github.com/renato0307/farol/test/integration/harness"
)

func TestStatsEmpty(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "stats")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Token Usage by Model")
	harness.AssertStdoutContains(t, result, "No token data yet.")
}

func TestStatsChartFormat(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "stats", "--format", "chart")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Token Usage by Model")
}

func TestStatsInvalidFormat(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "stats", "--format", "csv")

	harness.AssertFailure(t, result)
}
