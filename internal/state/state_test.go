package state

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRunDir redirects the run directory into a temp dir for the test
func setupRunDir(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
}

func TestAcquireRecordsInstance(t *testing.T) {
	setupRunDir(t)

	handle, err := Acquire("/run/user/1000/farol/farol.sock")
	require.NoError(t, err)
	defer handle.Release()

	instance := handle.Instance()
	assert.NotEmpty(t, instance.ID)
	assert.Equal(t, os.Getpid(), instance.PID)
	assert.Equal(t, "/run/user/1000/farol/farol.sock", instance.SocketPath)
	assert.False(t, instance.StartedAt.IsZero())

	current, err := Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, instance.ID, current.ID)
	assert.Equal(t, instance.SocketPath, current.SocketPath)
}

func TestAcquireRejectsSecondInstance(t *testing.T) {
	setupRunDir(t)

	first, err := Acquire("/tmp/farol.sock")
	require.NoError(t, err)
	defer first.Release()

	_, err = Acquire("/tmp/farol.sock")
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestReleaseFreesTheLock(t *testing.T) {
	setupRunDir(t)

	first, err := Acquire("/tmp/farol.sock")
	require.NoError(t, err)
	require.NoError(t, first.Release())

	second, err := Acquire("/tmp/farol.sock")
	require.NoError(t, err)
	defer second.Release()

	// Release is safe to call twice
	require.NoError(t, first.Release())
}

func TestCurrentWithoutInstance(t *testing.T) {
	setupRunDir(t)

	current, err := Current()
	require.NoError(t, err)
	assert.Nil(t, current)
}
