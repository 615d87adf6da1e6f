package harness

import (
	"bytes"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

// Daemon is a farol instance running `serve` in the background for
// end-to-end hook tests.
type Daemon struct {
	cmd    *exec.Cmd
	env    *TestEnvironment
	stderr *bytes.Buffer
	stdout *bytes.Buffer
	tb     testing.TB
}

// StartDaemon launches `farol serve` against the test environment and waits
// until its socket accepts frames. The daemon is stopped automatically when
// the test completes.
func StartDaemon(tb testing.TB, env *TestEnvironment) *Daemon {
	tb.Helper()

	cmd := exec.Command(binaryPath, "serve")
	cmd.Env = env.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		tb.Fatalf("Failed to start daemon: %v", err)
	}

	d := &Daemon{cmd: cmd, env: env, stderr: &stderr, stdout: &stdout, tb: tb}
	tb.Cleanup(d.Stop)

	d.waitForSocket(5 * time.Second)
	return d
}

// Stop terminates the daemon. Safe to call more than once.
func (d *Daemon) Stop() {
	if d.cmd.Process == nil {
		return
	}
	_ = d.cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		_, _ = d.cmd.Process.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = d.cmd.Process.Kill()
		<-done
	}
	d.cmd.Process = nil
}

// waitForSocket polls until the daemon's socket file exists
func (d *Daemon) waitForSocket(timeout time.Duration) {
	d.tb.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(d.env.SocketPath()); err == nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	d.tb.Fatalf("Daemon socket never appeared at %s.\nStdout: %s\nStderr: %s",
		d.env.SocketPath(), d.stdout.String(), d.stderr.String())
}

// Eventually polls condition until it returns true or the timeout expires.
func Eventually(tb testing.TB, timeout time.Duration, condition func() bool, msg string) {
	tb.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	tb.Fatalf("Condition never met within %v: %s", timeout, msg)
}
