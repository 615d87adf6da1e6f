// Package harness provides utilities for integration testing the farol CLI.
// It handles binary compilation, environment isolation, command execution
// (optionally with stdin or a background daemon), and common assertions.
//
// Environment variables managed:
//   - FAROL_HOME: Isolated per test (temp directory)
//   - FAROL_DEBUG: Disabled to reduce noise
//   - XDG_RUNTIME_DIR: Isolated per test so sockets never collide
package harness
