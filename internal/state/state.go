package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/renato0307/farol/internal/config"
)

// ErrAlreadyRunning reports that another dashboard instance holds the lock
var ErrAlreadyRunning = errors.New("another farol instance is already running")

// Instance identifies the dashboard process that owns the event socket
type Instance struct {
	ID         string    `json:"id"`
	PID        int       `json:"pid"`
	SocketPath string    `json:"socket_path"`
	StartedAt  time.Time `json:"started_at"`
}

// Handle keeps the single-instance lock for as long as the dashboard runs.
// The lock lives on the state file itself, so a crashed process releases it
// automatically when the kernel closes its descriptors.
type Handle struct {
	file     *os.File
	instance Instance
	path     string
}

// Acquire claims the single-instance lock and records this process as the
// running dashboard. Returns ErrAlreadyRunning when another process holds
// the lock.
func Acquire(socketPath string) (*Handle, error) {
	path := config.GetStatePath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}

	if err := tryLockFile(file); err != nil {
		file.Close()
		if existing, readErr := Current(); readErr == nil && existing != nil {
			return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, existing.PID)
		}
		return nil, ErrAlreadyRunning
	}

	instance := Instance{
		ID:         uuid.New().String(),
		PID:        os.Getpid(),
		SocketPath: socketPath,
		StartedAt:  time.Now(),
	}

	data, err := json.MarshalIndent(instance, "", "  ")
	if err != nil {
		unlockFile(file)
		file.Close()
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := file.Truncate(0); err != nil {
		unlockFile(file)
		file.Close()
		return nil, fmt.Errorf("failed to truncate state file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		unlockFile(file)
		file.Close()
		return nil, fmt.Errorf("failed to seek state file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		unlockFile(file)
		file.Close()
		return nil, fmt.Errorf("failed to write state: %w", err)
	}

	return &Handle{file: file, instance: instance, path: path}, nil
}

// Instance returns the record written for this process
func (h *Handle) Instance() Instance {
	return h.instance
}

// Release removes the instance record and drops the lock
func (h *Handle) Release() error {
	if h.file == nil {
		return nil
	}

	removeErr := os.Remove(h.path)
	unlockFile(h.file)
	closeErr := h.file.Close()
	h.file = nil

	if removeErr != nil && !os.IsNotExist(removeErr) {
		return removeErr
	}
	return closeErr
}

// Current reads the recorded instance without taking the lock. Returns nil
// when no instance file exists. Callers must tolerate a stale record from a
// crashed process and verify the pid if it matters.
func Current() (*Instance, error) {
	data, err := os.ReadFile(config.GetStatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var instance Instance
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return &instance, nil
}
