package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned by Start while the scheduler runs
	ErrAlreadyRunning = errors.New("scheduler already running")

	// ErrStopped is returned by Start on a scheduler that already ran or was stopped, create a new one
	ErrStopped = errors.New("scheduler stopped")

	// ErrNilGame is returned by Start without host logic
	ErrNilGame = errors.New("nil game")
)

// FrameError wraps a panic raised by a frame callback
type FrameError struct {
	Phase string
	Value any
	Stack []byte
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %s: panic: %v", e.Phase, e.Value)
}

// Unwrap exposes a panicked error value
func (e *FrameError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// HandlerError wraps a panic raised while handling an event
type HandlerError struct {
	Kind  string
	Value any
	Stack []byte
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handle %s: panic: %v", e.Kind, e.Value)
}

func (e *HandlerError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
