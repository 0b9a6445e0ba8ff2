package segmenter

import (
	"errors"
	"fmt"
)

var (
	// ErrBroken is returned by every call made after the model failed to
	// reset its state; the Segmenter has to be reconstructed.
	ErrBroken = errors.New("the segmenter is broken")

	// ErrConcurrentProcess is returned when a frame is submitted while
	// another one is still being processed.
	ErrConcurrentProcess = errors.New("concurrent call to the segmenter")

	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("the segmenter is closed")
)

// ConfigError names a configuration field holding an invalid value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field '%s': %s", e.Field, e.Reason)
}

// InferenceError is a failure of the probability model on a single frame.
// The frame is treated as non-speech and processing continues.
type InferenceError struct {
	FrameIndex uint64
	Err        error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("unable to infer the speech probability of frame #%d: %v", e.FrameIndex, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// ModelStateError is a failure to reset the model state at an utterance
// boundary.
type ModelStateError struct {
	FrameIndex uint64
	Err        error
}

func (e *ModelStateError) Error() string {
	return fmt.Sprintf("unable to reset the model state after frame #%d: %v", e.FrameIndex, e.Err)
}

func (e *ModelStateError) Unwrap() error {
	return e.Err
}

type FrameSizeError struct {
	Expected int
	Actual   int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("expected a frame of %d samples, received %d", e.Expected, e.Actual)
}
