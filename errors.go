package traverse

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the worker and its front ends.
var (
	// ErrInvalidLocation is returned when a document location cannot be
	// resolved to a local file path.
	ErrInvalidLocation = errors.New("invalid document location")

	// ErrWorkerUnavailable is returned when the generation queue has no live consumer.
	ErrWorkerUnavailable = errors.New("generation worker unavailable")

	// ErrMissingArguments is returned when a command is invoked without arguments.
	ErrMissingArguments = errors.New("missing arguments")

	// ErrInvalidArguments is returned when command arguments cannot be decoded.
	ErrInvalidArguments = errors.New("invalid parameters")

	// ErrUnknownOperation is returned for command names that are not recognised.
	ErrUnknownOperation = errors.New("unknown operation")
)

// ReadError reports a resolved source file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying IO error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// EngineError reports a failure inside the analysis engine.
type EngineError struct {
	Op     string // build, dot, sequence or storage
	Reason string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("analysis engine %s failed: %s", e.Op, e.Reason)
}

// ChunkingError reports a failure to split a diagram into chunk files.
// It never reaches callers: the worker degrades to an unchunked diagram.
type ChunkingError struct {
	Dir string
	Err error
}

// Error implements the error interface.
func (e *ChunkingError) Error() string {
	if e.Dir == "" {
		return fmt.Sprintf("chunking failed: %v", e.Err)
	}
	return fmt.Sprintf("chunking into %s failed: %v", e.Dir, e.Err)
}

// Unwrap returns the underlying error.
func (e *ChunkingError) Unwrap() error {
	return e.Err
}
