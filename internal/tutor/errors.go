package tutor

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed input. Nothing is read or written.
	ErrValidation = errors.New("validation failed")
	// ErrAuthorization marks a session that does not own the target thread.
	ErrAuthorization = errors.New("not authorized for thread")
	ErrNotFound      = errors.New("thread not found")
	// ErrStoreUnavailable wraps any message or summary store failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrCompletionFailed = errors.New("completion failed")
	// ErrCompactionConflict means another compactor advanced the summary first.
	// Retrying observes the new state.
	ErrCompactionConflict = errors.New("compaction conflict")
)

// CompletionFailedError carries the provider failure shown to the student.
type CompletionFailedError struct {
	Detail string
	Err    error
}

func (e *CompletionFailedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCompletionFailed, e.Detail)
}

func (e *CompletionFailedError) Is(target error) bool {
	return target == ErrCompletionFailed
}

func (e *CompletionFailedError) Unwrap() error {
	return e.Err
}

// CompactionWarning reports that the summary was written but the folded
// messages could not be deleted. The next compaction cleans them up.
type CompactionWarning struct {
	HighWaterMark int64
	Err           error
}

func (w *CompactionWarning) Error() string {
	return fmt.Sprintf("summary saved at mark %d but pruning failed: %v", w.HighWaterMark, w.Err)
}

func (w *CompactionWarning) Unwrap() error {
	return w.Err
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
