package lifecycle

import (
	"errors"
	"fmt"

	"github.com/RevCBH/hookrunner/internal/hook"
)

// PhaseError names the lifecycle phase that failed.
type PhaseError struct {
	Phase hook.Command
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// NewPhaseError creates a PhaseError
func NewPhaseError(phase hook.Command, err error) *PhaseError {
	return &PhaseError{Phase: phase, Err: err}
}

// CleanupAfter combines a cleanup failure with the failure that triggered
// cleanup. The primary error always comes first and is never dropped.
func CleanupAfter(primary, cleanup error) error {
	if cleanup == nil {
		return primary
	}
	if primary == nil {
		return cleanup
	}
	return errors.Join(primary, cleanup)
}
