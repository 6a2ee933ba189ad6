package service

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

var (
	// ErrUnsupportedOperation is returned for task operation types this service does not run
	ErrUnsupportedOperation = errors.New("unsupported task operation")

	// ErrTaskTerminated is returned when configuring a task that already reached a terminal state
	ErrTaskTerminated = errors.New("task is in a terminal state")
)

// Violation is one rejected field of a request.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a request before any store access.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// ReconfigurationError reports the tasks of a run that could not be committed.
// Tasks not listed were committed and stay committed.
type ReconfigurationError struct {
	RunID         string
	FailedTaskIDs []string
}

func (e *ReconfigurationError) Error() string {
	return fmt.Sprintf("reconfiguration run %s failed for %d task(s): %s",
		e.RunID, len(e.FailedTaskIDs), strings.Join(e.FailedTaskIDs, ", "))
}
