package tasklist

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText indicates the trimmed task text is empty.
	ErrEmptyText = errors.New("task text is empty")

	// ErrTextTooLong indicates the trimmed task text exceeds MaxTextLength.
	ErrTextTooLong = fmt.Errorf("task text exceeds %d characters", MaxTextLength)

	// ErrUnknownFilter indicates a filter mode outside all/active/completed.
	ErrUnknownFilter = errors.New("unknown filter mode")

	// ErrEmptyOperation indicates a clear or reset with nothing to act on.
	ErrEmptyOperation = errors.New("nothing to do")

	// ErrDeclined indicates the confirmation gate said no.
	ErrDeclined = errors.New("confirmation declined")

	// ErrStalePending indicates the list changed after the confirmation was requested.
	ErrStalePending = errors.New("confirmation is stale")
)

// ValidationError reports rejected input. No state was changed.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PersistError reports that the adapter could not store the list.
// The in-memory change it accompanies is kept.
type PersistError struct {
	Op  Op
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save after %s: %s", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistError) Unwrap() error {
	return e.Err
}

// IsPersistError reports whether err carries a PersistError.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
