package application

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every service. Handlers match with errors.Is and
// surface the wrapped message to the client.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrAuthFailure  = errors.New("auth failure")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func authFailure(msg string) error {
	return fmt.Errorf("%w: %s", ErrAuthFailure, msg)
}

// Message strips the taxonomy prefix added by the wrappers above, leaving
// the client-facing text.
func Message(err error) string {
	for _, sentinel := range []error{ErrInvalidInput, ErrAuthFailure, ErrConflict, ErrNotFound} {
		if errors.Is(err, sentinel) {
			full := err.Error()
			prefix := sentinel.Error() + ": "
			if len(full) > len(prefix) && full[:len(prefix)] == prefix {
				return full[len(prefix):]
			}
			return full
		}
	}
	return err.Error()
}
