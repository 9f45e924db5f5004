package storage

import (
	"errors"
	"fmt"

	"github.com/scoutline/scoutline/pkg/types"
)

var (
	// ErrNotFound indicates that the requested session was not found.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidateState performs the input checks shared by every backend's Save.
func ValidateState(state *types.SessionState) error {
	if state == nil {
		return fmt.Errorf("%w: state is required", ErrInvalidInput)
	}
	if state.SessionID == "" {
		return fmt.Errorf("%w: session ID is required", ErrInvalidInput)
	}
	return nil
}
