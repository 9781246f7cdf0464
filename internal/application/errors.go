package application

import (
	"errors"

	"github.com/example/event-staffing/internal/persistence"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrRunInProgress is returned when a run is requested while another
	// run holds the run lock.
	ErrRunInProgress = errors.New("application: a run is already in progress")
	// ErrInvalidTransition is returned when a proposal status change would
	// move backwards in the state machine.
	ErrInvalidTransition = errors.New("application: invalid proposal status transition")
)

// mapStoreError translates persistence sentinels into application errors.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
