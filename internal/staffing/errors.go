package staffing

import (
	"fmt"
	"time"
)

// ValidationFailure reports which hard constraint rejected a candidate.
type ValidationFailure struct {
	Check  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Check, e.Reason)
}

// PairingFailure reports a missing or failed paired counterpart.
type PairingFailure struct {
	EventRef string
	Reason   string
}

func (e *PairingFailure) Error() string {
	return fmt.Sprintf("pairing failed for %s: %s", e.EventRef, e.Reason)
}

// RotationGap reports that no rotation entry and no eligible fallback exist
// for any candidate date.
type RotationGap struct {
	Type RotationType
	Date time.Time
}

func (e *RotationGap) Error() string {
	return fmt.Sprintf("no %s rotation entry for %s and no fallback", e.Type, e.Date.Format("2006-01-02"))
}

// ExhaustedWindow reports that every candidate date before the due date was
// tried without success.
type ExhaustedWindow struct {
	EventRef string
	From     time.Time
	Until    time.Time
}

func (e *ExhaustedWindow) Error() string {
	return fmt.Sprintf("no valid date for %s between %s and %s",
		e.EventRef, e.From.Format("2006-01-02"), e.Until.Format("2006-01-02"))
}

// TransactionFailure reports a commit or cascade that could only partially
// apply and was rolled back.
type TransactionFailure struct {
	Op  string
	Err error
}

func (e *TransactionFailure) Error() string {
	return fmt.Sprintf("transaction %s rolled back: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransactionFailure) Unwrap() error {
	return e.Err
}
