package status

import (
	"errors"
	"fmt"
	"strings"
)

// Client-local errors, raised before any network call.
var (
	ErrNotConnected    = errors.New("claim: wallet not connected")
	ErrEventNotFound   = errors.New("claim: event not found")
	ErrEventNotStarted = errors.New("claim: event has not started")
	ErrEventEnded      = errors.New("claim: event has ended")
	ErrAlreadyClaimed  = errors.New("claim: badge already claimed")
	ErrEventFull       = errors.New("claim: event is at capacity")
)

// Network and wallet errors.
var (
	ErrWalletUnavailable   = errors.New("wallet: wallet unavailable")
	ErrUserRejected        = errors.New("wallet: user rejected signing")
	ErrConfirmationTimeout = errors.New("transaction: confirmation timed out, outcome unknown")
)

// ValidationError reports a rejected event-creation field before any
// network interaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// TransactionError is a transaction the ledger executed and aborted.
// Reason carries the sentinel the abort maps to, so a condition caught
// by the ledger surfaces the same way as one caught pre-flight.
type TransactionError struct {
	VMStatus string
	Reason   error
}

func (e *TransactionError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("transaction: %v (vm_status: %s)", e.Reason, e.VMStatus)
	}
	return fmt.Sprintf("transaction: aborted (vm_status: %s)", e.VMStatus)
}

func (e *TransactionError) Unwrap() error { return e.Reason }

// MapVMStatus maps a ledger abort status onto the claim taxonomy. The
// ledger only knows "not active", which at submission time means the
// window closed between the local check and execution, so it maps to
// ErrEventEnded.
func MapVMStatus(vmStatus string) error {
	s := strings.ToUpper(vmStatus)
	var reason error
	switch {
	case strings.Contains(s, "EVENT_NOT_FOUND") || strings.HasSuffix(s, ": 0X1"):
		reason = ErrEventNotFound
	case strings.Contains(s, "EVENT_NOT_ACTIVE") || strings.HasSuffix(s, ": 0X2"):
		reason = ErrEventEnded
	case strings.Contains(s, "ALREADY_CLAIMED") || strings.HasSuffix(s, ": 0X3"):
		reason = ErrAlreadyClaimed
	case strings.Contains(s, "EVENT_FULL") || strings.HasSuffix(s, ": 0X4"):
		reason = ErrEventFull
	}
	return &TransactionError{VMStatus: vmStatus, Reason: reason}
}
