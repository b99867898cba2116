package etherdev

import "errors"

var (
	// ErrExhausted indicates the frame buffer is claimed by another operation or
	// a transmit request does not fit in it. The caller should retry on a later
	// poll cycle.
	ErrExhausted = errors.New("etherdev: resource exhausted")
	// ErrIllegal indicates the operation is not permitted: the controller rejected
	// the transfer, or a token was consumed twice.
	ErrIllegal = errors.New("etherdev: illegal operation")
)

// DriverError is returned when the controller fails a transfer.
// It matches ErrIllegal with errors.Is; Unwrap returns the controller's error.
type DriverError struct {
	Op  string // "receive" or "transmit"
	Err error
	// Superseded is the fill function's error of a transmit whose hardware
	// transfer also failed. It is not part of the unwrap chain.
	Superseded error
}

func (e *DriverError) Error() string {
	return "etherdev: " + e.Op + ": " + e.Err.Error()
}

// Is reports whether target is ErrIllegal.
func (e *DriverError) Is(target error) bool { return target == ErrIllegal }

func (e *DriverError) Unwrap() error { return e.Err }
