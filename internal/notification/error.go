package notification

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPayload   = errors.New("invalid notification payload")
	ErrInvalidCategory  = errors.New("invalid notification category")
	ErrStoreUnavailable = errors.New("notification store unavailable")
	ErrPartialFanout    = errors.New("broadcast aborted after partial delivery")
)

// PartialFanoutError reports a broadcast that stopped at a failing chunk.
// Rows written before the failure are kept.
type PartialFanoutError struct {
	Sent  int
	Total int
	Err   error
}

func (e *PartialFanoutError) Error() string {
	return fmt.Sprintf("broadcast aborted after %d of %d notifications: %v", e.Sent, e.Total, e.Err)
}

func (e *PartialFanoutError) Unwrap() []error {
	return []error{ErrPartialFanout, e.Err}
}
