package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrStatusConflict is returned when the stored status no longer matches
	// the status the transition was computed from.
	ErrStatusConflict   = errors.New("order status changed concurrently")
	ErrStoreUnavailable = errors.New("order store unavailable")
)

// InvalidTransitionError names the rejected edge.
type InvalidTransitionError struct {
	From  OrderStatus
	To    OrderStatus
	Actor Actor
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s (actor %s)", e.From, e.To, e.Actor)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
