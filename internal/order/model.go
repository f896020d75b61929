package order

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending         OrderStatus = "PENDING"
	StatusPaid            OrderStatus = "PAID"
	StatusProcessing      OrderStatus = "PROCESSING"
	StatusShipped         OrderStatus = "SHIPPED"
	StatusCompleted       OrderStatus = "COMPLETED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusReturnRequested OrderStatus = "RETURN_REQUESTED"
	StatusReturnRejected  OrderStatus = "RETURN_REJECTED"
	StatusRefunded        OrderStatus = "REFUNDED"
	StatusReturned        OrderStatus = "RETURNED"
)

var allStatuses = []OrderStatus{
	StatusPending,
	StatusPaid,
	StatusProcessing,
	StatusShipped,
	StatusCompleted,
	StatusCancelled,
	StatusReturnRequested,
	StatusReturnRejected,
	StatusRefunded,
	StatusReturned,
}

// ParseStatus maps a wire value onto the closed status set.
func ParseStatus(s string) (OrderStatus, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrUnknownStatus
}

func (s OrderStatus) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// IsTerminal reports whether no transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded, StatusReturned:
		return true
	}
	return false
}

// Actor identifies who requested a transition.
type Actor string

const (
	ActorAdmin    Actor = "admin"
	ActorCustomer Actor = "customer"
	// ActorSystem is reserved for the reconciliation worker.
	ActorSystem Actor = "system"
)

type Order struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Status         OrderStatus
	TotalAmount    int64
	Courier        *string
	TrackingNumber *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ShippedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
}

// ShippingInfo carries the optional courier metadata sent with a SHIPPED
// transition. A nil field keeps whatever the order already stores.
type ShippingInfo struct {
	Courier        *string
	TrackingNumber *string
}

// Event describes one committed status change. It is the only coupling
// between the order lifecycle and notifications.
type Event struct {
	OrderID        uuid.UUID
	UserID         uuid.UUID
	From           OrderStatus
	To             OrderStatus
	Actor          Actor
	OccurredAt     time.Time
	Courier        *string
	TrackingNumber *string
}
