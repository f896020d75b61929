package order

import "time"

// manualEdges lists every transition an admin or customer may request.
// CANCELLED is reachable from any non-terminal status and is handled
// separately in allowed.
var manualEdges = map[OrderStatus][]OrderStatus{
	StatusPending:         {StatusPaid},
	StatusPaid:            {StatusProcessing},
	StatusProcessing:      {StatusShipped},
	StatusShipped:         {StatusReturnRequested},
	StatusReturnRequested: {StatusReturnRejected, StatusRefunded},
}

// automaticEdges are driven by time alone and belong to ActorSystem.
var automaticEdges = map[OrderStatus][]OrderStatus{
	StatusShipped: {StatusCompleted},
}

func allowed(from, to OrderStatus, actor Actor) bool {
	if from.IsTerminal() || !to.IsValid() || from == to {
		return false
	}

	edges := manualEdges
	if actor == ActorSystem {
		edges = automaticEdges
	} else if to == StatusCancelled {
		return true
	}

	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransition reports whether actor may move an order from one status to another.
func CanTransition(from, to OrderStatus, actor Actor) bool {
	return allowed(from, to, actor)
}

// Transition validates the edge and returns the updated order together with
// the event describing it. The input order is never modified.
func Transition(o Order, target OrderStatus, actor Actor, now time.Time) (Order, Event, error) {
	if !allowed(o.Status, target, actor) {
		return o, Event{}, &InvalidTransitionError{From: o.Status, To: target, Actor: actor}
	}

	next := o
	next.Status = target
	next.UpdatedAt = now

	switch target {
	case StatusShipped:
		next.ShippedAt = &now
	case StatusCompleted:
		next.CompletedAt = &now
	case StatusCancelled:
		next.CancelledAt = &now
	}

	ev := Event{
		OrderID:        o.ID,
		UserID:         o.UserID,
		From:           o.Status,
		To:             target,
		Actor:          actor,
		OccurredAt:     now,
		Courier:        next.Courier,
		TrackingNumber: next.TrackingNumber,
	}

	return next, ev, nil
}
