package order

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(status OrderStatus) Order {
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	return Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Status:      status,
		TotalAmount: 150000,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestTransition_ManualEdges(t *testing.T) {
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{StatusPending, StatusPaid},
		{StatusPaid, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusReturnRequested},
		{StatusReturnRequested, StatusReturnRejected},
		{StatusReturnRequested, StatusRefunded},
		{StatusPending, StatusCancelled},
		{StatusPaid, StatusCancelled},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusCancelled},
		{StatusReturnRequested, StatusCancelled},
		{StatusReturnRejected, StatusCancelled},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			o := newOrder(tc.from)

			next, ev, err := Transition(o, tc.to, ActorAdmin, now)
			require.NoError(t, err)

			assert.Equal(t, tc.to, next.Status)
			assert.Equal(t, now, next.UpdatedAt)
			assert.Equal(t, o.ID, ev.OrderID)
			assert.Equal(t, o.UserID, ev.UserID)
			assert.Equal(t, tc.from, ev.From)
			assert.Equal(t, tc.to, ev.To)
			assert.Equal(t, ActorAdmin, ev.Actor)
			assert.Equal(t, tc.from, o.Status, "input order must not change")
		})
	}
}

func TestTransition_SetsTimestamps(t *testing.T) {
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Shipped", func(t *testing.T) {
		next, _, err := Transition(newOrder(StatusProcessing), StatusShipped, ActorAdmin, now)
		require.NoError(t, err)
		require.NotNil(t, next.ShippedAt)
		assert.Equal(t, now, *next.ShippedAt)
		assert.Nil(t, next.CompletedAt)
		assert.Nil(t, next.CancelledAt)
	})

	t.Run("Completed", func(t *testing.T) {
		o := newOrder(StatusShipped)
		shipped := now.Add(-96 * time.Hour)
		o.ShippedAt = &shipped

		next, _, err := Transition(o, StatusCompleted, ActorSystem, now)
		require.NoError(t, err)
		require.NotNil(t, next.CompletedAt)
		assert.Equal(t, now, *next.CompletedAt)
		assert.Equal(t, shipped, *next.ShippedAt)
	})

	t.Run("Cancelled", func(t *testing.T) {
		next, _, err := Transition(newOrder(StatusPaid), StatusCancelled, ActorCustomer, now)
		require.NoError(t, err)
		require.NotNil(t, next.CancelledAt)
		assert.Nil(t, next.ShippedAt)
	})

	t.Run("Paid leaves timestamps alone", func(t *testing.T) {
		next, _, err := Transition(newOrder(StatusPending), StatusPaid, ActorAdmin, now)
		require.NoError(t, err)
		assert.Nil(t, next.ShippedAt)
		assert.Nil(t, next.CompletedAt)
		assert.Nil(t, next.CancelledAt)
	})
}

func TestTransition_AutomaticEdgeIsSystemOnly(t *testing.T) {
	now := time.Now()

	_, _, err := Transition(newOrder(StatusShipped), StatusCompleted, ActorAdmin, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, _, err = Transition(newOrder(StatusShipped), StatusCompleted, ActorCustomer, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, _, err = Transition(newOrder(StatusShipped), StatusCompleted, ActorSystem, now)
	assert.NoError(t, err)
}

func TestTransition_SystemCannotUseManualEdges(t *testing.T) {
	_, _, err := Transition(newOrder(StatusPending), StatusPaid, ActorSystem, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, _, err = Transition(newOrder(StatusShipped), StatusCancelled, ActorSystem, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_TerminalStatusIsAbsorbing(t *testing.T) {
	terminal := []OrderStatus{StatusCompleted, StatusCancelled, StatusRefunded, StatusReturned}
	actors := []Actor{ActorAdmin, ActorCustomer, ActorSystem}

	for _, from := range terminal {
		for _, to := range allStatuses {
			for _, actor := range actors {
				o := newOrder(from)
				next, _, err := Transition(o, to, actor, time.Now())

				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s by %s", from, to, actor)
				assert.Equal(t, o, next)
			}
		}
	}
}

func TestTransition_CancelledToPaid(t *testing.T) {
	o := newOrder(StatusCancelled)

	next, ev, err := Transition(o, StatusPaid, ActorAdmin, time.Now())

	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, StatusCancelled, invalid.From)
	assert.Equal(t, StatusPaid, invalid.To)
	assert.Contains(t, err.Error(), "CANCELLED -> PAID")
	assert.Equal(t, o, next)
	assert.Equal(t, Event{}, ev)
}

func TestTransition_RejectsEdgesOutsideGraph(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{StatusPending, StatusShipped},
		{StatusPaid, StatusPending},
		{StatusShipped, StatusProcessing},
		{StatusProcessing, StatusReturnRequested},
		{StatusReturnRejected, StatusRefunded},
		{StatusPending, StatusPending},
		{StatusPending, OrderStatus("LOST")},
		{StatusReturnRequested, StatusReturned},
	}

	for _, tc := range cases {
		_, _, err := Transition(newOrder(tc.from), tc.to, ActorAdmin, time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("SHIPPED")
	assert.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusPaid, ActorCustomer))
	assert.False(t, CanTransition(StatusCompleted, StatusReturnRequested, ActorCustomer))
}
