package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"almastore-be/internal/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Notify(ctx context.Context, target Target, p Payload) (int, error) {
	args := m.Called(ctx, target, p)
	return args.Int(0), args.Error(1)
}

func orderEvent(to order.OrderStatus, actor order.Actor) order.Event {
	return order.Event{
		OrderID:    uuid.MustParse("3f2a9c1e-8b7d-4e6f-a1b2-c3d4e5f60718"),
		UserID:     uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		From:       order.StatusShipped,
		To:         to,
		Actor:      actor,
		OccurredAt: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestPayloadForOrderEvent(t *testing.T) {
	t.Run("AutoCompleted", func(t *testing.T) {
		p := PayloadForOrderEvent(orderEvent(order.StatusCompleted, order.ActorSystem))

		assert.Equal(t, "Pesanan Selesai Otomatis", p.Title)
		assert.Contains(t, p.Message, "#3F2A9C1E")
		assert.Equal(t, CategoryOrder, p.Category)
		require.NotNil(t, p.ActionURL)
		assert.Equal(t, "/orders/3f2a9c1e-8b7d-4e6f-a1b2-c3d4e5f60718", *p.ActionURL)
	})

	t.Run("CompletedByCustomer", func(t *testing.T) {
		p := PayloadForOrderEvent(orderEvent(order.StatusCompleted, order.ActorCustomer))
		assert.Equal(t, "Pesanan Selesai", p.Title)
	})

	t.Run("ShippedWithTracking", func(t *testing.T) {
		ev := orderEvent(order.StatusShipped, order.ActorAdmin)
		courier, resi := "JNE", "JNE123456"
		ev.Courier = &courier
		ev.TrackingNumber = &resi

		p := PayloadForOrderEvent(ev)

		assert.Equal(t, "Pesanan Dikirim", p.Title)
		assert.Equal(t, "Pesanan #3F2A9C1E telah dikirim via JNE. Resi: JNE123456.", p.Message)
	})

	t.Run("ShippedWithoutTracking", func(t *testing.T) {
		p := PayloadForOrderEvent(orderEvent(order.StatusShipped, order.ActorAdmin))
		assert.Equal(t, "Pesanan #3F2A9C1E telah dikirim.", p.Message)
	})

	t.Run("EveryStatusHasValidCopy", func(t *testing.T) {
		for _, st := range []order.OrderStatus{
			order.StatusPaid, order.StatusProcessing, order.StatusCancelled,
			order.StatusReturnRequested, order.StatusReturnRejected,
			order.StatusRefunded, order.StatusReturned,
		} {
			p := PayloadForOrderEvent(orderEvent(st, order.ActorAdmin))
			assert.NoError(t, validatePayload(p), st)
		}
	})
}

func TestOrderNotifier_Publish(t *testing.T) {
	ctx := context.Background()
	ev := orderEvent(order.StatusCompleted, order.ActorSystem)

	t.Run("NotifiesOwner", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Notify", ctx, SingleUser(ev.UserID), mock.MatchedBy(func(p Payload) bool {
			return p.Title == "Pesanan Selesai Otomatis"
		})).Return(1, nil)

		assert.NoError(t, NewOrderNotifier(svc).Publish(ctx, ev))
		svc.AssertExpectations(t)
	})

	t.Run("PropagatesError", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Notify", ctx, mock.Anything, mock.Anything).Return(0, ErrStoreUnavailable)

		err := NewOrderNotifier(svc).Publish(ctx, ev)
		assert.True(t, errors.Is(err, ErrStoreUnavailable))
	})
}
