package handler

import (
	"context"
	"errors"
	"time"

	"almastore-be/internal/notification"
	"almastore-be/internal/order"
	"almastore-be/internal/push"
	"almastore-be/internal/reconcile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Run(ctx context.Context) (*reconcile.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.Summary), args.Error(1)
}

type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, n notification.Notification) (*push.Result, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*push.Result), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, target notification.Target, p notification.Payload) (int, error) {
	args := m.Called(ctx, target, p)
	return args.Int(0), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, userID uuid.UUID, totalAmount int64) (*order.Order, error) {
	args := m.Called(ctx, userID, totalAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(
	ctx context.Context,
	orderID uuid.UUID,
	target order.OrderStatus,
	actor order.Actor,
	shipping *order.ShippingInfo,
) (*order.Order, error) {
	args := m.Called(ctx, orderID, target, actor, shipping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(ctx context.Context) error {
	return f.err
}

var errBoom = errors.New("boom")

var fixedTime = time.Date(2026, 5, 4, 2, 0, 0, 0, time.UTC)
