package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"almastore-be/internal/order"
	"almastore-be/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStatusRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/orders/"+id+"/status", bytes.NewBufferString(body))
	req.SetPathValue("id", id)
	return req
}

func TestAdminOrderHandler_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	t.Run("ShippedWithTracking", func(t *testing.T) {
		svc := new(MockOrderService)
		h := NewAdminOrderHandler(svc)

		courier, resi := "JNE", "JNE123"
		updated := &order.Order{
			ID: orderID, UserID: uuid.New(), Status: order.StatusShipped,
			Courier: &courier, TrackingNumber: &resi,
			CreatedAt: fixedTime, UpdatedAt: fixedTime, ShippedAt: &fixedTime,
		}

		svc.On("UpdateStatus", mock.Anything, orderID, order.StatusShipped, order.ActorAdmin,
			&order.ShippingInfo{Courier: utils.StrPtr("JNE"), TrackingNumber: utils.StrPtr("JNE123")}).
			Return(updated, nil)

		w := httptest.NewRecorder()
		h.UpdateStatus(w, newStatusRequest(orderID.String(),
			`{"status":"SHIPPED","courier":"JNE","tracking_number":"JNE123"}`))

		require.Equal(t, http.StatusOK, w.Code)

		var body order.OrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "SHIPPED", body.Status)
		assert.Equal(t, "JNE123", *body.TrackingNumber)
	})

	t.Run("ShippedWithCourierOnly", func(t *testing.T) {
		svc := new(MockOrderService)
		h := NewAdminOrderHandler(svc)

		svc.On("UpdateStatus", mock.Anything, orderID, order.StatusShipped, order.ActorAdmin,
			mock.MatchedBy(func(s *order.ShippingInfo) bool {
				return s != nil && s.Courier != nil && *s.Courier == "JNT" && s.TrackingNumber == nil
			})).
			Return(&order.Order{ID: orderID, Status: order.StatusShipped}, nil)

		w := httptest.NewRecorder()
		h.UpdateStatus(w, newStatusRequest(orderID.String(), `{"status":"SHIPPED","courier":"JNT"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("CancelWithoutShippingInfo", func(t *testing.T) {
		svc := new(MockOrderService)
		h := NewAdminOrderHandler(svc)

		svc.On("UpdateStatus", mock.Anything, orderID, order.StatusCancelled, order.ActorAdmin, (*order.ShippingInfo)(nil)).
			Return(&order.Order{ID: orderID, Status: order.StatusCancelled}, nil)

		w := httptest.NewRecorder()
		h.UpdateStatus(w, newStatusRequest(orderID.String(), `{"status":"CANCELLED"}`))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"NotFound", order.ErrOrderNotFound, http.StatusNotFound},
		{"InvalidTransition", &order.InvalidTransitionError{From: order.StatusCompleted, To: order.StatusCancelled, Actor: order.ActorAdmin}, http.StatusConflict},
		{"Conflict", order.ErrStatusConflict, http.StatusConflict},
		{"StoreDown", order.ErrStoreUnavailable, http.StatusInternalServerError},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockOrderService)
			h := NewAdminOrderHandler(svc)

			svc.On("UpdateStatus", mock.Anything, orderID, order.StatusCancelled, order.ActorAdmin, mock.Anything).
				Return(nil, tc.err)

			w := httptest.NewRecorder()
			h.UpdateStatus(w, newStatusRequest(orderID.String(), `{"status":"CANCELLED"}`))

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}

	t.Run("InvalidID", func(t *testing.T) {
		h := NewAdminOrderHandler(new(MockOrderService))

		w := httptest.NewRecorder()
		h.UpdateStatus(w, newStatusRequest("not-a-uuid", `{"status":"CANCELLED"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		svc := new(MockOrderService)
		h := NewAdminOrderHandler(svc)

		w := httptest.NewRecorder()
		h.UpdateStatus(w, newStatusRequest(orderID.String(), `{"status":"LOST"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHealth(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		w := httptest.NewRecorder()
		Health(fakePinger{})(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "OK")
	})

	t.Run("DBDown", func(t *testing.T) {
		w := httptest.NewRecorder()
		Health(fakePinger{err: errBoom})(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
