package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"almastore-be/internal/logger"
	"almastore-be/internal/order"
	"almastore-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type updateStatusRequest struct {
	Status         string  `json:"status"`
	Courier        *string `json:"courier"`
	TrackingNumber *string `json:"tracking_number"`
}

type AdminOrderHandler struct {
	svc order.Service
}

func NewAdminOrderHandler(svc order.Service) *AdminOrderHandler {
	return &AdminOrderHandler{svc: svc}
}

// UpdateStatus applies a manual transition on behalf of an admin.
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	log := logger.FromCtx(ctx).With(
		zap.String("handler", "admin_update_order_status"),
		zap.String("order_id", orderID.String()),
	)

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		utils.WriteJSONError(w, "unknown order status", http.StatusBadRequest)
		return
	}

	var shipping *order.ShippingInfo
	if target == order.StatusShipped && (req.Courier != nil || req.TrackingNumber != nil) {
		shipping = &order.ShippingInfo{
			Courier:        req.Courier,
			TrackingNumber: req.TrackingNumber,
		}
	}

	updated, err := h.svc.UpdateStatus(ctx, orderID, target, order.ActorAdmin, shipping)
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, order.ToResponse(updated))
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, order.ErrStatusConflict):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	default:
		log.Error("failed to update order status", zap.Error(err))
		utils.WriteJSONError(w, "failed to update order status", http.StatusInternalServerError)
	}
}
