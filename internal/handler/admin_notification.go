package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"almastore-be/internal/logger"
	"almastore-be/internal/notification"
	"almastore-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sendNotificationRequest struct {
	RecipientID *uuid.UUID            `json:"recipient_id"`
	Title       string                `json:"title"`
	Message     string                `json:"message"`
	Category    notification.Category `json:"category"`
	ActionRef   *string               `json:"action_reference"`
}

type AdminNotificationHandler struct {
	svc notification.Service
}

func NewAdminNotificationHandler(svc notification.Service) *AdminNotificationHandler {
	return &AdminNotificationHandler{svc: svc}
}

// Send creates a notification for one user, or for every customer when
// recipient_id is omitted.
func (h *AdminNotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	adminID, _ := utils.GetUserIDFromContext(ctx)
	log := logger.FromCtx(ctx).With(
		zap.String("handler", "admin_send_notification"),
		zap.String("admin_id", adminID.String()),
	)

	var req sendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Category == "" {
		req.Category = notification.CategorySystem
	}

	target := notification.Broadcast()
	if req.RecipientID != nil {
		target = notification.SingleUser(*req.RecipientID)
	}

	sent, err := h.svc.Notify(ctx, target, notification.Payload{
		Title:     req.Title,
		Message:   req.Message,
		Category:  req.Category,
		ActionURL: req.ActionRef,
	})

	var partial *notification.PartialFanoutError
	switch {
	case err == nil:
		log.Info("notification sent", zap.Bool("broadcast", target.IsBroadcast()), zap.Int("sent", sent))
		utils.WriteJSON(w, http.StatusOK, map[string]int{"sent": sent})
	case errors.Is(err, notification.ErrInvalidPayload), errors.Is(err, notification.ErrInvalidCategory):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &partial):
		utils.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error": "broadcast stopped before reaching every customer",
			"sent":  partial.Sent,
		})
	default:
		log.Error("failed to send notification", zap.Error(err))
		utils.WriteJSONError(w, "failed to send notification", http.StatusInternalServerError)
	}
}
