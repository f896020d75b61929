package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"almastore-be/internal/logger"
	"almastore-be/internal/notification"
	"almastore-be/internal/push"
	"almastore-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Deliverer interface {
	Deliver(ctx context.Context, n notification.Notification) (*push.Result, error)
}

// notificationRecord is the row image the database webhook sends. The
// timestamp is left as text since the store's format is not RFC 3339.
type notificationRecord struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"user_id"`
	Title     string                `json:"title"`
	Message   string                `json:"message"`
	Type      notification.Category `json:"type"`
	ActionURL *string               `json:"action_url"`
	IsRead    bool                  `json:"is_read"`
	CreatedAt string                `json:"created_at"`
}

type rowEventPayload struct {
	Type   string              `json:"type"`
	Table  string              `json:"table"`
	Schema string              `json:"schema"`
	Record *notificationRecord `json:"record"`
}

type pushResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*push.Result
}

type PushWebhookHandler struct {
	dispatcher Deliverer
}

func NewPushWebhookHandler(dispatcher Deliverer) *PushWebhookHandler {
	return &PushWebhookHandler{dispatcher: dispatcher}
}

func (p *rowEventPayload) validate() string {
	switch {
	case p.Type != "INSERT":
		return "unsupported event type"
	case p.Table != "notifications":
		return "unsupported table"
	case p.Record == nil:
		return "missing record"
	case p.Record.ID == uuid.Nil || p.Record.UserID == uuid.Nil:
		return "record is missing id or user_id"
	}
	return ""
}

func (h *PushWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("handler", "push_webhook"))

	var payload rowEventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if reason := payload.validate(); reason != "" {
		log.Warn("rejected webhook payload",
			zap.String("reason", reason),
			zap.String("type", payload.Type),
			zap.String("table", payload.Table),
		)
		utils.WriteJSONError(w, "Invalid webhook payload: "+reason, http.StatusBadRequest)
		return
	}

	rec := payload.Record
	n := notification.Notification{
		ID:          rec.ID,
		RecipientID: rec.UserID,
		Title:       rec.Title,
		Message:     rec.Message,
		Category:    rec.Type,
		ActionURL:   rec.ActionURL,
		IsRead:      rec.IsRead,
	}

	res, err := h.dispatcher.Deliver(ctx, n)
	if err != nil {
		log.Error("push delivery failed",
			zap.String("notification_id", rec.ID.String()),
			zap.Error(err),
		)
		utils.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	msg := "Push notifications sent"
	if res.NoRecipients() {
		msg = "No push tokens found for user"
	}

	utils.WriteJSON(w, http.StatusOK, pushResponse{
		Success: true,
		Message: msg,
		Result:  res,
	})
}
