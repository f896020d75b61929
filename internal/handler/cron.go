package handler

import (
	"context"
	"net/http"

	"almastore-be/internal/logger"
	"almastore-be/internal/reconcile"
	"almastore-be/internal/utils"

	"go.uber.org/zap"
)

type Reconciler interface {
	Run(ctx context.Context) (*reconcile.Summary, error)
}

type autoCompleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*reconcile.Summary
}

type CronHandler struct {
	worker Reconciler
}

func NewCronHandler(worker Reconciler) *CronHandler {
	return &CronHandler{worker: worker}
}

// AutoCompleteOrders runs one reconciliation pass. Authentication happens
// in middleware before this handler is reached.
func (h *CronHandler) AutoCompleteOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("handler", "auto_complete_orders"),
		zap.String("caller", utils.CallerFromContext(ctx)),
	)

	summary, err := h.worker.Run(ctx)
	if err != nil {
		log.Error("auto-complete run failed", zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "failed to auto-complete orders",
		})
		return
	}

	msg := "Orders auto-completed"
	if summary.CompletedCount == 0 {
		msg = "No orders to auto-complete"
	}

	utils.WriteJSON(w, http.StatusOK, autoCompleteResponse{
		Success: true,
		Message: msg,
		Summary: summary,
	})
}
