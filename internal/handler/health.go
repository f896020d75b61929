package handler

import (
	"context"
	"net/http"
	"time"

	"almastore-be/internal/utils"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DB_UNAVAILABLE"})
				return
			}
		}

		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}
}
