package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"almastore-be/internal/auth"
	"almastore-be/internal/logger"
	"almastore-be/internal/utils"

	"go.uber.org/zap"
)

const (
	CallerScheduler = "scheduler"
	CallerService   = "service"
	CallerWebhook   = "webhook"
)

func secretEqual(given, want string) bool {
	if want == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(want)) == 1
}

// SchedulerAuth admits the external scheduler. The caller may present the
// cron secret or the service-role key, either as a bearer token or in the
// apikey header. Empty secrets never match, so an unconfigured deployment
// rejects everything. Preflight is not special-cased here; mount CORS
// outside this wrapper to answer it.
func SchedulerAuth(cronSecret, serviceRoleKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var bearer string
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				bearer = strings.TrimPrefix(h, "Bearer ")
			}
			apiKey := r.Header.Get("apikey")

			var caller string
			switch {
			case secretEqual(bearer, cronSecret):
				caller = CallerScheduler
			case secretEqual(bearer, serviceRoleKey), secretEqual(apiKey, serviceRoleKey):
				caller = CallerService
			default:
				logger.FromCtx(r.Context()).Warn("unauthorized scheduler call",
					zap.String("path", r.URL.Path),
					zap.Bool("has_authorization", r.Header.Get("Authorization") != ""),
					zap.Bool("has_apikey", apiKey != ""),
				)
				utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithCaller(r.Context(), caller)))
		})
	}
}

// WebhookAuth checks the shared secret the database webhook sends in
// X-Webhook-Secret. With no secret configured every call is admitted.
func WebhookAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" && !secretEqual(r.Header.Get("X-Webhook-Secret"), secret) {
				utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithCaller(r.Context(), CallerWebhook)))
		})
	}
}

// AdminAuth requires a valid access token carrying the admin role.
func AdminAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromCtx(r.Context())

			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(jwtSecret, tokenStr)
			if err != nil {
				log.Warn("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !strings.EqualFold(claims.Role, "admin") {
				log.Warn("non-admin access attempt", zap.String("user_id", userID.String()))
				utils.WriteJSONError(w, "Forbidden", http.StatusForbidden)
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
