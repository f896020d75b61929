package middleware

import "net/http"

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type, x-webhook-secret"

// CORS answers browser preflights for the scheduler and webhook endpoints,
// which are invoked from the hosting dashboard as well as server-side.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
