package main

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// requestIDMiddleware stamps every request with an X-Request-ID (or
// generates one) and logs it, matching the teacher's
// requestIDMiddleware in api/main.go.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", reqID)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "requestId", reqID)
		next.ServeHTTP(w, r)
	})
}
