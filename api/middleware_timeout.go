package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// TimeoutMiddleware bounds the request context so database and gateway calls
// made by handlers give up after timeout. Websocket upgrades are left alone.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if websocket.IsWebSocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
