package router

import (
	"net/http"

	"github.com/mailrelay/mailrelay/internal/handler"
	"github.com/mailrelay/mailrelay/internal/middleware"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	mux.HandleFunc("GET /api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"mailrelay API v1","version":"` + handler.Version + `"}`))
	})

	mux.Handle("POST /api/v1/messages/send", mw.RateLimit(http.HandlerFunc(h.SendMessage)))

	// Apply middleware stack
	var handler http.Handler = mux

	// Request logging
	handler = mw.Logger(handler)

	// Request ID
	handler = mw.RequestID(handler)

	// Panic recovery (outermost)
	handler = mw.Recover(handler)

	return handler
}
