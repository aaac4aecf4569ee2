package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mailrelay/mailrelay/internal/logger"
	"github.com/mailrelay/mailrelay/internal/source"
)

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dispatcher sends the body of a message source
type Dispatcher interface {
	SendMessage(ctx context.Context, src source.Source) (string, error)
}

// SourceFactory builds message sources by kind
type SourceFactory interface {
	New(kind, ref string) (source.Source, error)
}

// Handler holds all HTTP handlers
type Handler struct {
	checks     map[string]HealthChecker
	log        *logger.Logger
	sources    SourceFactory
	dispatcher Dispatcher
}

// New creates a new Handler instance. checks maps a service name to its
// health checker and may be empty.
func New(checks map[string]HealthChecker, log *logger.Logger, sources SourceFactory, dispatcher Dispatcher) *Handler {
	return &Handler{
		checks:     checks,
		log:        log.WithComponent("handler"),
		sources:    sources,
		dispatcher: dispatcher,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}
