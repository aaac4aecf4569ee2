package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger logs HTTP requests
func (m *Middleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		log := m.log
		if id := GetRequestID(r.Context()); id != "" {
			log = log.WithRequestID(id)
		}
		log.HTTPRequest(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), m.clientIP(r))
	})
}

// clientIP returns the peer address without its port. X-Forwarded-For is
// only honoured when the peer is a trusted proxy, and then its first entry
// is the client.
func (m *Middleware) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if !m.trusted(host) {
		return host
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return host
	}
	first, _, _ := strings.Cut(forwarded, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return host
}

func (m *Middleware) trusted(host string) bool {
	if len(m.proxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range m.proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
