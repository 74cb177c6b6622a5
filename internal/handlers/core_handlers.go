package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"drift-bottle/internal/middleware"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":        "healthy",
			"uptime":        s.Metrics.Uptime().String(),
			"request_count": s.Metrics.RequestCount(),
			"error_count":   s.Metrics.ErrorCount(),
			"server_time":   time.Now(),
		})
	}
}

// statusRecorder captures the status code a handler writes.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestMetrics counts every request and every error response.
func (s *Server) withRequestMetrics(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r)
		if rec.status >= http.StatusBadRequest {
			s.Metrics.IncrementErrors()
		}
	}
}

// RegisterRoutes wires every endpoint onto the mux. Each handler is
// wrapped with JWT validation; routes listed in UnprotectedRoutes pass
// through unauthenticated.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	routes := map[string]http.HandlerFunc{
		"/health":         s.HandleHealth(),
		"/user/register":  s.HandleRegister(),
		"/user/login":     s.HandleLogin(),
		"/profiles":       s.HandleProfiles(),
		"/message":        s.HandleMessage(),
		"/message/inbox":  s.HandleInbox(),
		"/reaction":       s.HandleReaction(),
		"/reply":          s.HandleReply(),
		"/thread":         s.HandleThread(),
		"/spotify/search": s.HandleTrackSearch(),
		"/ws":             s.HandleWebSocket(),
	}

	for path, handler := range routes {
		if path == "/ws" {
			// Websocket auth uses the token query parameter, not the
			// Authorization header; the upgrade also needs the raw
			// connection, so the endpoint stays unwrapped.
			mux.HandleFunc(path, handler)
			continue
		}
		mux.HandleFunc(path, s.withRequestMetrics(middleware.ApplyJWTMiddleware(handler, path)))
	}
}
