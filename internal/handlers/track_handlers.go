package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"drift-bottle/internal/spotify"
)

// TrackSearchRequest represents a request to search for tracks
type TrackSearchRequest struct {
	Query string `json:"query"`
}

// TrackSearchResponse represents the normalized search results
type TrackSearchResponse struct {
	Tracks []spotify.Track `json:"tracks"`
}

// HandleTrackSearch proxies track searches so provider credentials never
// reach the client. An empty query is rejected before any upstream call.
func (s *Server) HandleTrackSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req TrackSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Query) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Query parameter is required"})
			return
		}

		tracks, err := s.Spotify.Search(r.Context(), req.Query)
		if err != nil {
			// The gateway contract is 200 {tracks} or 400 {error}; upstream
			// failures are folded into the same error shape.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Failed to search tracks"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&TrackSearchResponse{Tracks: tracks})
	}
}
