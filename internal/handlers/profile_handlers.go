package handlers

import (
	"encoding/json"
	"net/http"

	"drift-bottle/internal/engine/actors"
	"drift-bottle/internal/utils"

	"github.com/google/uuid"
)

// HandleProfiles serves the recipient directory. With no query parameter
// it returns every registered profile; with ?id= it returns one.
func (s *Server) HandleProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		idStr := r.URL.Query().Get("id")
		if idStr != "" {
			userID, err := uuid.Parse(idStr)
			if err != nil {
				http.Error(w, "Invalid user ID format", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(
				s.Engine.GetProfileActor(),
				&actors.GetProfileMsg{UserID: userID},
				s.RequestTimeout,
			)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to get profile", http.StatusInternalServerError)
				return
			}

			if appErr, ok := result.(*utils.AppError); ok {
				http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(result)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetProfileActor(),
			&actors.GetAllProfilesMsg{},
			s.RequestTimeout,
		)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to get profiles", http.StatusInternalServerError)
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
