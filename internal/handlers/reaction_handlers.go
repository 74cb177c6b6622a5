package handlers

import (
	"encoding/json"
	"net/http"

	"drift-bottle/internal/engine/actors"
	"drift-bottle/internal/models"
	"drift-bottle/internal/utils"
)

// CreateReactionRequest represents a request to react to a message. No
// user ID is carried; reactions are stored anonymously against the token.
type CreateReactionRequest struct {
	MessageToken string `json:"messageToken"`
	ReactionType string `json:"reactionType"`
}

// HandleReaction handles requests to add a reaction to a message
func (s *Server) HandleReaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req CreateReactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if req.MessageToken == "" {
			http.Error(w, "Message token required", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetReactionActor(), &actors.CreateReactionMsg{
			MessageToken: req.MessageToken,
			ReactionType: models.ReactionType(req.ReactionType),
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to save reaction", http.StatusInternalServerError)
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(result)
	}
}
