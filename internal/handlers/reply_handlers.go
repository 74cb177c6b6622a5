package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"drift-bottle/internal/engine/actors"
	"drift-bottle/internal/middleware"
	"drift-bottle/internal/utils"
)

const maxReplyLength = 1000

// CreateReplyRequest represents a request to append a reply to a thread
type CreateReplyRequest struct {
	MessageToken string `json:"messageToken"`
	Content      string `json:"content"`
}

// HandleReply handles requests to append a reply to a message thread
func (s *Server) HandleReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateReplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if req.MessageToken == "" {
			http.Error(w, "Message token required", http.StatusBadRequest)
			return
		}

		content := strings.TrimSpace(req.Content)
		if content == "" {
			http.Error(w, "Reply content is required", http.StatusBadRequest)
			return
		}
		if len(content) > maxReplyLength {
			http.Error(w, "Reply content too long", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetReplyActor(), &actors.CreateReplyMsg{
			MessageToken: req.MessageToken,
			AuthorID:     userID,
			Content:      content,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to save reply", http.StatusInternalServerError)
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

// HandleThread returns a message and its full reply history, oldest first
func (s *Server) HandleThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		token := r.URL.Query().Get("tokenId")
		if token == "" {
			http.Error(w, "Token ID required", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetReplyActor(),
			&actors.GetThreadMsg{Token: token},
			s.RequestTimeout,
		)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to get thread", http.StatusInternalServerError)
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
