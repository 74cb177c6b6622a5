package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"drift-bottle/internal/engine/actors"
	"drift-bottle/internal/middleware"
	"drift-bottle/internal/utils"

	"github.com/google/uuid"
)

const (
	maxAliasLength   = 50
	maxContentLength = 2000
)

// CreateMessageRequest represents a request to send a new bottle message.
// The sender identity comes from the JWT, never from the body; the alias
// is the only sender-chosen name the recipient will see.
type CreateMessageRequest struct {
	RecipientID   string `json:"recipientId"`
	SenderAlias   string `json:"senderAlias"`
	Content       string `json:"content"`
	MoodEmoji     string `json:"moodEmoji"`
	TrackID       string `json:"spotifyTrackId"`
	TrackName     string `json:"spotifyTrackName"`
	TrackArtist   string `json:"spotifyArtist"`
	TrackAlbumArt string `json:"spotifyAlbumArt"`
	TrackURI      string `json:"spotifyUri"`
}

// HandleMessage handles message creation and deletion
func (s *Server) HandleMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.handleCreateMessage(w, r)
		case http.MethodDelete:
			s.handleDeleteMessage(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		http.Error(w, "Invalid recipient ID format", http.StatusBadRequest)
		return
	}

	alias := strings.TrimSpace(req.SenderAlias)
	content := strings.TrimSpace(req.Content)

	if alias == "" {
		http.Error(w, "Sender alias is required", http.StatusBadRequest)
		return
	}
	if len(alias) > maxAliasLength {
		http.Error(w, "Sender alias too long", http.StatusBadRequest)
		return
	}
	if content == "" {
		http.Error(w, "Message content is required", http.StatusBadRequest)
		return
	}
	if len(content) > maxContentLength {
		http.Error(w, "Message content too long", http.StatusBadRequest)
		return
	}

	future := s.Context.RequestFuture(s.Engine.GetMessageActor(), &actors.CreateMessageMsg{
		SenderID:      userID,
		RecipientID:   recipientID,
		SenderAlias:   alias,
		Content:       content,
		MoodEmoji:     req.MoodEmoji,
		TrackID:       req.TrackID,
		TrackName:     req.TrackName,
		TrackArtist:   req.TrackArtist,
		TrackAlbumArt: req.TrackAlbumArt,
		TrackURI:      req.TrackURI,
	}, s.RequestTimeout)

	result, err := future.Result()
	if err != nil {
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
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

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		http.Error(w, "Message ID required", http.StatusBadRequest)
		return
	}

	messageID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid message ID format", http.StatusBadRequest)
		return
	}

	future := s.Context.RequestFuture(s.Engine.GetMessageActor(), &actors.DeleteMessageMsg{
		MessageID: messageID,
		UserID:    userID,
	}, s.RequestTimeout)

	result, err := future.Result()
	if err != nil {
		http.Error(w, "Failed to delete message", http.StatusInternalServerError)
		return
	}

	if appErr, ok := result.(*utils.AppError); ok {
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"deleted": true})
}

// HandleInbox returns the caller's received and sent messages along with
// reactions and reply counts for each
func (s *Server) HandleInbox() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetMessageActor(),
			&actors.GetInboxMsg{UserID: userID},
			s.RequestTimeout,
		)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to get inbox", http.StatusInternalServerError)
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
