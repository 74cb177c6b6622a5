package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"drift-bottle/internal/engine/actors"
	"drift-bottle/internal/middleware"
	"drift-bottle/internal/models"
	"drift-bottle/internal/utils"
)

// RegisterRequest represents a request to register a new account
type RegisterRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest represents a request to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a response to a login request
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

// HandleRegister handles requests to register a new account
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.DisplayName) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			http.Error(w, "Display name, email and password are required", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetProfileActor(),
			&actors.RegisterProfileMsg{
				DisplayName: req.DisplayName,
				Email:       req.Email,
				Password:    req.Password,
			},
			s.RequestTimeout,
		)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to register", http.StatusInternalServerError)
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

// HandleLogin handles login requests and issues a JWT on success
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetProfileActor(),
			&actors.LoginMsg{
				Email:    req.Email,
				Password: req.Password,
			},
			s.RequestTimeout,
		)

		result, err := future.Result()
		if err != nil {
			log.Printf("HTTP Handler: Error getting login result: %v", err)
			http.Error(w, "Failed to process login", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if appErr, ok := result.(*utils.AppError); ok {
			w.WriteHeader(utils.AppErrorToHTTPStatus(appErr.Code))
			json.NewEncoder(w).Encode(&LoginResponse{
				Success: false,
				Error:   appErr.Message,
			})
			return
		}

		profile, ok := result.(*models.Profile)
		if !ok {
			log.Printf("HTTP Handler: Invalid response type: %T", result)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		token, err := middleware.GenerateToken(profile.ID)
		if err != nil {
			log.Printf("HTTP Handler: Failed to generate token: %v", err)
			http.Error(w, "Failed to generate auth token", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(&LoginResponse{
			Success: true,
			Token:   token,
			UserID:  profile.ID.String(),
		})
	}
}
