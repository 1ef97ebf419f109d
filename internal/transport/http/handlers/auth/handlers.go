package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/auth"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
)

type Handler struct {
	Auth *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Auth: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.handleSignup)
	r.Post("/auth/token", h.handleToken)
}

type signupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	GroupName string `json:"group_name"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload signupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" || strings.TrimSpace(payload.GroupName) == "" {
		api.Error(w, http.StatusBadRequest, "username, password and group_name are required")
		return
	}

	user, err := h.Auth.Signup(r.Context(), payload.Username, payload.Password, payload.GroupName)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			api.Error(w, http.StatusConflict, "username already registered")
			return
		}
		slog.Error("signup failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	api.WriteJSON(w, http.StatusOK, user)
}

// handleToken implements the form-encoded login exchange: credentials in,
// bearer token out.
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid form payload")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.Auth.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			api.Unauthorized(w)
			return
		}
		slog.Error("authenticate failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	token, err := h.Auth.IssueToken(user.Username)
	if err != nil {
		slog.Error("token issue failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	api.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
