package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cadenr/youface-be/internal/auth"
	"github.com/cadenr/youface-be/internal/models"
	"github.com/cadenr/youface-be/internal/services"
	ws "github.com/cadenr/youface-be/internal/websocket"
)

// UserHandler handles HTTP requests for accounts and the follow graph.
type UserHandler struct {
	users  services.UserServiceProvider
	events services.EventServiceProvider
	hub    *ws.Hub
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, events services.EventServiceProvider, hub *ws.Hub) *UserHandler {
	return &UserHandler{users: users, events: events, hub: hub}
}

// CredentialsPayload defines the structure for register and login
// requests.
type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new account creation.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.CreateUser(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		writeError(w, err, services.Result{})
		return
	}

	h.events.Record("user.create", "info", fmt.Sprintf("%s joined", user.Username), user.Username)
	writeJSON(w, http.StatusCreated, user.Sanitize())
}

// Login authenticates a credential pair and issues the credential token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed authentication attempt")
		writeError(w, err, services.Result{})
		return
	}

	token, err := auth.GenerateToken(payload.Username, payload.Password)
	if err != nil {
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to generate token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	isProd := os.Getenv("APP_ENV") == "production"
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Sanitize(),
	})
}

// Me returns the acting user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	writeJSON(w, http.StatusOK, user.Sanitize())
}

// Delete removes the acting user's account by its credential pair.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(auth.CredentialsKey).(*auth.Claims)
	if !ok {
		http.Error(w, "Missing credentials", http.StatusUnauthorized)
		return
	}
	if err := h.users.DeleteUser(claims.Username, claims.Password); err != nil {
		log.Error().Err(err).Str("username", claims.Username).Msg("Failed to delete account")
		writeError(w, err, services.Result{})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Follow adds the acting user's follow edge to the target username.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	target := chi.URLParam(r, "username")

	result, err := h.users.Follow(user, target)
	if err != nil {
		writeError(w, err, result)
		return
	}

	h.events.Record("user.follow", "info", fmt.Sprintf("%s followed %s", user.Username, target), user.Username)
	h.hub.BroadcastTo(target, ws.NewMessage("follow", map[string]string{
		"follower": user.Username,
		"target":   target,
	}))
	writeJSON(w, http.StatusOK, result)
}

// Unfollow removes the acting user's follow edge to the target username.
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	target := chi.URLParam(r, "username")

	result, err := h.users.Unfollow(user, target)
	if err != nil {
		writeError(w, err, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Relationships returns the acting user's social neighborhood, split into
// the three derived buckets.
func (h *UserHandler) Relationships(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	friends, err := h.users.Friends(user)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	followingOnly, err := h.users.FollowingOnly(user)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	followersOnly, err := h.users.FollowersOnly(user)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"friends":       sanitizeAll(friends),
		"followingOnly": sanitizeAll(followingOnly),
		"followersOnly": sanitizeAll(followersOnly),
	})
}

// Suggestions returns users the acting user might follow.
func (h *UserHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	query := r.URL.Query().Get("query")
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 5 // Default limit
	}

	suggestions, err := h.users.Suggestions(user, query, limit)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	writeJSON(w, http.StatusOK, sanitizeAll(suggestions))
}

// Search matches all other users by username substring.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	results, err := h.users.SearchUsers(user, r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	writeJSON(w, http.StatusOK, sanitizeAll(results))
}

func sanitizeAll(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitize()
	}
	return out
}
