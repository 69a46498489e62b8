package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cadenr/youface-be/internal/services"
	ws "github.com/cadenr/youface-be/internal/websocket"
)

// PostHandler handles HTTP requests for posts, likes and comments.
type PostHandler struct {
	users  services.UserServiceProvider
	posts  services.PostServiceProvider
	events services.EventServiceProvider
	hub    *ws.Hub
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(users services.UserServiceProvider, posts services.PostServiceProvider, events services.EventServiceProvider, hub *ws.Hub) *PostHandler {
	return &PostHandler{users: users, posts: posts, events: events, hub: hub}
}

// postID parses the {id} route parameter.
func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed post id: %w", services.ErrValidation)
	}
	return id, nil
}

// Create stores a new post by the acting user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.CreatePost(user, payload.Text)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to create post")
		writeError(w, err, services.Result{})
		return
	}

	if post.Valid() {
		h.events.Record("post.create", "info", fmt.Sprintf("%s posted", user.Username), user.Username)
		h.hub.BroadcastTo(user.Username, ws.NewMessage("post", post))
	}
	writeJSON(w, http.StatusCreated, post)
}

// Like records the acting user's like on a post.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	id, err := postID(r)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	result, err := h.posts.Like(user.ID, id)
	if err != nil {
		writeError(w, err, result)
		return
	}

	h.events.Record("post.like", "info", fmt.Sprintf("%s liked post %d", user.Username, id), user.Username)
	if post, err := h.posts.GetPost(id); err == nil {
		h.hub.BroadcastTo(post.AuthorUsername, ws.NewMessage("like", map[string]interface{}{
			"postId": id,
			"user":   user.Username,
		}))
	}
	writeJSON(w, http.StatusOK, result)
}

// Unlike removes the acting user's like from a post.
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	id, err := postID(r)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	result, err := h.posts.Unlike(user.ID, id)
	if err != nil {
		writeError(w, err, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Comment appends a comment by the acting user to a post.
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	id, err := postID(r)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.posts.AddComment(id, user.Username, payload.Text)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
