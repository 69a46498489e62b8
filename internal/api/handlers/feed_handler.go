package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cadenr/youface-be/internal/services"
)

// FeedHandler handles HTTP requests for the feed and profile views.
type FeedHandler struct {
	users services.UserServiceProvider
	feed  services.FeedServiceProvider
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(users services.UserServiceProvider, feed services.FeedServiceProvider) *FeedHandler {
	return &FeedHandler{users: users, feed: feed}
}

// Feed returns the acting user's feed. The default scope is global;
// ?scope=friends restricts it to mutual friends plus the viewer.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}

	scope := services.ScopeGlobal
	if r.URL.Query().Get("scope") == string(services.ScopeFriends) {
		scope = services.ScopeFriends
	}

	views, err := h.feed.FeedFor(&user, scope)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Profile returns the posts authored by one user, newest first.
func (h *FeedHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if _, err := currentUser(r, h.users); err != nil {
		writeError(w, err, services.Result{})
		return
	}

	target := chi.URLParam(r, "username")
	if _, err := h.users.GetUserByName(target); err != nil {
		writeError(w, err, services.Result{})
		return
	}

	posts, err := h.feed.ProfileFeed(target)
	if err != nil {
		writeError(w, err, services.Result{})
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
