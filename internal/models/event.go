package models

// Event represents a loggable action in the system, e.g. a signup, a new
// post, or a follow. Actor is the username that performed the action.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`  // e.g. "user.follow", "post.create"
	Level     string `json:"level"` // e.g. "info", "warn"
	Message   string `json:"message"`
	Actor     string `json:"actor"`
	CreatedAt int64  `json:"createdAt"`
}
