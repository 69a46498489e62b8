package models

import "strings"

// Post is a short text update. Posts are never deleted; the only mutation
// after creation is appending to Comments.
//
// AuthorUsername and AuthorID both reference the author; the dual reference
// is a legacy join aid kept for compatibility with stored documents.
type Post struct {
	ID             int64     `json:"id"`
	AuthorUsername string    `json:"author"`
	AuthorID       int64     `json:"authorId"`
	Text           string    `json:"text"`
	CreatedAt      int64     `json:"createdAt"` // unix seconds
	Comments       []Comment `json:"comments"`
}

// Valid reports whether the post should appear on read paths. Empty and
// whitespace-only posts are stored but never rendered.
func (p Post) Valid() bool {
	return strings.TrimSpace(p.Text) != ""
}

// Comment is embedded in exactly one post and immutable once appended.
type Comment struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// PostView is a post enriched for presentation. Not persisted.
type PostView struct {
	Post
	LikeCount     int  `json:"likeCount"`
	LikedByViewer bool `json:"likedByViewer"`
}
