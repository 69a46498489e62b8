package models

// Like records that a user liked a post. At most one record exists per
// (UserID, PostID) pair; existence of the record is the "liked" predicate.
type Like struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	PostID    int64 `json:"postId"`
	CreatedAt int64 `json:"createdAt"`
}
