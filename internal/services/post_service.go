package services

import (
	"fmt"
	"time"

	"github.com/cadenr/youface-be/internal/models"
	"github.com/cadenr/youface-be/internal/store"
)

// PostServiceProvider defines the interface for the post and engagement
// ledger.
type PostServiceProvider interface {
	CreatePost(author models.User, text string) (models.Post, error)
	GetPost(postID int64) (models.Post, error)
	PostsBy(username string) ([]models.Post, error)
	AllPosts() ([]models.Post, error)
	Like(userID, postID int64) (Result, error)
	Unlike(userID, postID int64) (Result, error)
	LikeCount(postID int64) (int, error)
	HasLiked(userID, postID int64) (bool, error)
	AddComment(postID int64, username, text string) (models.Comment, error)
}

// PostService manages posts, likes and comments.
type PostService struct {
	store *store.Store
	now   func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(st *store.Store) *PostService {
	return &PostService{store: st, now: time.Now}
}

func byLikePair(userID, postID int64) store.Predicate {
	return func(r store.Record) bool {
		var l models.Like
		if r.Decode(&l) != nil {
			return false
		}
		return l.UserID == userID && l.PostID == postID
	}
}

func byLikedPost(postID int64) store.Predicate {
	return func(r store.Record) bool {
		var l models.Like
		if r.Decode(&l) != nil {
			return false
		}
		return l.PostID == postID
	}
}

// CreatePost stores a new post. It always succeeds, even for empty or
// whitespace text; such posts are kept in the ledger but filtered out of
// every read path.
func (s *PostService) CreatePost(author models.User, text string) (models.Post, error) {
	post := models.Post{
		AuthorUsername: author.Username,
		AuthorID:       author.ID,
		Text:           text,
		CreatedAt:      s.now().Unix(),
		Comments:       []models.Comment{},
	}
	id, err := s.store.Insert(store.TablePosts, post)
	if err != nil {
		return models.Post{}, err
	}
	post.ID = id
	return post, nil
}

// GetPost retrieves a post by id.
func (s *PostService) GetPost(postID int64) (models.Post, error) {
	rec, err := s.store.Get(store.TablePosts, store.ByID(postID))
	if err != nil {
		return models.Post{}, err
	}
	if rec == nil {
		return models.Post{}, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	var post models.Post
	if err := rec.Decode(&post); err != nil {
		return models.Post{}, err
	}
	post.ID = rec.ID
	return post, nil
}

// PostsBy returns every post authored by username, in scan order,
// including invalid (empty-text) posts. Read surfaces apply the validity
// filter themselves.
func (s *PostService) PostsBy(username string) ([]models.Post, error) {
	records, err := s.store.Search(store.TablePosts, func(r store.Record) bool {
		var p models.Post
		if r.Decode(&p) != nil {
			return false
		}
		return p.AuthorUsername == username
	})
	if err != nil {
		return nil, err
	}
	return decodePosts(records)
}

// AllPosts returns every post in the ledger, in scan order.
func (s *PostService) AllPosts() ([]models.Post, error) {
	records, err := s.store.All(store.TablePosts)
	if err != nil {
		return nil, err
	}
	return decodePosts(records)
}

// Like records that a user liked a post. At most one like exists per
// (user, post) pair; a repeat call reports the conflict and changes
// nothing.
func (s *PostService) Like(userID, postID int64) (Result, error) {
	unlock := s.store.Lock()
	defer unlock()

	postRec, err := s.store.Get(store.TablePosts, store.ByID(postID))
	if err != nil {
		return Result{}, err
	}
	if postRec == nil {
		return Result{Message: "That post no longer exists.", Severity: SeverityDanger},
			fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}

	existing, err := s.store.Get(store.TableLikes, byLikePair(userID, postID))
	if err != nil {
		return Result{}, err
	}
	if existing != nil {
		return Result{Message: "Post already liked.", Severity: SeverityInfo},
			fmt.Errorf("like exists for user %d post %d: %w", userID, postID, ErrConflict)
	}

	like := models.Like{UserID: userID, PostID: postID, CreatedAt: s.now().Unix()}
	if _, err := s.store.Insert(store.TableLikes, like); err != nil {
		return Result{}, err
	}
	return Result{Message: "Post liked!", Severity: SeveritySuccess}, nil
}

// Unlike removes the like for a (user, post) pair, reporting the missing
// relationship when there is none.
func (s *PostService) Unlike(userID, postID int64) (Result, error) {
	unlock := s.store.Lock()
	defer unlock()

	count, err := s.store.Remove(store.TableLikes, byLikePair(userID, postID))
	if err != nil {
		return Result{}, err
	}
	if count == 0 {
		return Result{Message: "You have not liked this post.", Severity: SeverityInfo},
			fmt.Errorf("no like for user %d post %d: %w", userID, postID, ErrInvalidState)
	}
	return Result{Message: "Post unliked.", Severity: SeveritySuccess}, nil
}

// LikeCount counts the like records referencing a post. The count is
// always derived from the likes table, never cached on the post document,
// so it cannot drift.
func (s *PostService) LikeCount(postID int64) (int, error) {
	likes, err := s.store.Search(store.TableLikes, byLikedPost(postID))
	if err != nil {
		return 0, err
	}
	return len(likes), nil
}

// HasLiked reports whether a user has liked a post.
func (s *PostService) HasLiked(userID, postID int64) (bool, error) {
	rec, err := s.store.Get(store.TableLikes, byLikePair(userID, postID))
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// AddComment appends a comment to a post and persists the whole updated
// document. Comments are append-only; nothing ever reorders or deletes
// them.
func (s *PostService) AddComment(postID int64, username, text string) (models.Comment, error) {
	if text == "" {
		return models.Comment{}, fmt.Errorf("comment text is required: %w", ErrValidation)
	}

	unlock := s.store.Lock()
	defer unlock()

	post, err := s.GetPost(postID)
	if err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{Author: username, Text: text, CreatedAt: s.now().Unix()}
	post.Comments = append(post.Comments, comment)
	if _, err := s.store.Update(store.TablePosts, post, store.ByID(postID)); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

func decodePosts(records []store.Record) ([]models.Post, error) {
	var posts []models.Post
	for _, rec := range records {
		var p models.Post
		if err := rec.Decode(&p); err != nil {
			return nil, err
		}
		p.ID = rec.ID
		posts = append(posts, p)
	}
	return posts, nil
}
