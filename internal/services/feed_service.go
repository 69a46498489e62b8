package services

import (
	"sort"

	"github.com/cadenr/youface-be/internal/models"
)

// FeedScope selects which authors contribute to the feed.
type FeedScope string

const (
	// ScopeGlobal includes every author. This is the default scope.
	ScopeGlobal FeedScope = "global"
	// ScopeFriends restricts the feed to the viewer's mutual friends plus
	// the viewer themselves.
	ScopeFriends FeedScope = "friends"
)

// FeedServiceProvider defines the interface for the feed composer.
type FeedServiceProvider interface {
	FeedFor(viewer *models.User, scope FeedScope) ([]models.PostView, error)
	ProfileFeed(username string) ([]models.Post, error)
}

// FeedService aggregates posts into time-ordered views.
type FeedService struct {
	users UserServiceProvider
	posts PostServiceProvider
}

// NewFeedService creates a new FeedService.
func NewFeedService(users UserServiceProvider, posts PostServiceProvider) *FeedService {
	return &FeedService{users: users, posts: posts}
}

// FeedFor composes the feed: every valid post in scope, enriched with its
// like count and whether the viewer liked it, sorted newest first. The
// sort is stable, so repeated calls over unmodified data return the same
// order even for equal timestamps. A nil viewer gets the global feed with
// LikedByViewer always false.
func (s *FeedService) FeedFor(viewer *models.User, scope FeedScope) ([]models.PostView, error) {
	all, err := s.posts.AllPosts()
	if err != nil {
		return nil, err
	}

	var allowed map[string]bool
	if scope == ScopeFriends && viewer != nil {
		friends, err := s.users.Friends(*viewer)
		if err != nil {
			return nil, err
		}
		allowed = map[string]bool{viewer.Username: true}
		for _, f := range friends {
			allowed[f.Username] = true
		}
	}

	views := make([]models.PostView, 0, len(all))
	for _, post := range all {
		if !post.Valid() {
			continue
		}
		if allowed != nil && !allowed[post.AuthorUsername] {
			continue
		}
		count, err := s.posts.LikeCount(post.ID)
		if err != nil {
			return nil, err
		}
		view := models.PostView{Post: post, LikeCount: count}
		if viewer != nil {
			liked, err := s.posts.HasLiked(viewer.ID, post.ID)
			if err != nil {
				return nil, err
			}
			view.LikedByViewer = liked
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt > views[j].CreatedAt
	})
	return views, nil
}

// ProfileFeed returns the valid posts authored by one user, newest first.
func (s *FeedService) ProfileFeed(username string) ([]models.Post, error) {
	authored, err := s.posts.PostsBy(username)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(authored))
	for _, post := range authored {
		if post.Valid() {
			posts = append(posts, post)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts, nil
}
