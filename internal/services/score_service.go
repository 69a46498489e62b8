package services

import (
	"sort"

	"github.com/cadenr/youface-be/internal/models"
	"github.com/cadenr/youface-be/internal/store"
)

// Clout point weights. Adjust these to change how the leaderboard ranks.
const (
	PointsPerFollower        = 50
	PointsPerCommentReceived = 20
	PointsPerLikeReceived    = 10
	PointsPerPostMade        = 5
)

// ScoreServiceProvider defines the interface for the score engine.
type ScoreServiceProvider interface {
	Leaderboard() ([]models.LeaderboardEntry, error)
}

// ScoreService computes the clout ranking over a full snapshot of users,
// posts and likes.
type ScoreService struct {
	store *store.Store
}

// NewScoreService creates a new ScoreService.
func NewScoreService(st *store.Store) *ScoreService {
	return &ScoreService{store: st}
}

// Leaderboard returns every user ranked by clout score, descending. The
// sort is stable so ties keep store iteration order. Posts whose author no
// longer exists contribute nothing and are skipped without error.
func (s *ScoreService) Leaderboard() ([]models.LeaderboardEntry, error) {
	userRecs, err := s.store.All(store.TableUsers)
	if err != nil {
		return nil, err
	}
	postRecs, err := s.store.All(store.TablePosts)
	if err != nil {
		return nil, err
	}
	likeRecs, err := s.store.All(store.TableLikes)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.LeaderboardEntry, 0, len(userRecs))
	byName := make(map[string]*models.LeaderboardEntry, len(userRecs))
	for _, rec := range userRecs {
		var u models.User
		if err := rec.Decode(&u); err != nil {
			return nil, err
		}
		entry := &models.LeaderboardEntry{
			Username: u.Username,
			Points:   len(u.Followers) * PointsPerFollower,
			Stats:    models.LeaderboardStats{Followers: len(u.Followers)},
		}
		entries = append(entries, entry)
		byName[u.Username] = entry
	}

	// Map post ids to their owners so likes can be attributed below.
	postOwner := make(map[int64]string, len(postRecs))
	for _, rec := range postRecs {
		var p models.Post
		if err := rec.Decode(&p); err != nil {
			return nil, err
		}
		owner, ok := byName[p.AuthorUsername]
		if !ok {
			// Author was deleted but the post remains.
			continue
		}
		postOwner[rec.ID] = p.AuthorUsername

		owner.Stats.Posts++
		owner.Points += PointsPerPostMade
		owner.Stats.Comments += len(p.Comments)
		owner.Points += len(p.Comments) * PointsPerCommentReceived
	}

	for _, rec := range likeRecs {
		var l models.Like
		if err := rec.Decode(&l); err != nil {
			return nil, err
		}
		ownerName, ok := postOwner[l.PostID]
		if !ok {
			continue
		}
		// Points go to the owner of the liked post, not the liker.
		owner := byName[ownerName]
		owner.Stats.Likes++
		owner.Points += PointsPerLikeReceived
	}

	ranked := make([]models.LeaderboardEntry, len(entries))
	for i, e := range entries {
		ranked[i] = *e
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	return ranked, nil
}
