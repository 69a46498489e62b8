package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cadenr/youface-be/internal/models"
	"github.com/cadenr/youface-be/internal/store"
)

// UserServiceProvider defines the interface for the user directory.
type UserServiceProvider interface {
	CreateUser(username, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	GetUserByName(username string) (models.User, error)
	DeleteUser(username, password string) error
	Follow(follower models.User, target string) (Result, error)
	Unfollow(follower models.User, target string) (Result, error)
	Friends(user models.User) ([]models.User, error)
	FollowingOnly(user models.User) ([]models.User, error)
	FollowersOnly(user models.User) ([]models.User, error)
	Suggestions(user models.User, query string, limit int) ([]models.User, error)
	SearchUsers(user models.User, query string) ([]models.User, error)
}

// UserService manages user records and the follow graph.
type UserService struct {
	store *store.Store
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

func byUsername(name string) store.Predicate {
	return func(r store.Record) bool {
		var u models.User
		if r.Decode(&u) != nil {
			return false
		}
		return u.Username == name
	}
}

// getByName loads a user record, or nil when the username is unknown.
func (s *UserService) getByName(name string) (*models.User, error) {
	rec, err := s.store.Get(store.TableUsers, byUsername(name))
	if err != nil || rec == nil {
		return nil, err
	}
	var u models.User
	if err := rec.Decode(&u); err != nil {
		return nil, err
	}
	u.ID = rec.ID
	return &u, nil
}

func (s *UserService) save(u models.User) error {
	_, err := s.store.Update(store.TableUsers, u, store.ByID(u.ID))
	return err
}

// CreateUser registers a new account with empty follow lists. Usernames
// are unique and case-sensitive.
func (s *UserService) CreateUser(username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	unlock := s.store.Lock()
	defer unlock()

	existing, err := s.getByName(username)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, fmt.Errorf("username %q already taken: %w", username, ErrConflict)
	}

	user := models.User{
		Username:  username,
		Password:  password,
		Following: []string{},
		Followers: []string{},
	}
	id, err := s.store.Insert(store.TableUsers, user)
	if err != nil {
		return models.User{}, err
	}
	user.ID = id
	return user, nil
}

// Authenticate resolves a user from a credential pair. The check is
// two-phase so callers can distinguish an unknown username from a wrong
// password in their messaging.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, err := s.getByName(username)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, fmt.Errorf("user %q does not exist: %w", username, ErrNotFound)
	}
	if user.Password != password {
		return models.User{}, ErrWrongPassword
	}
	return *user, nil
}

// GetUserByName looks up a user by username alone.
func (s *UserService) GetUserByName(username string) (models.User, error) {
	user, err := s.getByName(username)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, fmt.Errorf("user %q does not exist: %w", username, ErrNotFound)
	}
	return *user, nil
}

// DeleteUser removes an account by its credential pair. Posts, likes and
// edges referencing the account are left in place; read paths tolerate the
// dangling references.
func (s *UserService) DeleteUser(username, password string) error {
	unlock := s.store.Lock()
	defer unlock()

	count, err := s.store.Remove(store.TableUsers, func(r store.Record) bool {
		var u models.User
		if r.Decode(&u) != nil {
			return false
		}
		return u.Username == username && u.Password == password
	})
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no account matches those credentials: %w", ErrNotFound)
	}
	return nil
}

// Follow adds a one-way edge from follower to target, touching both
// records. The second call for the same pair is a no-op that reports the
// conflict.
func (s *UserService) Follow(follower models.User, target string) (Result, error) {
	unlock := s.store.Lock()
	defer unlock()

	// Re-resolve the follower so a stale argument cannot clobber edges
	// added since it was loaded.
	me, err := s.getByName(follower.Username)
	if err != nil {
		return Result{}, err
	}
	if me == nil {
		return Result{Message: "You need to be logged in to do that.", Severity: SeverityDanger},
			fmt.Errorf("follower %q does not exist: %w", follower.Username, ErrNotFound)
	}

	other, err := s.getByName(target)
	if err != nil {
		return Result{}, err
	}
	if other == nil {
		return Result{Message: fmt.Sprintf("User '%s' not found.", target), Severity: SeverityDanger},
			fmt.Errorf("user %q: %w", target, ErrNotFound)
	}
	if target == me.Username {
		return Result{Message: "You cannot follow yourself.", Severity: SeverityWarning},
			fmt.Errorf("self-follow: %w", ErrValidation)
	}
	if me.IsFollowing(target) {
		return Result{Message: fmt.Sprintf("You are already following %s.", target), Severity: SeverityInfo},
			fmt.Errorf("already following %q: %w", target, ErrConflict)
	}

	me.Following = append(me.Following, target)
	other.Followers = append(other.Followers, me.Username)

	if err := s.save(*me); err != nil {
		return Result{}, err
	}
	if err := s.save(*other); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("You are now following %s.", target), Severity: SeveritySuccess}, nil
}

// Unfollow removes the edge added by Follow. Removal is one-directional
// safe: when the target record no longer exists only the follower's own
// list is updated.
func (s *UserService) Unfollow(follower models.User, target string) (Result, error) {
	unlock := s.store.Lock()
	defer unlock()

	me, err := s.getByName(follower.Username)
	if err != nil {
		return Result{}, err
	}
	if me == nil {
		return Result{Message: "You need to be logged in to do that.", Severity: SeverityDanger},
			fmt.Errorf("follower %q does not exist: %w", follower.Username, ErrNotFound)
	}
	if !me.IsFollowing(target) {
		return Result{Message: "You are not following this user.", Severity: SeverityWarning},
			fmt.Errorf("not following %q: %w", target, ErrInvalidState)
	}

	me.Following = removeName(me.Following, target)
	if err := s.save(*me); err != nil {
		return Result{}, err
	}

	other, err := s.getByName(target)
	if err != nil {
		return Result{}, err
	}
	if other != nil {
		other.Followers = removeName(other.Followers, me.Username)
		if err := s.save(*other); err != nil {
			return Result{}, err
		}
	}
	return Result{Message: fmt.Sprintf("You are no longer following %s.", target), Severity: SeveritySuccess}, nil
}

// Friends resolves the mutual relationships of a user: the intersection of
// following and followers, as full records.
func (s *UserService) Friends(user models.User) ([]models.User, error) {
	me, err := s.GetUserByName(user.Username)
	if err != nil {
		return nil, err
	}
	followers := nameSet(me.Followers)
	var mutual []string
	for _, name := range me.Following {
		if followers[name] {
			mutual = append(mutual, name)
		}
	}
	return s.resolve(mutual)
}

// FollowingOnly resolves the users this user follows who do not follow
// back.
func (s *UserService) FollowingOnly(user models.User) ([]models.User, error) {
	me, err := s.GetUserByName(user.Username)
	if err != nil {
		return nil, err
	}
	followers := nameSet(me.Followers)
	var names []string
	for _, name := range me.Following {
		if !followers[name] {
			names = append(names, name)
		}
	}
	return s.resolve(names)
}

// FollowersOnly resolves the users who follow this user without being
// followed back.
func (s *UserService) FollowersOnly(user models.User) ([]models.User, error) {
	me, err := s.GetUserByName(user.Username)
	if err != nil {
		return nil, err
	}
	following := nameSet(me.Following)
	var names []string
	for _, name := range me.Followers {
		if !following[name] {
			names = append(names, name)
		}
	}
	return s.resolve(names)
}

// Suggestions scans all users and keeps everyone the user is not already
// following, excluding the user themselves. With a query only usernames
// containing it case-insensitively are kept; limit truncates in scan
// order. The order is store iteration order, not a ranking.
func (s *UserService) Suggestions(user models.User, query string, limit int) ([]models.User, error) {
	me, err := s.GetUserByName(user.Username)
	if err != nil {
		return nil, err
	}
	exclude := nameSet(me.Following)
	exclude[me.Username] = true

	records, err := s.store.All(store.TableUsers)
	if err != nil {
		return nil, err
	}

	var out []models.User
	lowered := strings.ToLower(query)
	for _, rec := range records {
		var candidate models.User
		if err := rec.Decode(&candidate); err != nil {
			return nil, err
		}
		candidate.ID = rec.ID

		if exclude[candidate.Username] {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(candidate.Username), lowered) {
			continue
		}
		out = append(out, candidate)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// SearchUsers matches all other users by case-insensitive substring,
// regardless of relationship. An empty query returns nothing.
func (s *UserService) SearchUsers(user models.User, query string) ([]models.User, error) {
	if query == "" {
		return nil, nil
	}
	records, err := s.store.All(store.TableUsers)
	if err != nil {
		return nil, err
	}
	var out []models.User
	lowered := strings.ToLower(query)
	for _, rec := range records {
		var candidate models.User
		if err := rec.Decode(&candidate); err != nil {
			return nil, err
		}
		candidate.ID = rec.ID
		if candidate.Username == user.Username {
			continue
		}
		if strings.Contains(strings.ToLower(candidate.Username), lowered) {
			out = append(out, candidate)
		}
	}
	return out, nil
}

// resolve maps usernames to full records, silently dropping names whose
// record has disappeared.
func (s *UserService) resolve(names []string) ([]models.User, error) {
	sort.Strings(names)
	var out []models.User
	for _, name := range names {
		u, err := s.getByName(name)
		if err != nil {
			return nil, err
		}
		if u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
