package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostAlwaysSucceeds(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	alice := mustCreateUser(t, users, "alice")

	for _, text := range []string{"hello", "", "   "} {
		post, err := posts.CreatePost(alice, text)
		require.NoError(t, err)
		assert.Equal(t, "alice", post.AuthorUsername)
		assert.Equal(t, alice.ID, post.AuthorID)
	}

	// All three are in the ledger; only one is valid.
	authored, err := posts.PostsBy("alice")
	require.NoError(t, err)
	require.Len(t, authored, 3)
	valid := 0
	for _, p := range authored {
		if p.Valid() {
			valid++
		}
	}
	assert.Equal(t, 1, valid)
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")

	post, err := posts.CreatePost(alice, "hello")
	require.NoError(t, err)

	result, err := posts.Like(bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, SeveritySuccess, result.Severity)

	count, err := posts.LikeCount(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	liked, err := posts.HasLiked(bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	_, err = posts.Unlike(bob.ID, post.ID)
	require.NoError(t, err)

	count, err = posts.LikeCount(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	liked, err = posts.HasLiked(bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikeTwiceConflicts(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")

	post, err := posts.CreatePost(alice, "hello")
	require.NoError(t, err)

	_, err = posts.Like(bob.ID, post.ID)
	require.NoError(t, err)
	result, err := posts.Like(bob.ID, post.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, SeverityInfo, result.Severity)

	count, err := posts.LikeCount(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLikeMissingPost(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	bob := mustCreateUser(t, users, "bob")

	_, err := posts.Like(bob.ID, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnlikeWithoutLike(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")

	post, err := posts.CreatePost(alice, "hello")
	require.NoError(t, err)

	result, err := posts.Unlike(bob.ID, post.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, SeverityInfo, result.Severity)
}

func TestLikeCountNeverDrifts(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")
	carol := mustCreateUser(t, users, "carol")

	post, err := posts.CreatePost(alice, "hello")
	require.NoError(t, err)

	// An arbitrary sequence of likes, repeats and unlikes.
	posts.Like(bob.ID, post.ID)
	posts.Like(bob.ID, post.ID) // conflict, no effect
	posts.Like(carol.ID, post.ID)
	posts.Unlike(bob.ID, post.ID)
	posts.Unlike(bob.ID, post.ID) // invalid state, no effect
	posts.Like(bob.ID, post.ID)

	count, err := posts.LikeCount(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddComment(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	clock := &fakeClock{}
	posts.now = clock.Now
	alice := mustCreateUser(t, users, "alice")

	post, err := posts.CreatePost(alice, "hello")
	require.NoError(t, err)

	first, err := posts.AddComment(post.ID, "bob", "nice")
	require.NoError(t, err)
	assert.Equal(t, "bob", first.Author)

	second, err := posts.AddComment(post.ID, "carol", "agreed")
	require.NoError(t, err)

	// Comments are appended in order and persisted on the post document.
	stored, err := posts.GetPost(post.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 2)
	assert.Equal(t, first, stored.Comments[0])
	assert.Equal(t, second, stored.Comments[1])
}

func TestAddCommentValidation(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	alice := mustCreateUser(t, users, "alice")

	post, err := posts.CreatePost(alice, "hello")
	require.NoError(t, err)

	_, err = posts.AddComment(post.ID, "bob", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = posts.AddComment(404, "bob", "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}
