package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenr/youface-be/internal/models"
)

func newFeedFixture(t *testing.T) (*UserService, *PostService, *FeedService) {
	t.Helper()
	st := newTestStore(t)
	users := NewUserService(st)
	posts := NewPostService(st)
	clock := &fakeClock{}
	posts.now = clock.Now
	return users, posts, NewFeedService(users, posts)
}

func texts(views []models.PostView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Text
	}
	return out
}

func TestFeedSortedNewestFirst(t *testing.T) {
	users, posts, feed := newFeedFixture(t)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")

	// The fake clock advances one second per post.
	_, err := posts.CreatePost(alice, "first")
	require.NoError(t, err)
	_, err = posts.CreatePost(bob, "second")
	require.NoError(t, err)
	_, err = posts.CreatePost(alice, "third")
	require.NoError(t, err)

	views, err := feed.FeedFor(nil, ScopeGlobal)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, texts(views))

	for i := 1; i < len(views); i++ {
		assert.GreaterOrEqual(t, views[i-1].CreatedAt, views[i].CreatedAt)
	}
}

func TestFeedStableAcrossCalls(t *testing.T) {
	users, posts, feed := newFeedFixture(t)
	alice := mustCreateUser(t, users, "alice")

	// Same timestamp for every post: order must still be reproducible.
	posts.now = func() time.Time { return time.Unix(1000, 0) }
	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := posts.CreatePost(alice, text)
		require.NoError(t, err)
	}

	views1, err := feed.FeedFor(nil, ScopeGlobal)
	require.NoError(t, err)
	views2, err := feed.FeedFor(nil, ScopeGlobal)
	require.NoError(t, err)
	assert.Equal(t, views1, views2)
	// Stable sort keeps scan order for equal timestamps.
	assert.Equal(t, []string{"a", "b", "c", "d"}, texts(views1))
}

func TestFeedExcludesInvalidPosts(t *testing.T) {
	users, posts, feed := newFeedFixture(t)
	alice := mustCreateUser(t, users, "alice")

	_, err := posts.CreatePost(alice, "visible")
	require.NoError(t, err)
	_, err = posts.CreatePost(alice, "")
	require.NoError(t, err)
	_, err = posts.CreatePost(alice, "   \t")
	require.NoError(t, err)

	views, err := feed.FeedFor(nil, ScopeGlobal)
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, texts(views))
}

func TestFeedEnrichment(t *testing.T) {
	users, posts, feed := newFeedFixture(t)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")

	post, err := posts.CreatePost(alice, "hello")
	require.NoError(t, err)
	_, err = posts.Like(bob.ID, post.ID)
	require.NoError(t, err)

	views, err := feed.FeedFor(&bob, ScopeGlobal)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].LikeCount)
	assert.True(t, views[0].LikedByViewer)

	// Without a viewer LikedByViewer stays false but counts remain.
	views, err = feed.FeedFor(nil, ScopeGlobal)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].LikeCount)
	assert.False(t, views[0].LikedByViewer)
}

func TestFriendsScopeFiltersAuthors(t *testing.T) {
	users, posts, feed := newFeedFixture(t)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")
	carol := mustCreateUser(t, users, "carol")

	// alice and bob are mutual; carol is unrelated.
	_, err := users.Follow(alice, "bob")
	require.NoError(t, err)
	_, err = users.Follow(bob, "alice")
	require.NoError(t, err)

	_, err = posts.CreatePost(alice, "mine")
	require.NoError(t, err)
	_, err = posts.CreatePost(bob, "friend")
	require.NoError(t, err)
	_, err = posts.CreatePost(carol, "stranger")
	require.NoError(t, err)

	views, err := feed.FeedFor(&alice, ScopeFriends)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mine", "friend"}, texts(views))

	// Global scope sees everything.
	views, err = feed.FeedFor(&alice, ScopeGlobal)
	require.NoError(t, err)
	assert.Len(t, views, 3)
}

func TestProfileFeed(t *testing.T) {
	users, posts, feed := newFeedFixture(t)
	alice := mustCreateUser(t, users, "alice")
	bob := mustCreateUser(t, users, "bob")

	_, err := posts.CreatePost(alice, "old")
	require.NoError(t, err)
	_, err = posts.CreatePost(bob, "other author")
	require.NoError(t, err)
	_, err = posts.CreatePost(alice, "")
	require.NoError(t, err)
	_, err = posts.CreatePost(alice, "new")
	require.NoError(t, err)

	got, err := feed.ProfileFeed("alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Text)
	assert.Equal(t, "old", got[1].Text)
}
