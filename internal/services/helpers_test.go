package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadenr/youface-be/internal/database"
	"github.com/cadenr/youface-be/internal/models"
	"github.com/cadenr/youface-be/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return store.New(db)
}

// fakeClock hands out strictly increasing timestamps one second apart.
type fakeClock struct {
	current int64
}

func (c *fakeClock) Now() time.Time {
	c.current++
	return time.Unix(c.current, 0)
}

func mustCreateUser(t *testing.T, users *UserService, name string) models.User {
	t.Helper()
	u, err := users.CreateUser(name, name+"-pw")
	require.NoError(t, err)
	return u
}

func usernames(users []models.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}
