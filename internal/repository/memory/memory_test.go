package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"gradebot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_EnsureIsIdempotent(t *testing.T) {
	repo := NewUserRepo()

	first, err := repo.Ensure(123, "Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.UserProfile{UserID: 123, FirstName: "Alice"}, first)

	require.NoError(t, repo.SetUsername(123, "alice"))
	require.NoError(t, repo.SetPassword(123, "secret"))

	again, err := repo.Ensure(123, "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.FirstName)
	assert.Equal(t, "alice", again.PortalUsername)
	assert.Equal(t, "secret", again.PortalPassword)

	third, err := repo.Ensure(123, "Alice")
	require.NoError(t, err)
	assert.Equal(t, again, third)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserRepo_Get(t *testing.T) {
	repo := NewUserRepo()

	_, found, err := repo.Get(1)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = repo.Ensure(1, "Bob")
	require.NoError(t, err)

	user, found, err := repo.Get(1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Bob", user.FirstName)
	assert.False(t, user.HasUsername())
	assert.False(t, user.HasPassword())
}

func TestUserRepo_GetReturnsCopy(t *testing.T) {
	repo := NewUserRepo()
	_, err := repo.Ensure(1, "Bob")
	require.NoError(t, err)

	user, _, err := repo.Get(1)
	require.NoError(t, err)
	user.PortalUsername = "mutated"

	stored, _, err := repo.Get(1)
	require.NoError(t, err)
	assert.Empty(t, stored.PortalUsername)
}

func TestUserRepo_UnknownUser(t *testing.T) {
	repo := NewUserRepo()

	assert.Error(t, repo.SetUsername(42, "alice"))
	assert.Error(t, repo.SetPassword(42, "secret"))
	assert.Error(t, repo.ClearCredentials(42))
}

func TestUserRepo_ClearCredentials(t *testing.T) {
	repo := NewUserRepo()
	_, err := repo.Ensure(1, "Bob")
	require.NoError(t, err)
	require.NoError(t, repo.SetUsername(1, "bob"))
	require.NoError(t, repo.SetPassword(1, "pw"))

	require.NoError(t, repo.ClearCredentials(1))

	user, _, err := repo.Get(1)
	require.NoError(t, err)
	assert.False(t, user.HasCredentials())
	assert.Equal(t, "Bob", user.FirstName)
}

func TestUserRepo_ConcurrentUsers(t *testing.T) {
	repo := NewUserRepo()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, _ = repo.Ensure(id, fmt.Sprintf("user%d", id))
			_ = repo.SetUsername(id, fmt.Sprintf("login%d", id))
		}(i)
	}
	wg.Wait()

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 50, count)

	user, _, err := repo.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "login7", user.PortalUsername)
}

func TestStageRepo(t *testing.T) {
	repo := NewStageRepo()

	stage, err := repo.GetStage(1)
	require.NoError(t, err)
	assert.Equal(t, domain.StageNone, stage)

	require.NoError(t, repo.SetStage(1, domain.StageAwaitingUsername))
	stage, err = repo.GetStage(1)
	require.NoError(t, err)
	assert.Equal(t, domain.StageAwaitingUsername, stage)

	stage, err = repo.GetStage(2)
	require.NoError(t, err)
	assert.Equal(t, domain.StageNone, stage)

	require.NoError(t, repo.SetStage(1, domain.StageNone))
	assert.Empty(t, repo.stages)
}

func TestFetchLogRepo(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := NewFetchLogRepo()
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.SaveFetch(domain.FetchLog{UserID: 1, Outcome: "ok", Records: 3}))
	require.NoError(t, repo.SaveFetch(domain.FetchLog{
		UserID:    2,
		Outcome:   "auth_failed",
		CreatedAt: now.AddDate(0, 0, -45),
	}))

	entries := repo.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, now, entries[0].CreatedAt)
	assert.Equal(t, 2, entries[1].ID)

	require.NoError(t, repo.CleanOldFetches(30))

	entries = repo.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].UserID)
}
