package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespace/safespace-api/auth"
)

func TestUsersRepositoryCreateAndGetByEmail(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))

	user := seedUser(t, repo, "Person@Example.COM", "password123")

	// stored normalized
	assert.Equal(t, "person@example.com", user.Email)

	// lookups normalize too
	found, err := repo.Users().GetByEmail(ctx, "  PERSON@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.Users().GetByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestUsersRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))

	seedUser(t, repo, "person@example.com", "password123")

	hash, err := auth.HashPassword("password456")
	require.NoError(t, err)

	_, err = repo.Users().Create(ctx, &auth.User{
		Name:         "Duplicate",
		Email:        "person@example.com",
		PasswordHash: hash,
	})
	assert.Error(t, err, "unique index on email should reject the second insert")
}

func TestUsersRepositoryFailedLoginAccounting(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))

	user := seedUser(t, repo, "person@example.com", "password123")

	for i := 0; i < auth.MaxLoginAttempts-1; i++ {
		require.NoError(t, repo.Users().TrackFailedLogin(ctx, user))
	}

	got, err := repo.Users().GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, auth.MaxLoginAttempts-1, got.LoginAttempts)
	assert.Nil(t, got.LockUntil, "lock must not open before the threshold")
	assert.False(t, got.Locked())

	// crossing the threshold opens the lock and zeroes the counter in the
	// same statement
	require.NoError(t, repo.Users().TrackFailedLogin(ctx, user))

	got, err = repo.Users().GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LoginAttempts)
	require.NotNil(t, got.LockUntil)
	assert.True(t, got.Locked())
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *got.LockUntil, time.Minute)
}

func TestUsersRepositorySuccessfulLoginClearsAccounting(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))

	user := seedUser(t, repo, "person@example.com", "password123")

	require.NoError(t, repo.Users().TrackFailedLogin(ctx, user))
	require.NoError(t, repo.Users().TrackFailedLogin(ctx, user))
	require.NoError(t, repo.Users().TrackSuccessfulLogin(ctx, user))

	got, err := repo.Users().GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LoginAttempts)
	assert.Nil(t, got.LockUntil)
	assert.NotNil(t, got.LoggedInAt)
}

func TestUsersRepositoryResetPassword(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))

	user := seedUser(t, repo, "person@example.com", "old-password")

	// leave the account mid-lockout
	for i := 0; i < auth.MaxLoginAttempts; i++ {
		require.NoError(t, repo.Users().TrackFailedLogin(ctx, user))
	}

	newHash, err := auth.HashPassword("new-password")
	require.NoError(t, err)

	require.NoError(t, repo.Users().ResetPassword(ctx, user.ID, newHash))

	got, err := repo.Users().GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, newHash, got.PasswordHash)
	assert.Equal(t, 0, got.LoginAttempts)
	assert.Nil(t, got.LockUntil, "a reset always leaves the account usable")
}

func TestUsersRepositoryMarkEmailVerified(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))

	user := seedUser(t, repo, "person@example.com", "password123")
	assert.False(t, user.EmailVerified)

	got, err := repo.Users().MarkEmailVerified(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
}
