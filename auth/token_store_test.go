package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespace/safespace-api/auth"
)

func TestTokenStoreIssueAndConsume(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))
	store := auth.NewTokenStore(repo.Tokens())

	user := seedUser(t, repo, "person@example.com", "password123")

	raw, err := store.Issue(ctx, user.ID, auth.PurposeEmailVerification, 0)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	token, err := store.Consume(ctx, raw, auth.PurposeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.UserID)
	assert.Equal(t, auth.PurposeEmailVerification, token.Purpose)

	// single use: the same raw value never verifies twice
	_, err = store.Consume(ctx, raw, auth.PurposeEmailVerification)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenStoreConsumeWrongPurpose(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))
	store := auth.NewTokenStore(repo.Tokens())

	user := seedUser(t, repo, "person@example.com", "password123")

	raw, err := store.Issue(ctx, user.ID, auth.PurposePasswordReset, auth.ResetTokenTTL)
	require.NoError(t, err)

	// a reset token must not pass as a verification token
	_, err = store.Consume(ctx, raw, auth.PurposeEmailVerification)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	// unchanged for its own purpose
	_, err = store.Consume(ctx, raw, auth.PurposePasswordReset)
	require.NoError(t, err)
}

func TestTokenStoreConsumeExpired(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))
	store := auth.NewTokenStore(repo.Tokens())

	user := seedUser(t, repo, "person@example.com", "password123")

	raw, err := store.Issue(ctx, user.ID, auth.PurposePasswordReset, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = store.Consume(ctx, raw, auth.PurposePasswordReset)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenStoreConsumeUnknown(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))
	store := auth.NewTokenStore(repo.Tokens())

	_, err := store.Consume(ctx, "never-issued", auth.PurposeEmailVerification)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenStoreRevoke(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))
	store := auth.NewTokenStore(repo.Tokens())

	user := seedUser(t, repo, "person@example.com", "password123")

	raw, err := store.Issue(ctx, user.ID, auth.PurposePasswordReset, auth.ResetTokenTTL)
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, raw))

	_, err = store.Consume(ctx, raw, auth.PurposePasswordReset)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenStorePurgeUser(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewRepositoryManager(newTestDB(t))
	store := auth.NewTokenStore(repo.Tokens())

	user := seedUser(t, repo, "person@example.com", "password123")

	first, err := store.Issue(ctx, user.ID, auth.PurposePasswordReset, auth.ResetTokenTTL)
	require.NoError(t, err)
	second, err := store.Issue(ctx, user.ID, auth.PurposePasswordReset, auth.ResetTokenTTL)
	require.NoError(t, err)

	// verification tokens survive a reset purge
	verify, err := store.Issue(ctx, user.ID, auth.PurposeEmailVerification, 0)
	require.NoError(t, err)

	require.NoError(t, store.PurgeUser(ctx, user.ID, auth.PurposePasswordReset))

	_, err = store.Consume(ctx, first, auth.PurposePasswordReset)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	_, err = store.Consume(ctx, second, auth.PurposePasswordReset)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	_, err = store.Consume(ctx, verify, auth.PurposeEmailVerification)
	require.NoError(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, auth.HashToken("abc"), auth.HashToken("abc"))
	assert.NotEqual(t, auth.HashToken("abc"), auth.HashToken("abd"))
	assert.Len(t, auth.HashToken("abc"), 64)
}

func TestTTLForPurpose(t *testing.T) {
	assert.Equal(t, auth.ResetTokenTTL, auth.TTLForPurpose(auth.PurposePasswordReset))
	assert.Equal(t, auth.VerificationTokenTTL, auth.TTLForPurpose(auth.PurposeEmailVerification))
}
