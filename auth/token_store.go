package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Default TTLs per purpose. Verification links live for a day; reset links
// are deliberately short.
var (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = 10 * time.Minute
)

// TTLForPurpose returns the default lifetime for a token purpose.
func TTLForPurpose(purpose TokenPurpose) time.Duration {
	if purpose == PurposePasswordReset {
		return ResetTokenTTL
	}
	return VerificationTokenTTL
}

// HashToken derives the stored digest from a raw token value.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// TokenStore issues and consumes single-use out-of-band tokens. Only
// digests hit storage; the raw value is returned once for delivery.
type TokenStore struct {
	repo   Tokens
	logger Logger
}

// NewTokenStore creates a store over the tokens repository.
func NewTokenStore(repo Tokens) *TokenStore {
	return &TokenStore{
		repo:   repo,
		logger: defLogger{},
	}
}

func (s *TokenStore) WithLogger(l Logger) *TokenStore {
	if l != nil {
		s.logger = l
	}
	return s
}

// Issue mints a raw token, persists its digest, and returns the raw value.
func (s *TokenStore) Issue(ctx context.Context, userID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (string, error) {
	return s.IssueTx(ctx, nil, userID, purpose, ttl)
}

// IssueTx is Issue inside an existing transaction.
func (s *TokenStore) IssueTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (string, error) {
	raw, err := randomTokenValue()
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate token material")
	}

	if ttl <= 0 {
		ttl = TTLForPurpose(purpose)
	}

	record := &Token{
		ID:        uuid.New(),
		TokenHash: HashToken(raw),
		UserID:    userID,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}

	if tx == nil {
		_, err = s.repo.Create(ctx, record)
	} else {
		_, err = s.repo.CreateTx(ctx, tx, record)
	}
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist token")
	}

	return raw, nil
}

// Consume redeems a raw token. The lookup and removal are one atomic
// storage operation; a token can never verify twice.
func (s *TokenStore) Consume(ctx context.Context, raw string, purpose TokenPurpose) (*Token, error) {
	return s.ConsumeTx(ctx, nil, raw, purpose)
}

// ConsumeTx is Consume inside an existing transaction.
func (s *TokenStore) ConsumeTx(ctx context.Context, tx bun.IDB, raw string, purpose TokenPurpose) (*Token, error) {
	var record *Token
	var err error

	if tx == nil {
		record, err = s.repo.Consume(ctx, HashToken(raw), purpose)
	} else {
		record, err = s.repo.ConsumeTx(ctx, tx, HashToken(raw), purpose)
	}

	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume token")
	}

	return record, nil
}

// Revoke discards an issued token by raw value, used when the delivery of
// the raw value fails and no valid token may remain behind.
func (s *TokenStore) Revoke(ctx context.Context, raw string) error {
	return s.repo.DeleteByHash(ctx, HashToken(raw))
}

// PurgeUser drops every outstanding token of one purpose for a user.
func (s *TokenStore) PurgeUser(ctx context.Context, userID uuid.UUID, purpose TokenPurpose) error {
	return s.repo.PurgeUser(ctx, userID, purpose)
}

// PurgeUserTx is PurgeUser inside an existing transaction.
func (s *TokenStore) PurgeUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose TokenPurpose) error {
	return s.repo.PurgeUserTx(ctx, tx, userID, purpose)
}

func randomTokenValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
