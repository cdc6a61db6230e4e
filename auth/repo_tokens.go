package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// consumeTokenSQL is the single-use guarantee: matching, expiry filtering,
// and removal happen in one statement, so two concurrent consumers of the
// same raw token can never both succeed.
var consumeTokenSQL = `DELETE FROM "tokens"
WHERE
	"token_hash" = ?
	AND "purpose" = ?
	AND "expires_at" > ?
RETURNING *;`

var purgeUserTokensSQL = `DELETE FROM "tokens"
WHERE
	"user_id" = ?
	AND "purpose" = ?;`

type Tokens interface {
	repository.Repository[*Token]

	Consume(ctx context.Context, tokenHash string, purpose TokenPurpose) (*Token, error)
	ConsumeTx(ctx context.Context, tx bun.IDB, tokenHash string, purpose TokenPurpose) (*Token, error)

	PurgeUser(ctx context.Context, userID uuid.UUID, purpose TokenPurpose) error
	PurgeUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose TokenPurpose) error

	DeleteByHash(ctx context.Context, tokenHash string) error
}

type tokens struct {
	repository.Repository[*Token]
	db *bun.DB
}

var (
	_ Tokens                        = (*tokens)(nil)
	_ repository.Repository[*Token] = (*tokens)(nil)
)

func NewTokensRepository(db *bun.DB) Tokens {
	repo := repository.NewRepository[*Token](db, repository.ModelHandlers[*Token]{
		NewRecord: func() *Token { return &Token{} },
		GetID: func(t *Token) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Token, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token_hash"
		},
	})

	return &tokens{
		Repository: repo,
		db:         db,
	}
}

func (a *tokens) Consume(ctx context.Context, tokenHash string, purpose TokenPurpose) (*Token, error) {
	return a.ConsumeTx(ctx, a.db, tokenHash, purpose)
}

func (a *tokens) ConsumeTx(ctx context.Context, tx bun.IDB, tokenHash string, purpose TokenPurpose) (*Token, error) {
	res, err := a.Repository.RawTx(ctx, tx, consumeTokenSQL, tokenHash, purpose, time.Now())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"purpose": purpose,
			})
	}

	return res[0], nil
}

func (a *tokens) PurgeUser(ctx context.Context, userID uuid.UUID, purpose TokenPurpose) error {
	return a.PurgeUserTx(ctx, a.db, userID, purpose)
}

func (a *tokens) PurgeUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose TokenPurpose) error {
	_, err := tx.NewRaw(purgeUserTokensSQL, userID, purpose).Exec(ctx)
	return err
}

func (a *tokens) DeleteByHash(ctx context.Context, tokenHash string) error {
	_, err := a.db.NewDelete().
		Model((*Token)(nil)).
		Where("token_hash = ?", tokenHash).
		Exec(ctx)
	return err
}
