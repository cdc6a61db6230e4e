package alerts

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// resolveAlertSQL flips the status and stamps the resolution in one
// statement; only active alerts transition.
var resolveAlertSQL = `UPDATE "alerts" AS "alr"
SET
	"status" = ?,
	"resolved_at" = ?,
	"resolved_by" = ?,
	"updated_at" = ?
WHERE
	("alr"."id" = ?)
	AND "alr"."status" = 'active'
RETURNING *;`

type Alerts interface {
	repository.Repository[*Alert]

	Create(ctx context.Context, record *Alert, criteria ...repository.InsertCriteria) (*Alert, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Alert, error)
	Resolve(ctx context.Context, id, resolvedBy uuid.UUID, status AlertStatus) (*Alert, error)
}

type alerts struct {
	repository.Repository[*Alert]
	db *bun.DB
}

var (
	_ Alerts                        = (*alerts)(nil)
	_ repository.Repository[*Alert] = (*alerts)(nil)
)

func NewAlertsRepository(db *bun.DB) Alerts {
	repo := repository.NewRepository[*Alert](db, repository.ModelHandlers[*Alert]{
		NewRecord: func() *Alert { return &Alert{} },
		GetID: func(a *Alert) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Alert, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &alerts{
		Repository: repo,
		db:         db,
	}
}

func (a *alerts) Create(ctx context.Context, record *Alert, criteria ...repository.InsertCriteria) (*Alert, error) {
	if record != nil {
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		if record.Status == "" {
			record.Status = StatusActive
		}
	}
	return a.Repository.CreateTx(ctx, a.db, record, criteria...)
}

func (a *alerts) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Alert, error) {
	var records []*Alert
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *alerts) Resolve(ctx context.Context, id, resolvedBy uuid.UUID, status AlertStatus) (*Alert, error) {
	now := time.Now()
	res, err := a.Repository.RawTx(ctx, a.db, resolveAlertSQL, status, now, resolvedBy, now, id)
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return res[0], nil
}
