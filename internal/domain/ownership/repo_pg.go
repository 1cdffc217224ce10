package ownership

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medtrack/medtrack/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type resolverPG struct{ pool *pgxpool.Pool }

func NewResolverPG(pool *pgxpool.Pool) Resolver {
	return &resolverPG{pool: pool}
}

func (r *resolverPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *resolverPG) owner(ctx context.Context, sql string, id uuid.UUID) (string, error) {
	var owner string
	err := r.conn(ctx).QueryRow(ctx, sql, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return owner, err
}

func (r *resolverPG) ProfileOwner(ctx context.Context, profileID uuid.UUID) (string, error) {
	return r.owner(ctx, `SELECT owner_user_id FROM profile WHERE id = $1`, profileID)
}

func (r *resolverPG) TreatmentOwner(ctx context.Context, treatmentID uuid.UUID) (string, error) {
	return r.owner(ctx, `
		SELECT p.owner_user_id FROM treatment t
		JOIN profile p ON p.id = t.profile_id
		WHERE t.id = $1`, treatmentID)
}

func (r *resolverPG) MedicationOwner(ctx context.Context, medicationID uuid.UUID) (string, error) {
	return r.owner(ctx, `
		SELECT p.owner_user_id FROM medication m
		JOIN treatment t ON t.id = m.treatment_id
		JOIN profile p ON p.id = t.profile_id
		WHERE m.id = $1`, medicationID)
}
