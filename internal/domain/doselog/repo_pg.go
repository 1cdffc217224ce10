package doselog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medtrack/medtrack/internal/domain/medication"
	"github.com/medtrack/medtrack/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `id, medication_id, scheduled_time, taken_time, status, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.MedicationID, &e.ScheduledTime, &e.TakenTime,
		&e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &e, err
}

// Upsert keys on the minute-truncated scheduled time, matching the unique
// index on (medication_id, date_trunc('minute', scheduled_time)).
func (r *repoPG) Upsert(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.ScheduledTime = medication.MinuteOf(e.ScheduledTime)
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO dose_log (id, medication_id, scheduled_time, taken_time, status)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (medication_id, (date_trunc('minute', scheduled_time)))
		DO UPDATE SET taken_time = EXCLUDED.taken_time, status = EXCLUDED.status, updated_at = NOW()
		RETURNING `+entryCols,
		e.ID, e.MedicationID, e.ScheduledTime, e.TakenTime, e.Status)
	stored, err := scanEntry(row)
	if err != nil {
		return err
	}
	*e = *stored
	return nil
}

func (r *repoPG) FindBySlot(ctx context.Context, medicationID uuid.UUID, scheduledTime time.Time) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx, `
		SELECT `+entryCols+` FROM dose_log
		WHERE medication_id = $1 AND date_trunc('minute', scheduled_time) = $2`,
		medicationID, medication.MinuteOf(scheduledTime)))
}

func (r *repoPG) ListByMedication(ctx context.Context, medicationID uuid.UUID, from, to time.Time) ([]*Entry, error) {
	return r.list(ctx, `
		SELECT `+entryCols+` FROM dose_log
		WHERE medication_id = $1 AND scheduled_time >= $2 AND scheduled_time < $3
		ORDER BY scheduled_time`,
		medicationID, from, to)
}

func (r *repoPG) ListAllByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Entry, error) {
	return r.list(ctx, `
		SELECT `+entryCols+` FROM dose_log
		WHERE medication_id = $1
		ORDER BY scheduled_time`,
		medicationID)
}

func (r *repoPG) list(ctx context.Context, sql string, args ...interface{}) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
