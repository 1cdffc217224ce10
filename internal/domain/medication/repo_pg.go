package medication

import (
	"context"
	"errors"
	"time"

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

const medCols = `id, treatment_id, name, dose_quantity, dose_unit, form, notes,
	anchor_time, frequency_hours, duration_days, created_at, updated_at`

func scanMed(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.TreatmentID, &m.Name, &m.DoseQuantity, &m.DoseUnit,
		&m.Form, &m.Notes, &m.AnchorTime, &m.FrequencyHours, &m.DurationDays,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication (id, treatment_id, name, dose_quantity, dose_unit, form, notes,
			anchor_time, frequency_hours, duration_days)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.TreatmentID, m.Name, m.DoseQuantity, m.DoseUnit, m.Form, m.Notes,
		MinuteOf(m.AnchorTime), m.FrequencyHours, m.DurationDays)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMed(r.conn(ctx).QueryRow(ctx, `SELECT `+medCols+` FROM medication WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET name=$2, dose_quantity=$3, dose_unit=$4, form=$5, notes=$6,
			anchor_time=$7, frequency_hours=$8, duration_days=$9, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.DoseQuantity, m.DoseUnit, m.Form, m.Notes,
		MinuteOf(m.AnchorTime), m.FrequencyHours, m.DurationDays)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateAnchor(ctx context.Context, id uuid.UUID, anchor time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medication SET anchor_time=$2, updated_at=NOW() WHERE id = $1`,
		id, MinuteOf(anchor))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medication WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) list(ctx context.Context, sql string, args ...interface{}) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Medication
	for rows.Next() {
		m, err := scanMed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repoPG) ListByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]*Medication, error) {
	return r.list(ctx, `SELECT `+medCols+` FROM medication WHERE treatment_id = $1 ORDER BY created_at`, treatmentID)
}

func (r *repoPG) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Medication, error) {
	return r.list(ctx, `
		SELECT m.id, m.treatment_id, m.name, m.dose_quantity, m.dose_unit, m.form, m.notes,
			m.anchor_time, m.frequency_hours, m.duration_days, m.created_at, m.updated_at
		FROM medication m
		JOIN treatment t ON t.id = m.treatment_id
		WHERE t.profile_id = $1
		ORDER BY m.created_at`, profileID)
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Medication, error) {
	return r.list(ctx, `SELECT `+medCols+` FROM medication ORDER BY created_at`)
}
