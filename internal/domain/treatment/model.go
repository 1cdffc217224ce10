package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Treatment groups the medications of one course of care under a profile.
type Treatment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProfileID uuid.UUID `db:"profile_id" json:"profile_id"`
	Name      string    `db:"name" json:"name"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
