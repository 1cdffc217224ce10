package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is one person whose medications are tracked, owned by an
// authenticated account. An account can hold several profiles (family
// members, pets).
type Profile struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OwnerUserID string     `db:"owner_user_id" json:"owner_user_id"`
	Name        string     `db:"name" json:"name"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
