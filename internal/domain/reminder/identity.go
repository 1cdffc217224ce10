package reminder

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/medication"
)

// identityVersion is baked into every trigger id. Bumping it makes every
// previously created trigger unrecognizable, so a full resync cancels and
// recreates them under the new scheme.
const identityVersion = "v1"

// TriggerID derives the deterministic id of the trigger for one dose slot.
// The same medication and minute always produce the same id, which is what
// lets a resync find and cancel stale triggers without any local bookkeeping.
func TriggerID(medicationID uuid.UUID, slot time.Time) string {
	return fmt.Sprintf("%s%d", TriggerPrefix(medicationID), medication.MinuteOf(slot).Unix())
}

// TriggerPrefix is the id prefix shared by every trigger of one medication.
func TriggerPrefix(medicationID uuid.UUID) string {
	return fmt.Sprintf("medtrack-dose-%s-%s-", identityVersion, medicationID)
}
