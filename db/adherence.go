package db

import (
	"time"

	"github.com/google/uuid"
)

// AdherenceRecord is one confirmed dose-taken event. Records are append
// only; an occurrence is identified by (medication id, scheduled time)
// at minute granularity.
type AdherenceRecord struct {
	ID            uuid.UUID `json:"id"`
	MedicationID  uuid.UUID `json:"medication_id"`
	TakenAt       time.Time `json:"taken_at"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// Satisfies reports whether the record covers the given occurrence,
// comparing scheduled times truncated to the minute
func (r *AdherenceRecord) Satisfies(medicationID uuid.UUID, scheduled time.Time) bool {
	if r.MedicationID != medicationID {
		return false
	}

	return r.ScheduledTime.Truncate(time.Minute).Equal(scheduled.Truncate(time.Minute))
}
