package engine

import (
	"time"

	"github.com/doselog/doselog/db"
)

// ProjectToday expands a medication's wall-clock anchors into concrete
// occurrence timestamps on the given day. Inactive medications project
// nothing. Start/end bounds are not considered here; callers filter by
// Medication.InWindow. Order follows the stored anchor order.
func ProjectToday(medication *db.Medication, today time.Time) []time.Time {
	if !medication.Active {
		return nil
	}

	occurrences := make([]time.Time, 0, len(medication.Anchors))
	for _, anchor := range medication.Anchors {
		occurrences = append(occurrences, anchor.At(today))
	}

	return occurrences
}
