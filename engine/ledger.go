package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/doselog/doselog/db"
)

// DefaultRetentionDays is how long taken records are kept before Prune
// removes them
const DefaultRetentionDays = 7

// Ledger is the append-only record of confirmed dose-taken events. It
// owns the adherence collection; nothing else writes it. Persistence
// failures are logged and swallowed, the in-memory records stay
// authoritative for the process lifetime.
type Ledger struct {
	store   Store
	log     *logrus.Entry
	now     func() time.Time
	records []*db.AdherenceRecord
}

// NewLedger loads the stored adherence records
func NewLedger(store Store, log *logrus.Logger) (*Ledger, error) {
	records, err := store.LoadAdherence()
	if err != nil {
		return nil, fmt.Errorf("failed to load adherence records: %w", err)
	}

	return &Ledger{
		store:   store,
		log:     log.WithField("component", "ledger"),
		now:     time.Now,
		records: records,
	}, nil
}

// IsTaken reports whether a dose-taken record exists for the occurrence,
// matching at minute granularity
func (l *Ledger) IsTaken(medicationID uuid.UUID, scheduled time.Time) bool {
	for _, record := range l.records {
		if record.Satisfies(medicationID, scheduled) {
			return true
		}
	}

	return false
}

// RecordTaken appends a dose-taken record unconditionally and persists
// the ledger. It does not check IsTaken; callers that need duplicate
// suppression use RecordTakenIfAbsent.
func (l *Ledger) RecordTaken(medicationID uuid.UUID, scheduled time.Time) *db.AdherenceRecord {
	record := &db.AdherenceRecord{
		ID:            uuid.New(),
		MedicationID:  medicationID,
		TakenAt:       l.now(),
		ScheduledTime: scheduled,
	}

	l.records = append(l.records, record)
	l.persist()

	return record
}

// RecordTakenIfAbsent records the dose unless the occurrence is already
// covered. Returns true when a record was appended.
func (l *Ledger) RecordTakenIfAbsent(medicationID uuid.UUID, scheduled time.Time) bool {
	if l.IsTaken(medicationID, scheduled) {
		return false
	}

	l.RecordTaken(medicationID, scheduled)

	return true
}

// Records returns the current in-memory records
func (l *Ledger) Records() []*db.AdherenceRecord {
	return l.records
}

// Prune removes records taken more than retentionDays ago. Idempotent;
// persists only when something was removed. Returns the removed count.
func (l *Ledger) Prune(retentionDays int) int {
	cutoff := l.now().AddDate(0, 0, -retentionDays)

	kept := l.records[:0]
	for _, record := range l.records {
		if record.TakenAt.Before(cutoff) {
			continue
		}

		kept = append(kept, record)
	}

	removed := len(l.records) - len(kept)
	l.records = kept

	if removed > 0 {
		l.log.WithField("removed", removed).Info("pruned adherence records")
		l.persist()
	}

	return removed
}

func (l *Ledger) persist() {
	err := l.store.SaveAdherence(l.records)
	if err != nil {
		l.log.WithError(err).Warn("failed to persist adherence records")
	}
}
