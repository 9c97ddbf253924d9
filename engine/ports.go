// Package engine holds the reminder scheduling and adherence-tracking
// core: the daily schedule projector, the adherence ledger, and the
// notification lifecycle manager. Persistence and OS-level delivery are
// behind the Store and Dispatcher ports; the engine only decides when
// and what to schedule or cancel.
package engine

import (
	"time"

	"github.com/doselog/doselog/db"
)

// Store persists the engine's collections as whole snapshots
type Store interface {
	LoadMedications() ([]*db.Medication, error)
	SaveMedications([]*db.Medication) error
	LoadNotifications() ([]*db.Notification, error)
	SaveNotifications([]*db.Notification) error
	LoadAdherence() ([]*db.AdherenceRecord, error)
	SaveAdherence([]*db.AdherenceRecord) error
}

// Payload is the user-facing content of one armed alert
type Payload struct {
	Title    string
	Message  string
	Priority db.Priority
}

// Dispatcher arms and disarms OS-level alerts. Both calls are fire and
// forget: the engine logs failures and moves on, it never rolls back
// lifecycle state on a dispatch error.
type Dispatcher interface {
	Schedule(id string, fireAt time.Time, payload Payload) error
	Cancel(id string) error
}
