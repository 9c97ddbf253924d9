package engine

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/doselog/doselog/db"
)

// memStore is an in-memory Store with save counters, optionally failing
// every save to probe the log-and-swallow persistence contract.
type memStore struct {
	medications   []*db.Medication
	notifications []*db.Notification
	adherence     []*db.AdherenceRecord

	medicationSaves   int
	notificationSaves int
	adherenceSaves    int

	failSaves bool
}

var errDiskFull = errors.New("disk full")

func (s *memStore) LoadMedications() ([]*db.Medication, error) {
	return s.medications, nil
}

func (s *memStore) SaveMedications(medications []*db.Medication) error {
	s.medicationSaves++
	if s.failSaves {
		return errDiskFull
	}

	s.medications = medications

	return nil
}

func (s *memStore) LoadNotifications() ([]*db.Notification, error) {
	return s.notifications, nil
}

func (s *memStore) SaveNotifications(notifications []*db.Notification) error {
	s.notificationSaves++
	if s.failSaves {
		return errDiskFull
	}

	s.notifications = notifications

	return nil
}

func (s *memStore) LoadAdherence() ([]*db.AdherenceRecord, error) {
	return s.adherence, nil
}

func (s *memStore) SaveAdherence(records []*db.AdherenceRecord) error {
	s.adherenceSaves++
	if s.failSaves {
		return errDiskFull
	}

	s.adherence = records

	return nil
}

type dispatchCall struct {
	id      string
	fireAt  time.Time
	payload Payload
}

// recorderDispatch records schedule/cancel intents
type recorderDispatch struct {
	scheduled []dispatchCall
	canceled  []string
	fail      bool
}

func (d *recorderDispatch) Schedule(id string, fireAt time.Time, payload Payload) error {
	if d.fail {
		return errors.New("permission denied")
	}

	d.scheduled = append(d.scheduled, dispatchCall{id: id, fireAt: fireAt, payload: payload})

	return nil
}

func (d *recorderDispatch) Cancel(id string) error {
	if d.fail {
		return errors.New("permission denied")
	}

	d.canceled = append(d.canceled, id)

	return nil
}

func (d *recorderDispatch) scheduledIDs() []string {
	ids := make([]string, 0, len(d.scheduled))
	for _, call := range d.scheduled {
		ids = append(ids, call.id)
	}

	return ids
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func newTestLedger(t *testing.T, store *memStore, now time.Time) *Ledger {
	t.Helper()

	ledger, err := NewLedger(store, quietLogger())
	require.NoError(t, err)
	ledger.now = func() time.Time { return now }

	return ledger
}

func newTestManager(t *testing.T, store *memStore, dispatcher Dispatcher, now time.Time) *Manager {
	t.Helper()

	ledger := newTestLedger(t, store, now)

	manager, err := NewManager(store, dispatcher, ledger, quietLogger())
	require.NoError(t, err)
	manager.now = func() time.Time { return now }

	return manager
}
