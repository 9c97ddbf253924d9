package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/doselog/doselog/db"
)

// DefaultCleanupDays is how long completed notifications are kept before
// CleanupOld removes them
const DefaultCleanupDays = 30

// Stats aggregate counts over one subject's notifications. Computed
// fresh against the wall clock on every call, never cached.
type Stats struct {
	Total     int
	Active    int
	Completed int
	Overdue   int
	Today     int
	Upcoming  int
}

// PendingMedication is one medication with its not-yet-taken occurrence
// times for today
type PendingMedication struct {
	Medication *db.Medication
	Times      []time.Time
}

// Manager owns the authoritative medication and notification
// collections and drives their lifecycles. All mutation goes through it;
// it is not safe for concurrent use from multiple goroutines.
//
// Persistence and dispatch failures are logged and swallowed: the
// in-memory state stays the source of truth for the current process, a
// dispatch error never rolls back lifecycle state.
type Manager struct {
	store         Store
	dispatch      Dispatcher
	ledger        *Ledger
	log           *logrus.Entry
	now           func() time.Time
	medications   []*db.Medication
	notifications []*db.Notification
}

// NewManager loads the stored collections. It does not arm any dispatch
// on its own; call Reschedule when the process should own delivery.
func NewManager(store Store, dispatch Dispatcher, ledger *Ledger, log *logrus.Logger) (*Manager, error) {
	medications, err := store.LoadMedications()
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}

	notifications, err := store.LoadNotifications()
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	return &Manager{
		store:         store,
		dispatch:      dispatch,
		ledger:        ledger,
		log:           log.WithField("component", "manager"),
		now:           time.Now,
		medications:   medications,
		notifications: notifications,
	}, nil
}

// Ledger the manager answers adherence queries through
func (m *Manager) Ledger() *Ledger {
	return m.ledger
}

// Reschedule arms dispatch for every enabled, uncompleted notification
// and every active in-window medication. Called once at daemon startup
// so delivery survives restarts.
func (m *Manager) Reschedule() {
	for _, notification := range m.notifications {
		if notification.Enabled && !notification.Completed {
			m.scheduleNotification(notification)
		}
	}

	for _, medication := range m.medications {
		if medication.Active {
			m.scheduleMedication(medication)
		}
	}
}

// Add appends a notification to the authoritative set, persists, and
// arms dispatch when it is enabled. The caller must supply a fresh id;
// collisions are not checked.
func (m *Manager) Add(notification *db.Notification) error {
	err := notification.Validate()
	if err != nil {
		return err
	}

	m.notifications = append(m.notifications, notification)
	m.persistNotifications()

	if notification.Enabled {
		m.scheduleNotification(notification)
	}

	return nil
}

// Update replaces the stored notification by id, cancels any existing
// dispatch, and rearms it when the notification is enabled and not
// completed. Unknown ids are a logged no-op.
func (m *Manager) Update(notification *db.Notification) error {
	err := notification.Validate()
	if err != nil {
		return err
	}

	index := m.indexOf(notification.ID)
	if index < 0 {
		m.log.WithField("id", notification.ID).Warn("update of unknown notification ignored")
		return nil
	}

	m.notifications[index] = notification
	m.persistNotifications()

	m.cancelDispatch(notification.ID.String())
	if notification.Enabled && !notification.Completed {
		m.scheduleNotification(notification)
	}

	return nil
}

// Delete removes the notification from the set, persists, and cancels
// its dispatch. Unknown ids are a logged no-op.
func (m *Manager) Delete(notification *db.Notification) {
	index := m.indexOf(notification.ID)
	if index < 0 {
		m.log.WithField("id", notification.ID).Warn("delete of unknown notification ignored")
		return
	}

	m.notifications = append(m.notifications[:index], m.notifications[index+1:]...)
	m.persistNotifications()
	m.cancelDispatch(notification.ID.String())
}

// Toggle flips the notification's enabled flag and routes through
// Update. Unknown ids are a logged no-op that leaves the flag alone.
func (m *Manager) Toggle(notification *db.Notification) error {
	if m.indexOf(notification.ID) < 0 {
		m.log.WithField("id", notification.ID).Warn("toggle of unknown notification ignored")
		return nil
	}

	notification.Enabled = !notification.Enabled

	return m.Update(notification)
}

// Complete marks the notification done. A recurring notification with a
// recurrence interval spawns a successor under a fresh id at the next
// fire time; the completed original is retained for history.
func (m *Manager) Complete(notification *db.Notification) error {
	completedAt := m.now()
	notification.Completed = true
	notification.CompletedDate = &completedAt

	if notification.Recurring && notification.RecurrenceInterval != "" {
		next := notification.RecurrenceInterval.NextDate(notification.ScheduledDate)

		err := m.Add(notification.Successor(next))
		if err != nil {
			return err
		}
	}

	return m.Update(notification)
}

// Notification looks up a notification by id
func (m *Manager) Notification(id uuid.UUID) *db.Notification {
	index := m.indexOf(id)
	if index < 0 {
		return nil
	}

	return m.notifications[index]
}

// Notifications for a subject, soonest first
func (m *Manager) Notifications(subjectID uuid.UUID) []*db.Notification {
	return m.filter(func(n *db.Notification) bool {
		return n.SubjectID == subjectID
	}, ascending)
}

// Active notifications for a subject: enabled and not completed, soonest
// first
func (m *Manager) Active(subjectID uuid.UUID) []*db.Notification {
	return m.filter(func(n *db.Notification) bool {
		return n.SubjectID == subjectID && n.Enabled && !n.Completed
	}, ascending)
}

// ByKind notifications for a subject, soonest first
func (m *Manager) ByKind(subjectID uuid.UUID, kind db.Kind) []*db.Notification {
	return m.filter(func(n *db.Notification) bool {
		return n.SubjectID == subjectID && n.Kind == kind
	}, ascending)
}

// Upcoming active notifications scheduled within [now, now+days],
// inclusive of both ends, soonest first
func (m *Manager) Upcoming(subjectID uuid.UUID, days int) []*db.Notification {
	now := m.now()
	end := now.AddDate(0, 0, days)

	return m.filter(func(n *db.Notification) bool {
		return n.SubjectID == subjectID && n.Enabled && !n.Completed &&
			!n.ScheduledDate.Before(now) && !n.ScheduledDate.After(end)
	}, ascending)
}

// Today returns the subject's active notifications scheduled within the
// current calendar day, soonest first
func (m *Manager) Today(subjectID uuid.UUID) []*db.Notification {
	now := m.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	return m.filter(func(n *db.Notification) bool {
		return n.SubjectID == subjectID && n.Enabled && !n.Completed &&
			!n.ScheduledDate.Before(dayStart) && n.ScheduledDate.Before(dayEnd)
	}, ascending)
}

// Overdue returns the subject's active notifications whose fire time has
// passed, most recently overdue first
func (m *Manager) Overdue(subjectID uuid.UUID) []*db.Notification {
	now := m.now()

	return m.filter(func(n *db.Notification) bool {
		return n.SubjectID == subjectID && n.Enabled && !n.Completed &&
			n.ScheduledDate.Before(now)
	}, descending)
}

// StatsFor recomputes the subject's aggregate counts
func (m *Manager) StatsFor(subjectID uuid.UUID) Stats {
	total := 0
	active := 0
	completed := 0

	for _, notification := range m.notifications {
		if notification.SubjectID != subjectID {
			continue
		}

		total++
		if notification.Enabled && !notification.Completed {
			active++
		}
		if notification.Completed {
			completed++
		}
	}

	return Stats{
		Total:     total,
		Active:    active,
		Completed: completed,
		Overdue:   len(m.Overdue(subjectID)),
		Today:     len(m.Today(subjectID)),
		Upcoming:  len(m.Upcoming(subjectID, 7)),
	}
}

// CleanupOld deletes completed notifications older than the given number
// of days, judged by completion date when present and scheduled date
// otherwise. Returns the removed count.
func (m *Manager) CleanupOld(days int) int {
	cutoff := m.now().AddDate(0, 0, -days)

	var old []*db.Notification
	for _, notification := range m.notifications {
		if !notification.Completed {
			continue
		}

		reference := notification.ScheduledDate
		if notification.CompletedDate != nil {
			reference = *notification.CompletedDate
		}

		if reference.Before(cutoff) {
			old = append(old, notification)
		}
	}

	for _, notification := range old {
		m.Delete(notification)
	}

	return len(old)
}

// DeleteCompleted removes every completed notification for the subject
func (m *Manager) DeleteCompleted(subjectID uuid.UUID) {
	for _, notification := range m.filter(func(n *db.Notification) bool {
		return n.SubjectID == subjectID && n.Completed
	}, ascending) {
		m.Delete(notification)
	}
}

// DeleteAllForSubject removes every notification for the subject
func (m *Manager) DeleteAllForSubject(subjectID uuid.UUID) {
	for _, notification := range m.filter(func(n *db.Notification) bool {
		return n.SubjectID == subjectID
	}, ascending) {
		m.Delete(notification)
	}
}

// AddMedication appends a medication, persists, and arms per-anchor
// dispatch when it is active
func (m *Manager) AddMedication(medication *db.Medication) error {
	err := medication.Validate()
	if err != nil {
		return err
	}

	m.medications = append(m.medications, medication)
	m.persistMedications()

	if medication.Active {
		m.scheduleMedication(medication)
	}

	return nil
}

// UpdateMedication replaces the stored medication by id and rearms its
// dispatch. Unknown ids are a logged no-op.
func (m *Manager) UpdateMedication(medication *db.Medication) error {
	err := medication.Validate()
	if err != nil {
		return err
	}

	index := m.medicationIndexOf(medication.ID)
	if index < 0 {
		m.log.WithField("id", medication.ID).Warn("update of unknown medication ignored")
		return nil
	}

	// cancel against the stored anchors, an edit may have changed them
	m.cancelMedication(m.medications[index])

	m.medications[index] = medication
	m.persistMedications()

	if medication.Active {
		m.scheduleMedication(medication)
	}

	return nil
}

// DeleteMedication removes the medication from the active set and
// cancels its dispatch. Adherence history referencing it is untouched.
func (m *Manager) DeleteMedication(medication *db.Medication) {
	index := m.medicationIndexOf(medication.ID)
	if index < 0 {
		m.log.WithField("id", medication.ID).Warn("delete of unknown medication ignored")
		return
	}

	stored := m.medications[index]
	m.medications = append(m.medications[:index], m.medications[index+1:]...)
	m.persistMedications()
	m.cancelMedication(stored)
}

// ToggleMedication flips the active flag and routes through
// UpdateMedication. Unknown ids are a logged no-op that leaves the flag
// alone.
func (m *Manager) ToggleMedication(medication *db.Medication) error {
	if m.medicationIndexOf(medication.ID) < 0 {
		m.log.WithField("id", medication.ID).Warn("toggle of unknown medication ignored")
		return nil
	}

	medication.Active = !medication.Active

	return m.UpdateMedication(medication)
}

// Medication looks up a medication by id
func (m *Manager) Medication(id uuid.UUID) *db.Medication {
	index := m.medicationIndexOf(id)
	if index < 0 {
		return nil
	}

	return m.medications[index]
}

// Medications returns every stored medication
func (m *Manager) Medications() []*db.Medication {
	return m.medications
}

// ActiveMedications returns the medications with the active flag set
func (m *Manager) ActiveMedications() []*db.Medication {
	var active []*db.Medication
	for _, medication := range m.medications {
		if medication.Active {
			active = append(active, medication)
		}
	}

	return active
}

// MarkTaken records a dose against the occurrence unless it is already
// covered. Returns true when a record was appended.
func (m *Manager) MarkTaken(medicationID uuid.UUID, scheduled time.Time) bool {
	return m.ledger.RecordTakenIfAbsent(medicationID, scheduled)
}

// TodayPending projects every active in-window medication onto today and
// drops occurrences the ledger already covers. Medications with nothing
// left are omitted; occurrence times are sorted for presentation.
func (m *Manager) TodayPending() []PendingMedication {
	today := m.now()

	var pending []PendingMedication
	for _, medication := range m.medications {
		if !medication.Active || !medication.InWindow(today) {
			continue
		}

		var times []time.Time
		for _, occurrence := range ProjectToday(medication, today) {
			if !m.ledger.IsTaken(medication.ID, occurrence) {
				times = append(times, occurrence)
			}
		}

		if len(times) == 0 {
			continue
		}

		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		pending = append(pending, PendingMedication{Medication: medication, Times: times})
	}

	return pending
}

func (m *Manager) scheduleNotification(notification *db.Notification) {
	err := m.dispatch.Schedule(notification.ID.String(), notification.ScheduledDate, Payload{
		Title:    notification.Title,
		Message:  notification.Message,
		Priority: notification.Priority,
	})
	if err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{
			"id":      notification.ID,
			"fire_at": notification.ScheduledDate,
		}).Warn("failed to schedule notification dispatch")
	}
}

// scheduleMedication arms one alert per anchor at its next occurrence:
// today's anchor time when still ahead, tomorrow's otherwise. Dispatch
// ids derive from the medication id and the anchor so an edit can cancel
// them all.
func (m *Manager) scheduleMedication(medication *db.Medication) {
	now := m.now()

	for _, anchor := range medication.Anchors {
		fireAt := anchor.At(now)
		if !fireAt.After(now) {
			fireAt = anchor.At(now.AddDate(0, 0, 1))
		}

		if !medication.InWindow(fireAt) {
			continue
		}

		err := m.dispatch.Schedule(medicationDispatchID(medication, anchor), fireAt, Payload{
			Title:    "Medication reminder",
			Message:  fmt.Sprintf("%s - %s", medication.Name, medication.Dosage),
			Priority: db.PriorityHigh,
		})
		if err != nil {
			m.log.WithError(err).WithFields(logrus.Fields{
				"id":      medication.ID,
				"anchor":  anchor.String(),
				"fire_at": fireAt,
			}).Warn("failed to schedule medication dispatch")
		}
	}
}

func (m *Manager) cancelMedication(medication *db.Medication) {
	for _, anchor := range medication.Anchors {
		m.cancelDispatch(medicationDispatchID(medication, anchor))
	}
}

func (m *Manager) cancelDispatch(id string) {
	err := m.dispatch.Cancel(id)
	if err != nil {
		m.log.WithError(err).WithField("id", id).Warn("failed to cancel dispatch")
	}
}

func medicationDispatchID(medication *db.Medication, anchor db.ClockTime) string {
	return fmt.Sprintf("%s-%d-%d", medication.ID, anchor.Hour, anchor.Minute)
}

func (m *Manager) indexOf(id uuid.UUID) int {
	for index, notification := range m.notifications {
		if notification.ID == id {
			return index
		}
	}

	return -1
}

func (m *Manager) medicationIndexOf(id uuid.UUID) int {
	for index, medication := range m.medications {
		if medication.ID == id {
			return index
		}
	}

	return -1
}

type sortOrder int

const (
	ascending sortOrder = iota
	descending
)

func (m *Manager) filter(keep func(*db.Notification) bool, order sortOrder) []*db.Notification {
	var matched []*db.Notification
	for _, notification := range m.notifications {
		if keep(notification) {
			matched = append(matched, notification)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if order == descending {
			return matched[i].ScheduledDate.After(matched[j].ScheduledDate)
		}

		return matched[i].ScheduledDate.Before(matched[j].ScheduledDate)
	})

	return matched
}

func (m *Manager) persistNotifications() {
	err := m.store.SaveNotifications(m.notifications)
	if err != nil {
		m.log.WithError(err).Warn("failed to persist notifications")
	}
}

func (m *Manager) persistMedications() {
	err := m.store.SaveMedications(m.medications)
	if err != nil {
		m.log.WithError(err).Warn("failed to persist medications")
	}
}
