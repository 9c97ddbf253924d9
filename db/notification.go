package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind of a medical notification
type Kind string

// Kind values
const (
	KindMedication      Kind = "medication"
	KindFollowUp        Kind = "follow_up"
	KindAppointment     Kind = "appointment"
	KindHealthCheck     Kind = "health_check"
	KindSymptomTracking Kind = "symptom_tracking"
	KindVaccination     Kind = "vaccination"
)

// Valid reports whether the kind is a known value
func (k Kind) Valid() bool {
	switch k {
	case KindMedication, KindFollowUp, KindAppointment, KindHealthCheck, KindSymptomTracking, KindVaccination:
		return true
	}

	return false
}

// Priority of a notification
type Priority string

// Priority values
const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is a known value
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}

	return false
}

// RecurrenceInterval is the named step between fires of a recurring
// notification
type RecurrenceInterval string

// RecurrenceInterval values
const (
	Daily          RecurrenceInterval = "daily"
	TwiceADay      RecurrenceInterval = "twice_daily"
	ThreeTimesADay RecurrenceInterval = "three_times_daily"
	Weekly         RecurrenceInterval = "weekly"
	Biweekly       RecurrenceInterval = "biweekly"
	Monthly        RecurrenceInterval = "monthly"
	Quarterly      RecurrenceInterval = "quarterly"
	Yearly         RecurrenceInterval = "yearly"
)

// Valid reports whether the interval is a known value
func (r RecurrenceInterval) Valid() bool {
	switch r {
	case Daily, TwiceADay, ThreeTimesADay, Weekly, Biweekly, Monthly, Quarterly, Yearly:
		return true
	}

	return false
}

// NextDate returns the fire time that follows from. Month and year steps
// follow time.AddDate's normalization at month boundaries. Unknown
// intervals return from unchanged.
func (r RecurrenceInterval) NextDate(from time.Time) time.Time {
	switch r {
	case Daily:
		return from.AddDate(0, 0, 1)
	case TwiceADay:
		return from.Add(12 * time.Hour)
	case ThreeTimesADay:
		return from.Add(8 * time.Hour)
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Biweekly:
		return from.AddDate(0, 0, 14)
	case Monthly:
		return from.AddDate(0, 1, 0)
	case Quarterly:
		return from.AddDate(0, 3, 0)
	case Yearly:
		return from.AddDate(1, 0, 0)
	}

	return from
}

var (
	// ErrNoTitle occurs when a notification has an empty title
	ErrNoTitle = errors.New("notification title must not be empty")
	// ErrBadKind occurs when a notification has an unknown kind
	ErrBadKind = errors.New("unknown notification kind")
	// ErrBadPriority occurs when a notification has an unknown priority
	ErrBadPriority = errors.New("unknown notification priority")
)

// Notification is a scheduled medical reminder for a subject. Medication,
// follow-up, appointment, health-check, symptom-tracking, and vaccination
// reminders all share this shape; the kind-specific fields are optional.
type Notification struct {
	ID                 uuid.UUID          `json:"id"`
	SubjectID          uuid.UUID          `json:"subject_id"`
	Kind               Kind               `json:"kind"`
	Title              string             `json:"title"`
	Message            string             `json:"message"`
	ScheduledDate      time.Time          `json:"scheduled_date"`
	Priority           Priority           `json:"priority"`
	Recurring          bool               `json:"recurring"`
	RecurrenceInterval RecurrenceInterval `json:"recurrence_interval,omitempty"`
	Completed          bool               `json:"completed"`
	CompletedDate      *time.Time         `json:"completed_date,omitempty"`
	Enabled            bool               `json:"enabled"`
	Notes              string             `json:"notes,omitempty"`

	// medication fields
	MedicationName string `json:"medication_name,omitempty"`
	Dosage         string `json:"dosage,omitempty"`
	FrequencyText  string `json:"frequency_text,omitempty"`

	// appointment and follow-up fields
	HospitalName    string     `json:"hospital_name,omitempty"`
	DepartmentName  string     `json:"department_name,omitempty"`
	DoctorName      string     `json:"doctor_name,omitempty"`
	AppointmentDate *time.Time `json:"appointment_date,omitempty"`

	// vaccination fields
	VaccineName     string `json:"vaccine_name,omitempty"`
	VaccinationSite string `json:"vaccination_site,omitempty"`
}

// Validate the notification before it is stored
func (n *Notification) Validate() error {
	if n.Title == "" {
		return ErrNoTitle
	}

	if !n.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrBadKind, n.Kind)
	}

	if !n.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrBadPriority, n.Priority)
	}

	if n.RecurrenceInterval != "" && !n.RecurrenceInterval.Valid() {
		return fmt.Errorf("unknown recurrence interval %q", n.RecurrenceInterval)
	}

	return nil
}

// Successor builds the follow-on notification spawned when a recurring
// notification is completed. It carries every descriptive field forward
// under a fresh id, cleared of completion state, scheduled at next.
func (n *Notification) Successor(next time.Time) *Notification {
	successor := *n
	successor.ID = uuid.New()
	successor.ScheduledDate = next
	successor.Completed = false
	successor.CompletedDate = nil

	return &successor
}
