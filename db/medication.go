package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Frequency of a medication's daily dosing
type Frequency string

// Frequency values
const (
	OnceDaily       Frequency = "once_daily"
	TwiceDaily      Frequency = "twice_daily"
	ThreeTimesDaily Frequency = "three_times_daily"
	FourTimesDaily  Frequency = "four_times_daily"
	AsNeeded        Frequency = "as_needed"
)

// Valid reports whether the frequency is a known value
func (f Frequency) Valid() bool {
	switch f {
	case OnceDaily, TwiceDaily, ThreeTimesDaily, FourTimesDaily, AsNeeded:
		return true
	}

	return false
}

// DefaultAnchors for the frequency, used when the user does not pick times
func (f Frequency) DefaultAnchors() []ClockTime {
	switch f {
	case OnceDaily:
		return []ClockTime{{Hour: 9}}
	case TwiceDaily:
		return []ClockTime{{Hour: 9}, {Hour: 21}}
	case ThreeTimesDaily:
		return []ClockTime{{Hour: 8}, {Hour: 14}, {Hour: 20}}
	case FourTimesDaily:
		return []ClockTime{{Hour: 8}, {Hour: 12}, {Hour: 16}, {Hour: 20}}
	}

	return nil
}

// ClockTime is a wall-clock hour/minute pair without a date, reused every
// day a medication is active
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Valid reports whether the clock time is within a day
func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// At builds the concrete timestamp for this clock time on the given day
func (c ClockTime) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

var (
	// ErrNoMedicationName occurs when a medication has an empty name
	ErrNoMedicationName = errors.New("medication name must not be empty")
	// ErrBadFrequency occurs when a medication has an unknown frequency
	ErrBadFrequency = errors.New("unknown medication frequency")
	// ErrNoAnchors occurs when a scheduled medication has no reminder times
	ErrNoAnchors = errors.New("medication must have at least one reminder time")
	// ErrBadAnchor occurs when a reminder time is outside the day
	ErrBadAnchor = errors.New("reminder time must be within 00:00-23:59")
)

// Medication reminder information
type Medication struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Dosage       string      `json:"dosage"`
	Frequency    Frequency   `json:"frequency"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      *time.Time  `json:"end_date,omitempty"`
	Anchors      []ClockTime `json:"reminder_times"`
	Notes        string      `json:"notes,omitempty"`
	Usage        string      `json:"usage,omitempty"`
	Instructions string      `json:"instructions,omitempty"`
	Active       bool        `json:"active"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Validate the medication before it is stored
func (m *Medication) Validate() error {
	if m.Name == "" {
		return ErrNoMedicationName
	}

	if !m.Frequency.Valid() {
		return fmt.Errorf("%w: %q", ErrBadFrequency, m.Frequency)
	}

	if len(m.Anchors) == 0 && m.Frequency != AsNeeded {
		return ErrNoAnchors
	}

	for _, anchor := range m.Anchors {
		if !anchor.Valid() {
			return fmt.Errorf("%w: %s", ErrBadAnchor, anchor)
		}
	}

	return nil
}

// InWindow reports whether the given day falls within the medication's
// start/end bounds, compared at day granularity
func (m *Medication) InWindow(day time.Time) bool {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	start := m.StartDate
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if dayStart.Before(startDay) {
		return false
	}

	if m.EndDate != nil {
		end := *m.EndDate
		endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
		if dayStart.After(endDay) {
			return false
		}
	}

	return true
}
