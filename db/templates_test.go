package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicationTemplateDefaults(t *testing.T) {
	subjectID := uuid.New()
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	notification := NewMedicationNotification(subjectID, "Ada", "Metformin", "500mg", "twice daily", at)
	require.NoError(t, notification.Validate())

	assert.Equal(t, KindMedication, notification.Kind)
	assert.Equal(t, PriorityHigh, notification.Priority)
	assert.True(t, notification.Recurring)
	assert.True(t, notification.Enabled)
	assert.Equal(t, at, notification.ScheduledDate)
	assert.Equal(t, "Metformin", notification.MedicationName)
	assert.Contains(t, notification.Message, "Metformin")
	assert.Contains(t, notification.Message, "500mg")
}

func TestFollowUpTemplateFiresOneDayAhead(t *testing.T) {
	visit := time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)

	notification := NewFollowUpNotification(uuid.New(), "blood panel", visit, "General Hospital", "Endocrinology")
	require.NoError(t, notification.Validate())

	assert.Equal(t, KindFollowUp, notification.Kind)
	assert.Equal(t, visit.AddDate(0, 0, -1), notification.ScheduledDate)
	require.NotNil(t, notification.AppointmentDate)
	assert.Equal(t, visit, *notification.AppointmentDate)
	assert.False(t, notification.Recurring)
}

func TestAppointmentTemplateFiresTwoHoursAhead(t *testing.T) {
	visit := time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)

	notification := NewAppointmentNotification(uuid.New(), "Chen", visit, "General Hospital", "Cardiology")
	require.NoError(t, notification.Validate())

	assert.Equal(t, KindAppointment, notification.Kind)
	assert.Equal(t, visit.Add(-2*time.Hour), notification.ScheduledDate)
	assert.Equal(t, "Chen", notification.DoctorName)
}

func TestHealthCheckTemplateRecursYearly(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	notification := NewHealthCheckNotification(uuid.New(), "Ada", "annual physical", at)
	require.NoError(t, notification.Validate())

	assert.Equal(t, KindHealthCheck, notification.Kind)
	assert.Equal(t, PriorityNormal, notification.Priority)
	assert.True(t, notification.Recurring)
	assert.Equal(t, Yearly, notification.RecurrenceInterval)
}

func TestSymptomTrackingTemplateRecursDaily(t *testing.T) {
	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	notification := NewSymptomTrackingNotification(uuid.New(), "blood pressure", at)
	require.NoError(t, notification.Validate())

	assert.Equal(t, KindSymptomTracking, notification.Kind)
	assert.True(t, notification.Recurring)
	assert.Equal(t, Daily, notification.RecurrenceInterval)
	assert.Equal(t, at, notification.ScheduledDate)
}

func TestVaccinationTemplateFiresOneDayAhead(t *testing.T) {
	visit := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

	notification := NewVaccinationNotification(uuid.New(), "Ada", "influenza", visit, "Community Clinic")
	require.NoError(t, notification.Validate())

	assert.Equal(t, KindVaccination, notification.Kind)
	assert.Equal(t, visit.AddDate(0, 0, -1), notification.ScheduledDate)
	assert.Equal(t, "influenza", notification.VaccineName)
	assert.Equal(t, "Community Clinic", notification.VaccinationSite)
}

func TestTemplateIdentitiesAreUnique(t *testing.T) {
	subjectID := uuid.New()
	at := time.Now()

	first := NewMedicationNotification(subjectID, "Ada", "Metformin", "500mg", "twice daily", at)
	second := NewMedicationNotification(subjectID, "Ada", "Metformin", "500mg", "twice daily", at)

	assert.NotEqual(t, first.ID, second.ID)
}
