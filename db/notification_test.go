package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDateOffsets(t *testing.T) {
	from := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		interval RecurrenceInterval
		want     time.Time
	}{
		{Daily, time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
		{TwiceADay, time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)},
		{ThreeTimesADay, time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)},
		{Weekly, time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)},
		{Biweekly, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)},
		{Monthly, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)},
		{Quarterly, time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)},
		{Yearly, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)},
	}

	for _, test := range tests {
		t.Run(string(test.interval), func(t *testing.T) {
			assert.Equal(t, test.want, test.interval.NextDate(from))
		})
	}
}

func TestNextDateIsDeterministic(t *testing.T) {
	from := time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)

	for _, interval := range []RecurrenceInterval{Daily, TwiceADay, ThreeTimesADay, Weekly, Biweekly, Monthly, Quarterly, Yearly} {
		assert.Equal(t, interval.NextDate(from), interval.NextDate(from), string(interval))
	}
}

func TestNextDateMonthBoundaryNormalizes(t *testing.T) {
	// Jan 31 + 1 month lands past short February per time.AddDate
	from := time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), Monthly.NextDate(from))
}

func TestSuccessorGetsFreshIdentity(t *testing.T) {
	completedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	original := &Notification{
		ID:                 uuid.New(),
		SubjectID:          uuid.New(),
		Kind:               KindMedication,
		Title:              "Medication reminder",
		Message:            "take your dose",
		ScheduledDate:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Priority:           PriorityHigh,
		Recurring:          true,
		RecurrenceInterval: Daily,
		Completed:          true,
		CompletedDate:      &completedAt,
		Enabled:            true,
		MedicationName:     "Metformin",
		Dosage:             "500mg",
	}

	next := original.RecurrenceInterval.NextDate(original.ScheduledDate)
	successor := original.Successor(next)

	assert.NotEqual(t, original.ID, successor.ID)
	assert.Equal(t, next, successor.ScheduledDate)
	assert.False(t, successor.Completed)
	assert.Nil(t, successor.CompletedDate)

	// descriptive fields carry forward
	assert.Equal(t, original.SubjectID, successor.SubjectID)
	assert.Equal(t, original.Kind, successor.Kind)
	assert.Equal(t, original.Message, successor.Message)
	assert.Equal(t, original.MedicationName, successor.MedicationName)
	assert.True(t, successor.Recurring)
	assert.True(t, successor.Enabled)

	// original untouched
	assert.True(t, original.Completed)
	require.NotNil(t, original.CompletedDate)
}

func TestNotificationValidate(t *testing.T) {
	valid := &Notification{
		ID:            uuid.New(),
		SubjectID:     uuid.New(),
		Kind:          KindFollowUp,
		Title:         "Follow-up reminder",
		ScheduledDate: time.Now(),
		Priority:      PriorityNormal,
	}
	require.NoError(t, valid.Validate())

	noTitle := *valid
	noTitle.Title = ""
	assert.ErrorIs(t, noTitle.Validate(), ErrNoTitle)

	badKind := *valid
	badKind.Kind = "carrier_pigeon"
	assert.ErrorIs(t, badKind.Validate(), ErrBadKind)

	badPriority := *valid
	badPriority.Priority = "extreme"
	assert.ErrorIs(t, badPriority.Validate(), ErrBadPriority)

	badInterval := *valid
	badInterval.RecurrenceInterval = "fortnightly"
	assert.Error(t, badInterval.Validate())
}
