package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Template constructors for the six notification kinds. Each returns a
// populated notification with kind-appropriate defaults; callers may
// adjust fields before handing it to the lifecycle manager.

// NewMedicationNotification reminds the subject to take a dose
func NewMedicationNotification(subjectID uuid.UUID, subjectName, medicationName, dosage, frequency string, at time.Time) *Notification {
	message := fmt.Sprintf(
		"Hello %s, time to take %s, %s. %s. Follow your doctor's instructions.",
		subjectName, medicationName, dosage, frequency,
	)

	return &Notification{
		ID:             uuid.New(),
		SubjectID:      subjectID,
		Kind:           KindMedication,
		Title:          "Medication reminder",
		Message:        message,
		ScheduledDate:  at,
		Priority:       PriorityHigh,
		Recurring:      true,
		Enabled:        true,
		MedicationName: medicationName,
		Dosage:         dosage,
		FrequencyText:  frequency,
	}
}

// NewFollowUpNotification fires one day ahead of the follow-up visit
func NewFollowUpNotification(subjectID uuid.UUID, checkupItem string, visit time.Time, hospitalName, departmentName string) *Notification {
	message := fmt.Sprintf(
		"Your %s follow-up is scheduled for %s. Please prepare ahead and arrive on time at %s, %s.",
		checkupItem, visit.Format("January 2, 2006"), hospitalName, departmentName,
	)

	appointment := visit

	return &Notification{
		ID:              uuid.New(),
		SubjectID:       subjectID,
		Kind:            KindFollowUp,
		Title:           "Follow-up reminder",
		Message:         message,
		ScheduledDate:   visit.AddDate(0, 0, -1),
		Priority:        PriorityHigh,
		Enabled:         true,
		HospitalName:    hospitalName,
		DepartmentName:  departmentName,
		AppointmentDate: &appointment,
	}
}

// NewAppointmentNotification fires two hours ahead of the appointment
func NewAppointmentNotification(subjectID uuid.UUID, doctorName string, visit time.Time, hospitalName, departmentName string) *Notification {
	message := fmt.Sprintf(
		"Your appointment with Dr. %s is scheduled for %s at %s, %s. Please do not forget.",
		doctorName, visit.Format("January 2, 2006 15:04"), hospitalName, departmentName,
	)

	appointment := visit

	return &Notification{
		ID:              uuid.New(),
		SubjectID:       subjectID,
		Kind:            KindAppointment,
		Title:           "Appointment reminder",
		Message:         message,
		ScheduledDate:   visit.Add(-2 * time.Hour),
		Priority:        PriorityHigh,
		Enabled:         true,
		HospitalName:    hospitalName,
		DepartmentName:  departmentName,
		DoctorName:      doctorName,
		AppointmentDate: &appointment,
	}
}

// NewHealthCheckNotification recurs yearly
func NewHealthCheckNotification(subjectID uuid.UUID, subjectName, checkType string, at time.Time) *Notification {
	message := fmt.Sprintf(
		"Hello %s, your %s is coming up. Consider scheduling a full checkup soon to keep an eye on your health.",
		subjectName, checkType,
	)

	return &Notification{
		ID:                 uuid.New(),
		SubjectID:          subjectID,
		Kind:               KindHealthCheck,
		Title:              "Health check reminder",
		Message:            message,
		ScheduledDate:      at,
		Priority:           PriorityNormal,
		Recurring:          true,
		RecurrenceInterval: Yearly,
		Enabled:            true,
	}
}

// NewSymptomTrackingNotification recurs daily
func NewSymptomTrackingNotification(subjectID uuid.UUID, symptomName string, at time.Time) *Notification {
	message := fmt.Sprintf(
		"Remember to log today's %s. Consistent tracking helps your doctor understand your condition.",
		symptomName,
	)

	return &Notification{
		ID:                 uuid.New(),
		SubjectID:          subjectID,
		Kind:               KindSymptomTracking,
		Title:              "Symptom tracking reminder",
		Message:            message,
		ScheduledDate:      at,
		Priority:           PriorityNormal,
		Recurring:          true,
		RecurrenceInterval: Daily,
		Enabled:            true,
	}
}

// NewVaccinationNotification fires one day ahead of the vaccination
func NewVaccinationNotification(subjectID uuid.UUID, subjectName, vaccineName string, visit time.Time, site string) *Notification {
	message := fmt.Sprintf(
		"%s, you are due at %s on %s for your %s shot. Bring your documents and mind the pre- and post-vaccination guidance.",
		subjectName, site, visit.Format("January 2, 2006"), vaccineName,
	)

	appointment := visit

	return &Notification{
		ID:              uuid.New(),
		SubjectID:       subjectID,
		Kind:            KindVaccination,
		Title:           "Vaccination reminder",
		Message:         message,
		ScheduledDate:   visit.AddDate(0, 0, -1),
		Priority:        PriorityHigh,
		Enabled:         true,
		AppointmentDate: &appointment,
		VaccineName:     vaccineName,
		VaccinationSite: site,
	}
}
