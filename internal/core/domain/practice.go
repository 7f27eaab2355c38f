package domain

import "time"

// PersonStatus marks roster entries as active or inactive.
type PersonStatus string

const (
	StatusActive   PersonStatus = "active"
	StatusInactive PersonStatus = "inactive"
)

// Patient is a roster entry managed by admins and assigned to a practitioner.
type Patient struct {
	ID               string       `json:"id" bson:"_id,omitempty"`
	Name             string       `json:"name" bson:"name"`
	Email            string       `json:"email" bson:"email"`
	Phone            string       `json:"phone" bson:"phone"`
	DateOfBirth      string       `json:"date_of_birth" bson:"date_of_birth"`
	EmergencyContact string       `json:"emergency_contact" bson:"emergency_contact"`
	PractitionerID   string       `json:"practitioner_id" bson:"practitioner_id"`
	Status           PersonStatus `json:"status" bson:"status"`
	CreatedAt        time.Time    `json:"created_at" bson:"created_at"`
}

// Practitioner is a therapist on the practice roster with a patient capacity.
type Practitioner struct {
	ID             string       `json:"id" bson:"_id,omitempty"`
	Name           string       `json:"name" bson:"name"`
	Email          string       `json:"email" bson:"email"`
	Specialization string       `json:"specialization" bson:"specialization"`
	LicenseNumber  string       `json:"license_number" bson:"license_number"`
	Phone          string       `json:"phone" bson:"phone"`
	Status         PersonStatus `json:"status" bson:"status"`
	MaxPatients    int          `json:"max_patients" bson:"max_patients"`
}

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// validAppointmentTransitions defines the allowed state machine transitions.
var validAppointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled: {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validAppointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a scheduled meeting between a patient and a practitioner.
type Appointment struct {
	ID             string            `json:"id" bson:"_id,omitempty"`
	PatientID      string            `json:"patient_id" bson:"patient_id"`
	PractitionerID string            `json:"practitioner_id" bson:"practitioner_id"`
	StartsAt       time.Time         `json:"starts_at" bson:"starts_at"`
	DurationMin    int               `json:"duration_min" bson:"duration_min"`
	Type           string            `json:"type" bson:"type"`
	Status         AppointmentStatus `json:"status" bson:"status"`
	Room           string            `json:"room,omitempty" bson:"room,omitempty"`
	Notes          string            `json:"notes,omitempty" bson:"notes,omitempty"`
}

// TherapySession is the clinical record produced when an appointment completes.
type TherapySession struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	AppointmentID  string    `json:"appointment_id" bson:"appointment_id"`
	PatientID      string    `json:"patient_id" bson:"patient_id"`
	PractitionerID string    `json:"practitioner_id" bson:"practitioner_id"`
	HeldAt         time.Time `json:"held_at" bson:"held_at"`
	DurationMin    int       `json:"duration_min" bson:"duration_min"`
	Notes          string    `json:"notes" bson:"notes"`
	Outcomes       []string  `json:"outcomes,omitempty" bson:"outcomes,omitempty"`
}

// DashboardStats aggregates practice-wide counts for the admin dashboard.
type DashboardStats struct {
	ActivePatients        int64 `json:"active_patients"`
	ActivePractitioners   int64 `json:"active_practitioners"`
	ScheduledAppointments int64 `json:"scheduled_appointments"`
	CompletedSessions     int64 `json:"completed_sessions"`
}
