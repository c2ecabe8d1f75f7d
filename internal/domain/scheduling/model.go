package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ValidStatuses lists every status the appointment lifecycle knows.
var ValidStatuses = map[string]bool{
	StatusScheduled: true,
	StatusConfirmed: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// transitions is the appointment state machine. Statuses absent from the
// outer map are terminal.
var transitions = map[string]map[string]bool{
	StatusScheduled: {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusNoShow: true, StatusCancelled: true},
}

// CanTransition reports whether an appointment may move from one status to
// another.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

// InvalidTransitionError is returned when a status update violates the
// appointment state machine.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid appointment transition from %q to %q", e.From, e.To)
}

// Appointment maps to the appointment table.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	Status          string    `db:"status" json:"status"`
	Type            string    `db:"type" json:"type"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Fee             float64   `db:"fee" json:"fee"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	IsVideoCall     bool      `db:"is_video_call" json:"is_video_call"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
