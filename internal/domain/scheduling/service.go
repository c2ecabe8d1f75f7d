package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/healthport/healthport/internal/platform/notification"
)

// PartyDirectory resolves the contact details interpolated into appointment
// notifications. The identity domain satisfies it.
type PartyDirectory interface {
	PatientContact(ctx context.Context, id uuid.UUID) (name, email string, err error)
	DoctorName(ctx context.Context, id uuid.UUID) (string, error)
}

// Notifier sends the appointment confirmation email. Best effort: the return
// value only indicates whether delivery succeeded.
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, data notification.AppointmentConfirmation) bool
}

type Service struct {
	appointments AppointmentRepository
	directory    PartyDirectory
	notifier     Notifier
	logger       zerolog.Logger
}

func NewService(appointments AppointmentRepository, directory PartyDirectory, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{appointments: appointments, directory: directory, notifier: notifier, logger: logger}
}

// CreateAppointment books an appointment in the scheduled state and fires a
// best-effort confirmation email. Notification failure never fails the
// booking.
func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = 30
	}
	if a.Fee < 0 {
		return fmt.Errorf("fee must not be negative")
	}
	if a.Type == "" {
		a.Type = "consultation"
	}
	a.Status = StatusScheduled

	if err := s.appointments.Create(ctx, a); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	s.notifyConfirmation(ctx, a)
	return nil
}

func (s *Service) notifyConfirmation(ctx context.Context, a *Appointment) {
	if s.notifier == nil || s.directory == nil {
		return
	}
	patientName, patientEmail, err := s.directory.PatientContact(ctx, a.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("skip confirmation: patient lookup failed")
		return
	}
	doctorName, err := s.directory.DoctorName(ctx, a.DoctorID)
	if err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("skip confirmation: doctor lookup failed")
		return
	}
	delivered := s.notifier.SendAppointmentConfirmation(ctx, notification.AppointmentConfirmation{
		PatientName:  patientName,
		PatientEmail: patientEmail,
		DoctorName:   doctorName,
		ScheduledAt:  a.ScheduledAt,
		Fee:          a.Fee,
		IsVideoCall:  a.IsVideoCall,
	})
	if !delivered {
		s.logger.Warn().Str("appointment_id", a.ID.String()).Msg("appointment confirmation not delivered")
	}
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// UpdateStatus applies a status change after validating it against the state
// machine. The stored status is re-read first so a stale client cannot skip
// states, and the write is a compare-and-set so a concurrent transition
// cannot be silently overwritten.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*Appointment, error) {
	if !ValidStatuses[newStatus] {
		return nil, fmt.Errorf("invalid appointment status: %s", newStatus)
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(a.Status, newStatus) {
		return nil, &InvalidTransitionError{From: a.Status, To: newStatus}
	}
	if err := s.appointments.UpdateStatus(ctx, id, a.Status, newStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Another transition won the race. Re-read and report the
			// conflict against the status that is now stored.
			current, gerr := s.appointments.GetByID(ctx, id)
			if gerr != nil {
				return nil, gerr
			}
			return nil, &InvalidTransitionError{From: current.Status, To: newStatus}
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	a.Status = newStatus
	a.UpdatedAt = time.Now().UTC()
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
}
