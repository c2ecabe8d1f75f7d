package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
}

func NewService(patients PatientRepository, doctors DoctorRepository) *Service {
	return &Service{patients: patients, doctors: doctors}
}

// -- Patient --

func (s *Service) RegisterPatient(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("valid email is required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// -- Doctor --

// RegisterDoctor files a doctor application. It always starts pending and
// unavailable regardless of the submitted fields.
func (s *Service) RegisterDoctor(ctx context.Context, d *Doctor) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(d.Email, "@") {
		return fmt.Errorf("valid email is required")
	}
	if strings.TrimSpace(d.Specialty) == "" {
		return fmt.Errorf("specialty is required")
	}
	if d.Fee < 0 {
		return fmt.Errorf("fee must not be negative")
	}
	d.Status = DoctorPending
	d.IsAvailable = false
	d.Rating = 0
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, filter DoctorFilter, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, filter, limit, offset)
}

// ApproveDoctor moves a pending application to approved and marks the doctor
// available. Only pending applications can be approved.
func (s *Service) ApproveDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.resolveApplication(ctx, id, DoctorApproved, true)
}

// RejectDoctor terminally rejects a pending application.
func (s *Service) RejectDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.resolveApplication(ctx, id, DoctorRejected, false)
}

func (s *Service) resolveApplication(ctx context.Context, id uuid.UUID, status string, available bool) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != DoctorPending {
		return nil, fmt.Errorf("doctor application is %s, only pending applications can be resolved", d.Status)
	}
	if err := s.doctors.SetStatus(ctx, id, status, available); err != nil {
		return nil, fmt.Errorf("update doctor status: %w", err)
	}
	d.Status = status
	d.IsAvailable = available
	return d, nil
}

// -- Directory lookups for the scheduling domain --

// PatientContact returns the name and email used in appointment
// notifications.
func (s *Service) PatientContact(ctx context.Context, id uuid.UUID) (string, string, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return p.Name, p.Email, nil
}

// DoctorName returns the doctor's display name.
func (s *Service) DoctorName(ctx context.Context, id uuid.UUID) (string, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return d.Name, nil
}
