package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/healthport/healthport/internal/platform/notification"
)

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*Appointment

	// staleStatus, when set, is reported by the next GetByID instead of the
	// stored status, simulating a read that raced a concurrent transition.
	staleStatus string
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (r *mockAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.appointments[a.ID] = a
	return nil
}

func (r *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *a
	if r.staleStatus != "" {
		copied.Status = r.staleStatus
		r.staleStatus = ""
	}
	return &copied, nil
}

func (r *mockAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) error {
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return pgx.ErrNoRows
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	return nil
}

func (r *mockAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(func(a *Appointment) bool { return a.PatientID == patientID }, limit, offset)
}

func (r *mockAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(func(a *Appointment) bool { return a.DoctorID == doctorID }, limit, offset)
}

func (r *mockAppointmentRepo) list(match func(*Appointment) bool, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range r.appointments {
		if match(a) {
			items = append(items, a)
		}
	}
	total := len(items)
	if offset >= len(items) {
		return nil, total, nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, total, nil
}

type mockDirectory struct {
	failPatient bool
}

func (d *mockDirectory) PatientContact(_ context.Context, _ uuid.UUID) (string, string, error) {
	if d.failPatient {
		return "", "", errors.New("patient not found")
	}
	return "Jane Roe", "jane@example.com", nil
}

func (d *mockDirectory) DoctorName(_ context.Context, _ uuid.UUID) (string, error) {
	return "Adams", nil
}

type mockNotifier struct {
	mu        sync.Mutex
	sent      []notification.AppointmentConfirmation
	delivered bool
}

func (n *mockNotifier) SendAppointmentConfirmation(_ context.Context, data notification.AppointmentConfirmation) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, data)
	return n.delivered
}

func validAppointment() *Appointment {
	return &Appointment{
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Fee:         150,
	}
}

func TestCreateAppointment_StartsScheduled(t *testing.T) {
	repo := newMockAppointmentRepo()
	notifier := &mockNotifier{delivered: true}
	svc := NewService(repo, &mockDirectory{}, notifier, zerolog.Nop())

	a := validAppointment()
	a.Status = StatusCompleted // client-supplied status must be ignored
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected initial status scheduled, got %s", a.Status)
	}
	if a.DurationMinutes != 30 {
		t.Errorf("expected default duration 30, got %d", a.DurationMinutes)
	}
	if a.Type != "consultation" {
		t.Errorf("expected default type consultation, got %s", a.Type)
	}
}

func TestCreateAppointment_SendsConfirmation(t *testing.T) {
	repo := newMockAppointmentRepo()
	notifier := &mockNotifier{delivered: true}
	svc := NewService(repo, &mockDirectory{}, notifier, zerolog.Nop())

	a := validAppointment()
	a.IsVideoCall = true
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 confirmation, got %d", len(notifier.sent))
	}
	data := notifier.sent[0]
	if data.PatientName != "Jane Roe" || data.DoctorName != "Adams" {
		t.Errorf("unexpected names in confirmation: %+v", data)
	}
	if data.Fee != 150 || !data.IsVideoCall {
		t.Errorf("expected fee and video flag to be carried, got %+v", data)
	}
}

func TestCreateAppointment_NotificationFailureDoesNotFailBooking(t *testing.T) {
	repo := newMockAppointmentRepo()
	notifier := &mockNotifier{delivered: false}
	svc := NewService(repo, &mockDirectory{}, notifier, zerolog.Nop())

	a := validAppointment()
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("expected booking to succeed despite notification failure, got %v", err)
	}
	if _, err := svc.GetAppointment(context.Background(), a.ID); err != nil {
		t.Errorf("expected appointment to be persisted: %v", err)
	}
}

func TestCreateAppointment_LookupFailureSkipsNotification(t *testing.T) {
	repo := newMockAppointmentRepo()
	notifier := &mockNotifier{delivered: true}
	svc := NewService(repo, &mockDirectory{failPatient: true}, notifier, zerolog.Nop())

	a := validAppointment()
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("expected no confirmation attempt when lookup fails, got %d", len(notifier.sent))
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	svc := NewService(newMockAppointmentRepo(), &mockDirectory{}, &mockNotifier{}, zerolog.Nop())

	tests := []struct {
		name string
		mod  func(*Appointment)
	}{
		{"missing patient", func(a *Appointment) { a.PatientID = uuid.Nil }},
		{"missing doctor", func(a *Appointment) { a.DoctorID = uuid.Nil }},
		{"missing time", func(a *Appointment) { a.ScheduledAt = time.Time{} }},
		{"negative fee", func(a *Appointment) { a.Fee = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAppointment()
			tt.mod(a)
			if err := svc.CreateAppointment(context.Background(), a); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo, &mockDirectory{}, &mockNotifier{delivered: true}, zerolog.Nop())

	a := validAppointment()
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), a.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", updated.Status)
	}

	stored, _ := repo.GetByID(context.Background(), a.ID)
	if stored.Status != StatusConfirmed {
		t.Errorf("expected persisted status confirmed, got %s", stored.Status)
	}
}

func TestUpdateStatus_RejectsInvalidTransition(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo, &mockDirectory{}, &mockNotifier{delivered: true}, zerolog.Nop())

	a := validAppointment()
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, status := range []string{StatusConfirmed, StatusCompleted} {
		if _, err := svc.UpdateStatus(context.Background(), a.ID, status); err != nil {
			t.Fatalf("unexpected error moving to %s: %v", status, err)
		}
	}

	_, err := svc.UpdateStatus(context.Background(), a.ID, StatusConfirmed)
	if err == nil {
		t.Fatal("expected completed -> confirmed to be rejected")
	}
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if invalid.From != StatusCompleted || invalid.To != StatusConfirmed {
		t.Errorf("expected error to carry both states, got %+v", invalid)
	}

	stored, _ := repo.GetByID(context.Background(), a.ID)
	if stored.Status != StatusCompleted {
		t.Errorf("expected status unchanged after rejection, got %s", stored.Status)
	}
}

func TestUpdateStatus_ConcurrentTransitionConflicts(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo, &mockDirectory{}, &mockNotifier{delivered: true}, zerolog.Nop())

	a := validAppointment()
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), a.ID, StatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A request that read the appointment before the cancellation landed
	// still sees it as scheduled; its compare-and-set must lose.
	repo.staleStatus = StatusScheduled
	_, err := svc.UpdateStatus(context.Background(), a.ID, StatusConfirmed)
	if err == nil {
		t.Fatal("expected conflict when a concurrent transition won")
	}
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if invalid.From != StatusCancelled || invalid.To != StatusConfirmed {
		t.Errorf("expected conflict against the stored status, got %+v", invalid)
	}

	stored, _ := repo.GetByID(context.Background(), a.ID)
	if stored.Status != StatusCancelled {
		t.Errorf("expected cancellation to stand, got %s", stored.Status)
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc := NewService(newMockAppointmentRepo(), &mockDirectory{}, &mockNotifier{}, zerolog.Nop())
	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), "rescheduled"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := NewService(newMockAppointmentRepo(), &mockDirectory{}, &mockNotifier{}, zerolog.Nop())
	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), StatusConfirmed); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestListByPatientAndDoctor(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo, &mockDirectory{}, &mockNotifier{delivered: true}, zerolog.Nop())

	patient := uuid.New()
	doctor := uuid.New()
	for i := 0; i < 3; i++ {
		a := validAppointment()
		a.PatientID = patient
		if i < 2 {
			a.DoctorID = doctor
		}
		if err := svc.CreateAppointment(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	_, total, err := svc.ListByPatient(context.Background(), patient, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 patient appointments, got %d", total)
	}

	_, total, err = svc.ListByDoctor(context.Background(), doctor, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 doctor appointments, got %d", total)
	}
}
