// Package notification delivers best-effort email notifications for portal
// events. Delivery failures are logged and never propagated to callers.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EmailSender is the interface for sending email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ---------------------------------------------------------------------------
// SMTP sender
// ---------------------------------------------------------------------------

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers email over SMTP with PLAIN auth.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendEmail(_ context.Context, to, subject, body string) error {
	if s.cfg.Host == "" {
		return errors.New("smtp host not configured")
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

// ---------------------------------------------------------------------------
// Mock sender (test double)
// ---------------------------------------------------------------------------

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
	FailError  string
}

// SendEmail records the call and optionally returns an error.
func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded email calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// ---------------------------------------------------------------------------
// Template engine
// ---------------------------------------------------------------------------

// Template defines a reusable notification template.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		templates: make(map[string]*Template),
	}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "appointment-confirmation",
			Name:    "Appointment Confirmation",
			Subject: "Appointment Confirmed with Dr. {{doctor_name}}",
			Body: "Dear {{patient_name}}, your appointment with Dr. {{doctor_name}} is scheduled for " +
				"{{date}} at {{time}}. Consultation fee: {{fee}}. {{location_line}}",
		},
		{
			ID:      "appointment-cancelled",
			Name:    "Appointment Cancelled",
			Subject: "Appointment Cancelled",
			Body:    "Dear {{patient_name}}, your appointment with Dr. {{doctor_name}} on {{date}} has been cancelled.",
		},
		{
			ID:      "health-alert",
			Name:    "Health Alert",
			Subject: "Health Alert: {{alert_title}}",
			Body:    "Dear {{patient_name}}, a new health alert was generated from your recent reading: {{alert_message}}",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are left
// as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

// ---------------------------------------------------------------------------
// Sender
// ---------------------------------------------------------------------------

// AppointmentConfirmation carries the fields interpolated into the
// appointment-confirmation email.
type AppointmentConfirmation struct {
	PatientName  string
	PatientEmail string
	DoctorName   string
	ScheduledAt  time.Time
	Fee          float64
	IsVideoCall  bool
}

// Sender renders templates and dispatches them through an EmailSender with a
// bounded timeout. All sends are best effort: failures are logged, never
// returned.
type Sender struct {
	email     EmailSender
	templates *TemplateEngine
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewSender(email EmailSender, tpl *TemplateEngine, timeout time.Duration, logger zerolog.Logger) *Sender {
	return &Sender{email: email, templates: tpl, timeout: timeout, logger: logger}
}

// SendAppointmentConfirmation emails the patient about a newly booked
// appointment. Returns true when delivery succeeded.
func (s *Sender) SendAppointmentConfirmation(ctx context.Context, data AppointmentConfirmation) bool {
	locationLine := "Please arrive 10 minutes early."
	if data.IsVideoCall {
		locationLine = "This is a video consultation; a join link will follow."
	}

	return s.send(ctx, "appointment-confirmation", data.PatientEmail, map[string]string{
		"patient_name":  data.PatientName,
		"doctor_name":   data.DoctorName,
		"date":          data.ScheduledAt.Format("Monday, 2 January 2006"),
		"time":          data.ScheduledAt.Format("15:04"),
		"fee":           fmt.Sprintf("%.2f", data.Fee),
		"location_line": locationLine,
	})
}

// SendHealthAlert emails the patient about a derived health alert.
func (s *Sender) SendHealthAlert(ctx context.Context, patientName, patientEmail, title, message string) bool {
	return s.send(ctx, "health-alert", patientEmail, map[string]string{
		"patient_name":  patientName,
		"alert_title":   title,
		"alert_message": message,
	})
}

func (s *Sender) send(ctx context.Context, templateID, recipient string, data map[string]string) bool {
	subject, body, err := s.templates.Render(templateID, data)
	if err != nil {
		s.logger.Error().Err(err).Str("template", templateID).Msg("render notification template")
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.email.SendEmail(sendCtx, recipient, subject, body); err != nil {
		s.logger.Warn().Err(err).
			Str("template", templateID).
			Str("recipient", recipient).
			Msg("notification delivery failed")
		return false
	}
	return true
}
