package identity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor application statuses.
const (
	DoctorPending  = "pending"
	DoctorApproved = "approved"
	DoctorRejected = "rejected"
)

// Patient maps to the patient table.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Email       string     `db:"email" json:"email"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Doctor maps to the doctor table. A doctor application starts pending and
// unavailable; only an admin approval flips it to approved and available.
// Rejection is terminal for the application.
type Doctor struct {
	ID            uuid.UUID `db:"id" json:"id"`
	SubjectUserID string    `db:"subject_user_id" json:"subject_user_id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Specialty     string    `db:"specialty" json:"specialty"`
	Status        string    `db:"status" json:"status"`
	IsAvailable   bool      `db:"is_available" json:"is_available"`
	Fee           float64   `db:"fee" json:"fee"`
	Rating        float64   `db:"rating" json:"rating"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
