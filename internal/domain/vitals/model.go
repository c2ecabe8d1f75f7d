package vitals

import (
	"time"

	"github.com/google/uuid"
)

// Category is the classification result for a metric value.
type Category string

const (
	CategoryLow      Category = "low"
	CategoryNormal   Category = "normal"
	CategoryGood     Category = "good"
	CategoryHigh     Category = "high"
	CategoryCritical Category = "critical"
)

// Metric types accepted by the portal.
const (
	TypeHeartRate        = "heart_rate"
	TypeBloodPressure    = "blood_pressure"
	TypeWeight           = "weight"
	TypeBloodSugar       = "blood_sugar"
	TypeSteps            = "steps"
	TypeSleep            = "sleep"
	TypeTemperature      = "temperature"
	TypeOxygenSaturation = "oxygen_saturation"
	TypeBMI              = "bmi"
)

// ValidTypes lists every metric type the ingestion path accepts.
var ValidTypes = map[string]bool{
	TypeHeartRate:        true,
	TypeBloodPressure:    true,
	TypeWeight:           true,
	TypeBloodSugar:       true,
	TypeSteps:            true,
	TypeSleep:            true,
	TypeTemperature:      true,
	TypeOxygenSaturation: true,
	TypeBMI:              true,
}

// Metric maps to the metric table. A metric is immutable once classified;
// alerts reference it by id at creation time.
type Metric struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SubjectID  uuid.UUID `db:"subject_id" json:"subject_id"`
	Type       string    `db:"type" json:"type"`
	Value      string    `db:"value" json:"value"`
	Unit       string    `db:"unit" json:"unit"`
	Systolic   *int      `db:"systolic" json:"systolic,omitempty"`
	Diastolic  *int      `db:"diastolic" json:"diastolic,omitempty"`
	Category   Category  `db:"category" json:"category"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	Source     string    `db:"source" json:"source"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Alert kinds produced by the deriver plus generic system kinds.
const (
	KindHighBP    = "high_bp"
	KindLowBP     = "low_bp"
	KindHighHR    = "high_hr"
	KindLowHR     = "low_hr"
	KindHighSugar = "high_sugar"
	KindLowSugar  = "low_sugar"
	KindCritical  = "critical"
	KindWarning   = "warning"
	KindInfo      = "info"
)

// Alert priorities, ordered by severity.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Alert maps to the alert table. Alerts are created only as a side effect of
// metric ingestion; only the read flag is mutable afterwards.
type Alert struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	SubjectID      uuid.UUID  `db:"subject_id" json:"subject_id"`
	SourceMetricID *uuid.UUID `db:"source_metric_id" json:"source_metric_id,omitempty"`
	Kind           string     `db:"kind" json:"kind"`
	Title          string     `db:"title" json:"title"`
	Message        string     `db:"message" json:"message"`
	Priority       string     `db:"priority" json:"priority"`
	IsRead         bool       `db:"is_read" json:"is_read"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// SummaryEntry is the dashboard view of the latest reading for one metric type.
type SummaryEntry struct {
	Type       string    `json:"type"`
	Value      string    `json:"value"`
	Unit       string    `json:"unit"`
	Category   Category  `json:"category"`
	RecordedAt time.Time `json:"recorded_at"`
}
