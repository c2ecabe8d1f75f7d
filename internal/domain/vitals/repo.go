package vitals

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MetricFilter narrows metric list queries.
type MetricFilter struct {
	SubjectID uuid.UUID
	Type      string
	From      *time.Time
	To        *time.Time
}

type MetricRepository interface {
	Create(ctx context.Context, m *Metric) error
	GetByID(ctx context.Context, id uuid.UUID) (*Metric, error)
	List(ctx context.Context, filter MetricFilter, limit, offset int) ([]*Metric, int, error)
	LatestBySubject(ctx context.Context, subjectID uuid.UUID) ([]*Metric, error)
}

type AlertRepository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	ListBySubject(ctx context.Context, subjectID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Alert, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
