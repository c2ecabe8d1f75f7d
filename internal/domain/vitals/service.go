package vitals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/healthport/healthport/internal/platform/cache"
	"github.com/healthport/healthport/internal/platform/db"
)

// ErrValidation marks errors caused by bad client input so handlers can
// distinguish them from persistence failures.
var ErrValidation = errors.New("validation failed")

type Service struct {
	metrics MetricRepository
	alerts  AlertRepository
	pool    *pgxpool.Pool
	cache   *cache.VitalsCache
	logger  zerolog.Logger
}

func NewService(metrics MetricRepository, alerts AlertRepository, pool *pgxpool.Pool, vc *cache.VitalsCache, logger zerolog.Logger) *Service {
	if vc == nil {
		vc = cache.New(nil, 0)
	}
	return &Service{metrics: metrics, alerts: alerts, pool: pool, cache: vc, logger: logger}
}

func (s *Service) validateMetric(m *Metric) error {
	if m.SubjectID == uuid.Nil {
		return fmt.Errorf("%w: subject_id is required", ErrValidation)
	}
	if !ValidTypes[m.Type] {
		return fmt.Errorf("%w: invalid metric type: %s", ErrValidation, m.Type)
	}
	if m.Type == TypeBloodPressure {
		if m.Systolic == nil || m.Diastolic == nil {
			return fmt.Errorf("%w: blood_pressure requires systolic and diastolic", ErrValidation)
		}
		if *m.Systolic <= 0 || *m.Diastolic <= 0 {
			return fmt.Errorf("%w: systolic and diastolic must be positive", ErrValidation)
		}
		if m.Value == "" {
			m.Value = fmt.Sprintf("%d/%d", *m.Systolic, *m.Diastolic)
		}
	} else if m.Value == "" {
		return fmt.Errorf("%w: value is required", ErrValidation)
	}
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	if m.Source == "" {
		m.Source = "manual"
	}
	return nil
}

// inTx runs fn inside a transaction when a pool is configured. Without a
// pool (unit tests) fn runs directly.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.WithTx(ctx, s.pool, fn)
}

// RecordMetric validates and classifies a metric, persists it together with
// any derived alert, and refreshes the latest-reading cache. Returns the
// alerts generated for the metric.
func (s *Service) RecordMetric(ctx context.Context, m *Metric) ([]*Alert, error) {
	if err := s.validateMetric(m); err != nil {
		return nil, err
	}
	m.Category = Classify(m.Type, m.Value)

	var derived []*Alert
	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.metrics.Create(ctx, m); err != nil {
			return fmt.Errorf("persist metric: %w", err)
		}
		derived = DeriveAlerts(m)
		for _, a := range derived {
			if err := s.alerts.Create(ctx, a); err != nil {
				return fmt.Errorf("persist alert: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLatest(ctx, m.SubjectID.String(), m.Type, m.RecordedAt, m); err != nil {
		s.logger.Warn().Err(err).Str("metric_id", m.ID.String()).Msg("latest-vitals cache update failed")
	}
	return derived, nil
}

// BulkImportMetrics validates every metric up front, then persists the whole
// batch with derived alerts in one transaction. Returns the number of alerts
// generated.
func (s *Service) BulkImportMetrics(ctx context.Context, metrics []*Metric) (int, error) {
	if len(metrics) == 0 {
		return 0, fmt.Errorf("%w: no metrics to import", ErrValidation)
	}
	for i, m := range metrics {
		if err := s.validateMetric(m); err != nil {
			return 0, fmt.Errorf("metric %d: %w", i, err)
		}
		m.Category = Classify(m.Type, m.Value)
		if m.Source == "manual" {
			m.Source = "import"
		}
	}

	alertCount := 0
	err := s.inTx(ctx, func(ctx context.Context) error {
		for _, m := range metrics {
			if err := s.metrics.Create(ctx, m); err != nil {
				return fmt.Errorf("persist metric: %w", err)
			}
			for _, a := range DeriveAlerts(m) {
				if err := s.alerts.Create(ctx, a); err != nil {
					return fmt.Errorf("persist alert: %w", err)
				}
				alertCount++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, m := range metrics {
		if err := s.cache.SetLatest(ctx, m.SubjectID.String(), m.Type, m.RecordedAt, m); err != nil {
			s.logger.Warn().Err(err).Str("metric_id", m.ID.String()).Msg("latest-vitals cache update failed")
		}
	}
	return alertCount, nil
}

func (s *Service) GetMetric(ctx context.Context, id uuid.UUID) (*Metric, error) {
	return s.metrics.GetByID(ctx, id)
}

func (s *Service) ListMetrics(ctx context.Context, filter MetricFilter, limit, offset int) ([]*Metric, int, error) {
	if filter.SubjectID == uuid.Nil {
		return nil, 0, fmt.Errorf("%w: subject_id is required", ErrValidation)
	}
	if filter.Type != "" && !ValidTypes[filter.Type] {
		return nil, 0, fmt.Errorf("%w: invalid metric type: %s", ErrValidation, filter.Type)
	}
	return s.metrics.List(ctx, filter, limit, offset)
}

// Latest returns the most recent reading of one type, consulting the cache
// before the database.
func (s *Service) Latest(ctx context.Context, subjectID uuid.UUID, metricType string) (*Metric, error) {
	if !ValidTypes[metricType] {
		return nil, fmt.Errorf("%w: invalid metric type: %s", ErrValidation, metricType)
	}
	var cached Metric
	found, err := s.cache.GetLatest(ctx, subjectID.String(), metricType, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Msg("latest-vitals cache read failed")
	}
	if found {
		return &cached, nil
	}

	items, _, err := s.metrics.List(ctx, MetricFilter{SubjectID: subjectID, Type: metricType}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no %s readings for subject", metricType)
	}
	m := items[0]
	if err := s.cache.SetLatest(ctx, subjectID.String(), metricType, m.RecordedAt, m); err != nil {
		s.logger.Warn().Err(err).Msg("latest-vitals cache update failed")
	}
	return m, nil
}

// Summary returns the latest reading per metric type with its category, for
// the dashboard.
func (s *Service) Summary(ctx context.Context, subjectID uuid.UUID) ([]*SummaryEntry, error) {
	latest, err := s.metrics.LatestBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	entries := make([]*SummaryEntry, 0, len(latest))
	for _, m := range latest {
		entries = append(entries, &SummaryEntry{
			Type:       m.Type,
			Value:      m.Value,
			Unit:       m.Unit,
			Category:   m.Category,
			RecordedAt: m.RecordedAt,
		})
	}
	return entries, nil
}

func (s *Service) ListAlerts(ctx context.Context, subjectID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Alert, int, error) {
	if subjectID == uuid.Nil {
		return nil, 0, fmt.Errorf("%w: subject_id is required", ErrValidation)
	}
	return s.alerts.ListBySubject(ctx, subjectID, unreadOnly, limit, offset)
}

func (s *Service) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	return s.alerts.MarkRead(ctx, id)
}
