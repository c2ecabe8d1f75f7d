package vitals

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthport/healthport/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Metric Repository ===========

type metricRepoPG struct{ pool *pgxpool.Pool }

func NewMetricRepoPG(pool *pgxpool.Pool) MetricRepository { return &metricRepoPG{pool: pool} }

func (r *metricRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const metricCols = `id, subject_id, type, value, unit, systolic, diastolic,
	category, recorded_at, source, notes, created_at`

func (r *metricRepoPG) scanMetric(row pgx.Row) (*Metric, error) {
	var m Metric
	err := row.Scan(&m.ID, &m.SubjectID, &m.Type, &m.Value, &m.Unit, &m.Systolic, &m.Diastolic,
		&m.Category, &m.RecordedAt, &m.Source, &m.Notes, &m.CreatedAt)
	return &m, err
}

func (r *metricRepoPG) Create(ctx context.Context, m *Metric) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO metric (id, subject_id, type, value, unit, systolic, diastolic,
			category, recorded_at, source, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		m.ID, m.SubjectID, m.Type, m.Value, m.Unit, m.Systolic, m.Diastolic,
		m.Category, m.RecordedAt, m.Source, m.Notes)
	return err
}

func (r *metricRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Metric, error) {
	return r.scanMetric(r.conn(ctx).QueryRow(ctx, `SELECT `+metricCols+` FROM metric WHERE id = $1`, id))
}

func (r *metricRepoPG) List(ctx context.Context, filter MetricFilter, limit, offset int) ([]*Metric, int, error) {
	query := `SELECT ` + metricCols + ` FROM metric WHERE subject_id = $1`
	countQuery := `SELECT COUNT(*) FROM metric WHERE subject_id = $1`
	args := []interface{}{filter.SubjectID}
	idx := 2

	if filter.Type != "" {
		query += fmt.Sprintf(` AND type = $%d`, idx)
		countQuery += fmt.Sprintf(` AND type = $%d`, idx)
		args = append(args, filter.Type)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(` AND recorded_at >= $%d`, idx)
		countQuery += fmt.Sprintf(` AND recorded_at >= $%d`, idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(` AND recorded_at <= $%d`, idx)
		countQuery += fmt.Sprintf(` AND recorded_at <= $%d`, idx)
		args = append(args, *filter.To)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Metric
	for rows.Next() {
		m, err := r.scanMetric(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func (r *metricRepoPG) LatestBySubject(ctx context.Context, subjectID uuid.UUID) ([]*Metric, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT ON (type) `+metricCols+`
		FROM metric WHERE subject_id = $1
		ORDER BY type, recorded_at DESC`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Metric
	for rows.Next() {
		m, err := r.scanMetric(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

// =========== Alert Repository ===========

type alertRepoPG struct{ pool *pgxpool.Pool }

func NewAlertRepoPG(pool *pgxpool.Pool) AlertRepository { return &alertRepoPG{pool: pool} }

func (r *alertRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const alertCols = `id, subject_id, source_metric_id, kind, title, message, priority, is_read, created_at`

func (r *alertRepoPG) scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.SubjectID, &a.SourceMetricID, &a.Kind, &a.Title,
		&a.Message, &a.Priority, &a.IsRead, &a.CreatedAt)
	return &a, err
}

func (r *alertRepoPG) Create(ctx context.Context, a *Alert) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alert (id, subject_id, source_metric_id, kind, title, message, priority, is_read)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.SubjectID, a.SourceMetricID, a.Kind, a.Title, a.Message, a.Priority, a.IsRead)
	return err
}

func (r *alertRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return r.scanAlert(r.conn(ctx).QueryRow(ctx, `SELECT `+alertCols+` FROM alert WHERE id = $1`, id))
}

func (r *alertRepoPG) ListBySubject(ctx context.Context, subjectID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Alert, int, error) {
	query := `SELECT ` + alertCols + ` FROM alert WHERE subject_id = $1`
	countQuery := `SELECT COUNT(*) FROM alert WHERE subject_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
		countQuery += ` AND is_read = FALSE`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, subjectID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, query+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`, subjectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Alert
	for rows.Next() {
		a, err := r.scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *alertRepoPG) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE alert SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
