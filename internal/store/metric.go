package store

import (
	"database/sql"
	"time"
)

// Metric is a persisted pipeline health snapshot.
type Metric struct {
	ID           int64     `json:"id"`
	FPS          float64   `json:"fps"`
	AvgLatencyMs float64   `json:"avg_latency_ms"`
	Dropped      int64     `json:"dropped"`
	CreatedAt    time.Time `json:"created_at"`
}

// MetricRepository persists and queries pipeline metrics.
type MetricRepository struct {
	db *sql.DB
}

// Metrics returns the metric repository for this store.
func (s *Store) Metrics() *MetricRepository {
	return &MetricRepository{db: s.db}
}

// Insert stores a metric snapshot.
func (r *MetricRepository) Insert(m *Metric) error {
	m.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO metrics (fps, avg_latency_ms, dropped, created_at)
		 VALUES (?, ?, ?, ?)`,
		m.FPS, m.AvgLatencyMs, m.Dropped, m.CreatedAt,
	)
	if err != nil {
		return err
	}

	m.ID, err = result.LastInsertId()
	return err
}

// ListRecent retrieves the most recent snapshots, newest first.
func (r *MetricRepository) ListRecent(limit int) ([]*Metric, error) {
	rows, err := r.db.Query(
		`SELECT id, fps, avg_latency_ms, dropped, created_at
		 FROM metrics ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []*Metric
	for rows.Next() {
		m := &Metric{}
		if err := rows.Scan(&m.ID, &m.FPS, &m.AvgLatencyMs, &m.Dropped, &m.CreatedAt); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metrics, nil
}

// Prune deletes snapshots older than the given age and returns the
// number of rows removed.
func (r *MetricRepository) Prune(age time.Duration) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM metrics WHERE created_at < ?`,
		time.Now().Add(-age),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
