package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Profiles table - named tuning presets for the pointer pipeline
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			filter TEXT NOT NULL CHECK(filter IN ('ema', 'one_euro')),
			filter_base REAL NOT NULL DEFAULT 0.3,
			min_cutoff REAL NOT NULL DEFAULT 1.0,
			beta REAL NOT NULL DEFAULT 0.007,
			deriv_cutoff REAL NOT NULL DEFAULT 1.0,
			pinch_threshold REAL NOT NULL DEFAULT 0.05,
			pinch_hysteresis REAL NOT NULL DEFAULT 0.02,
			debounce_time REAL NOT NULL DEFAULT 0.1,
			click_distance REAL NOT NULL DEFAULT 0.02,
			click_timeout REAL NOT NULL DEFAULT 0.3,
			drag_threshold REAL NOT NULL DEFAULT 0.01,
			dead_zone REAL NOT NULL DEFAULT 1.0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Metrics table - periodic pipeline health snapshots
		`CREATE TABLE IF NOT EXISTS metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fps REAL NOT NULL,
			avg_latency_ms REAL NOT NULL,
			dropped INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_metrics_created_at ON metrics(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
