package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FilterAlgorithm selects the stabilization filter a profile applies to
// raw hand positions.
type FilterAlgorithm string

const (
	// FilterEMA selects the adaptive exponential moving average.
	FilterEMA FilterAlgorithm = "ema"
	// FilterOneEuro selects the One-Euro filter.
	FilterOneEuro FilterAlgorithm = "one_euro"
)

// Profile is a named tuning preset for the pointer pipeline: which
// stabilization filter to run, its coefficients, and the pinch and click
// thresholds of the gesture machine.
type Profile struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Filter FilterAlgorithm `json:"filter"`

	// Adaptive EMA coefficient, used when Filter is "ema".
	FilterBase float64 `json:"filter_base"`

	// One-Euro coefficients, used when Filter is "one_euro".
	MinCutoff   float64 `json:"min_cutoff"`
	Beta        float64 `json:"beta"`
	DerivCutoff float64 `json:"deriv_cutoff"`

	// Gesture machine thresholds. Distances are in normalized hand
	// space; times are in seconds.
	PinchThreshold  float64 `json:"pinch_threshold"`
	PinchHysteresis float64 `json:"pinch_hysteresis"`
	DebounceTime    float64 `json:"debounce_time"`
	ClickDistance   float64 `json:"click_distance"`
	ClickTimeout    float64 `json:"click_timeout"`
	DragThreshold   float64 `json:"drag_threshold"`

	// DeadZone is the Move suppression radius in screen pixels.
	DeadZone float64 `json:"dead_zone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultProfile returns the built-in preset the application falls back
// to when the database holds no profiles.
func DefaultProfile() *Profile {
	return &Profile{
		Name:            "default",
		Filter:          FilterOneEuro,
		FilterBase:      0.3,
		MinCutoff:       1.0,
		Beta:            0.007,
		DerivCutoff:     1.0,
		PinchThreshold:  0.05,
		PinchHysteresis: 0.02,
		DebounceTime:    0.1,
		ClickDistance:   0.02,
		ClickTimeout:    0.3,
		DragThreshold:   0.01,
		DeadZone:        1.0,
	}
}

// Validate checks that the profile holds values the pipeline can run with.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	switch p.Filter {
	case FilterEMA:
		if p.FilterBase <= 0 || p.FilterBase > 1 {
			return fmt.Errorf("filter_base must be in (0, 1], got %v", p.FilterBase)
		}
	case FilterOneEuro:
		if p.MinCutoff <= 0 {
			return fmt.Errorf("min_cutoff must be positive, got %v", p.MinCutoff)
		}
		if p.DerivCutoff <= 0 {
			return fmt.Errorf("deriv_cutoff must be positive, got %v", p.DerivCutoff)
		}
		if p.Beta < 0 {
			return fmt.Errorf("beta must be non-negative, got %v", p.Beta)
		}
	default:
		return fmt.Errorf("unknown filter algorithm %q", p.Filter)
	}
	if p.PinchThreshold <= 0 {
		return fmt.Errorf("pinch_threshold must be positive, got %v", p.PinchThreshold)
	}
	if p.PinchHysteresis < 0 {
		return fmt.Errorf("pinch_hysteresis must be non-negative, got %v", p.PinchHysteresis)
	}
	if p.DebounceTime < 0 {
		return fmt.Errorf("debounce_time must be non-negative, got %v", p.DebounceTime)
	}
	if p.ClickDistance <= 0 {
		return fmt.Errorf("click_distance must be positive, got %v", p.ClickDistance)
	}
	if p.ClickTimeout <= 0 {
		return fmt.Errorf("click_timeout must be positive, got %v", p.ClickTimeout)
	}
	if p.DragThreshold <= 0 {
		return fmt.Errorf("drag_threshold must be positive, got %v", p.DragThreshold)
	}
	return nil
}

// ProfileRepository provides CRUD operations for profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

const profileColumns = `id, name, filter, filter_base, min_cutoff, beta, deriv_cutoff,
	pinch_threshold, pinch_hysteresis, debounce_time, click_distance, click_timeout,
	drag_threshold, dead_zone, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	p := &Profile{}
	var filter string

	err := row.Scan(
		&p.ID, &p.Name, &filter, &p.FilterBase, &p.MinCutoff, &p.Beta, &p.DerivCutoff,
		&p.PinchThreshold, &p.PinchHysteresis, &p.DebounceTime, &p.ClickDistance,
		&p.ClickTimeout, &p.DragThreshold, &p.DeadZone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Filter = FilterAlgorithm(filter)
	return p, nil
}

// Create inserts a new profile into the database.
func (r *ProfileRepository) Create(p *Profile) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(p.Filter), p.FilterBase, p.MinCutoff, p.Beta, p.DerivCutoff,
		p.PinchThreshold, p.PinchHysteresis, p.DebounceTime, p.ClickDistance,
		p.ClickTimeout, p.DragThreshold, p.DeadZone, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE name = ?`, name)
	return scanProfile(row)
}

// List retrieves all profiles from the database.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update updates an existing profile in the database.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, filter = ?, filter_base = ?, min_cutoff = ?,
		 beta = ?, deriv_cutoff = ?, pinch_threshold = ?, pinch_hysteresis = ?,
		 debounce_time = ?, click_distance = ?, click_timeout = ?, drag_threshold = ?,
		 dead_zone = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, string(p.Filter), p.FilterBase, p.MinCutoff, p.Beta, p.DerivCutoff,
		p.PinchThreshold, p.PinchHysteresis, p.DebounceTime, p.ClickDistance,
		p.ClickTimeout, p.DragThreshold, p.DeadZone, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a profile from the database by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
