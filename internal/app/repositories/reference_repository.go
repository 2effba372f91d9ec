package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// ReferenceRepository reads and seeds states and districts
type ReferenceRepository struct {
	db *pgxpool.Pool
}

// NewReferenceRepository creates a new reference data repository
func NewReferenceRepository(db *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListStates returns all states ordered by name
func (r *ReferenceRepository) ListStates(ctx context.Context) ([]*models.State, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, code FROM states ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing states: %w", err)
	}
	defer rows.Close()

	states := make([]*models.State, 0)
	for rows.Next() {
		var s models.State
		if err := rows.Scan(&s.ID, &s.Name, &s.Code); err != nil {
			return nil, err
		}
		states = append(states, &s)
	}
	return states, rows.Err()
}

// GetState retrieves a state by ID
func (r *ReferenceRepository) GetState(ctx context.Context, id string) (*models.State, error) {
	var s models.State
	err := r.db.QueryRow(ctx, `SELECT id, name, code FROM states WHERE id = $1`, id).Scan(&s.ID, &s.Name, &s.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStateNotFound
		}
		return nil, fmt.Errorf("error retrieving state: %w", err)
	}
	return &s, nil
}

// ListDistricts returns the districts of a state ordered by name
func (r *ReferenceRepository) ListDistricts(ctx context.Context, stateID string) ([]*models.District, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, state_id FROM districts WHERE state_id = $1 ORDER BY name`, stateID)
	if err != nil {
		return nil, fmt.Errorf("error listing districts: %w", err)
	}
	defer rows.Close()

	districts := make([]*models.District, 0)
	for rows.Next() {
		var d models.District
		if err := rows.Scan(&d.ID, &d.Name, &d.StateID); err != nil {
			return nil, err
		}
		districts = append(districts, &d)
	}
	return districts, rows.Err()
}

// GetDistrict retrieves a district by ID
func (r *ReferenceRepository) GetDistrict(ctx context.Context, id string) (*models.District, error) {
	var d models.District
	err := r.db.QueryRow(ctx, `SELECT id, name, state_id FROM districts WHERE id = $1`, id).Scan(&d.ID, &d.Name, &d.StateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDistrictNotFound
		}
		return nil, fmt.Errorf("error retrieving district: %w", err)
	}
	return &d, nil
}

// UpsertState inserts or renames a state
func (r *ReferenceRepository) UpsertState(ctx context.Context, s *models.State) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO states (id, name, code) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, code = EXCLUDED.code`,
		s.ID, s.Name, s.Code)
	if err != nil {
		return fmt.Errorf("error upserting state: %w", err)
	}
	return nil
}

// UpsertDistrict inserts or renames a district
func (r *ReferenceRepository) UpsertDistrict(ctx context.Context, d *models.District) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO districts (id, name, state_id) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, state_id = EXCLUDED.state_id`,
		d.ID, d.Name, d.StateID)
	if err != nil {
		return fmt.Errorf("error upserting district: %w", err)
	}
	return nil
}
