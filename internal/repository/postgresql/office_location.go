package postgresql

import (
	"context"
	"errors"

	"github.com/attendly/attendance-backend-go/internal/domain/office"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type officeLocationRepositoryImpl struct {
	db *database.DB
}

func NewOfficeLocationRepository(db *database.DB) office.Repository {
	return &officeLocationRepositoryImpl{db: db}
}

// GetActive implements office.Repository.
func (r *officeLocationRepositoryImpl) GetActive(ctx context.Context) (office.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, allowed_radius_in_meters, is_active,
			   created_at, updated_at
		FROM office_locations
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var loc office.Location
	err := q.QueryRow(ctx, query).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Latitude,
		&loc.Longitude,
		&loc.AllowedRadiusInMeters,
		&loc.IsActive,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Location{}, office.ErrNotConfigured
		}
		return office.Location{}, err
	}

	return loc, nil
}

// GetByCoordinates implements office.Repository.
func (r *officeLocationRepositoryImpl) GetByCoordinates(ctx context.Context, lat, lon float64) (*office.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, allowed_radius_in_meters, is_active,
			   created_at, updated_at
		FROM office_locations
		WHERE latitude = $1 AND longitude = $2
		LIMIT 1
	`

	var loc office.Location
	err := q.QueryRow(ctx, query, lat, lon).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Latitude,
		&loc.Longitude,
		&loc.AllowedRadiusInMeters,
		&loc.IsActive,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &loc, nil
}

// Create implements office.Repository.
func (r *officeLocationRepositoryImpl) Create(ctx context.Context, newLoc office.Location) (office.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO office_locations (name, latitude, longitude, allowed_radius_in_meters, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, latitude, longitude, allowed_radius_in_meters, is_active,
				  created_at, updated_at
	`

	var created office.Location
	err := q.QueryRow(ctx, query,
		newLoc.Name,
		newLoc.Latitude,
		newLoc.Longitude,
		newLoc.AllowedRadiusInMeters,
		newLoc.IsActive,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Latitude,
		&created.Longitude,
		&created.AllowedRadiusInMeters,
		&created.IsActive,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return office.Location{}, err
	}

	return created, nil
}

// Update implements office.Repository.
func (r *officeLocationRepositoryImpl) Update(ctx context.Context, loc office.Location) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE office_locations
		SET name = $1, latitude = $2, longitude = $3, allowed_radius_in_meters = $4,
			is_active = $5, updated_at = NOW()
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query,
		loc.Name,
		loc.Latitude,
		loc.Longitude,
		loc.AllowedRadiusInMeters,
		loc.IsActive,
		loc.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return office.ErrNotConfigured
	}

	return nil
}

// DeactivateAll implements office.Repository.
func (r *officeLocationRepositoryImpl) DeactivateAll(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE office_locations SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE`)
	return err
}
