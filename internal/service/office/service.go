package office

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/attendly/attendance-backend-go/internal/domain/office"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/pkg/geo"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
)

type RegistryImpl struct {
	db         *database.DB
	officeRepo office.Repository
}

func NewRegistry(db *database.DB, officeRepo office.Repository) *RegistryImpl {
	return &RegistryImpl{db: db, officeRepo: officeRepo}
}

func (s *RegistryImpl) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

// GetActive implements office.Registry.
func (s *RegistryImpl) GetActive(ctx context.Context) (office.Location, error) {
	return s.officeRepo.GetActive(ctx)
}

// Reconcile implements office.Registry. Configuration is the source of truth:
// the first run seeds the geofence, later runs update it in place when the
// configured values drift beyond tolerance. The row keeps its identity so
// existing attendance records stay tied to the same office.
func (s *RegistryImpl) Reconcile(ctx context.Context, cfg office.ReconcileConfig) (office.Location, error) {
	active, err := s.officeRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, office.ErrNotConfigured) {
			created, err := s.officeRepo.Create(ctx, office.Location{
				Name:                  cfg.Name,
				Latitude:              cfg.Latitude,
				Longitude:             cfg.Longitude,
				AllowedRadiusInMeters: cfg.RadiusMeters,
				IsActive:              true,
			})
			if err != nil {
				return office.Location{}, fmt.Errorf("failed to create office location: %w", err)
			}
			return created, nil
		}
		return office.Location{}, err
	}

	if !driftedBeyondTolerance(active, cfg) {
		return active, nil
	}

	active.Name = cfg.Name
	active.Latitude = cfg.Latitude
	active.Longitude = cfg.Longitude
	active.AllowedRadiusInMeters = cfg.RadiusMeters

	if err := s.officeRepo.Update(ctx, active); err != nil {
		return office.Location{}, fmt.Errorf("failed to update office location: %w", err)
	}

	return active, nil
}

// driftedBeyondTolerance compares the stored geofence against configuration.
// Sub-tolerance float noise does not count as a change.
func driftedBeyondTolerance(loc office.Location, cfg office.ReconcileConfig) bool {
	return math.Abs(loc.Latitude-cfg.Latitude) > office.CoordinateTolerance ||
		math.Abs(loc.Longitude-cfg.Longitude) > office.CoordinateTolerance ||
		math.Abs(loc.AllowedRadiusInMeters-cfg.RadiusMeters) > office.RadiusTolerance ||
		loc.Name != cfg.Name
}

// SetActive implements office.Registry. Deactivating the old geofence and
// activating the new one happen in one transaction so there is never a moment
// with no active office.
func (s *RegistryImpl) SetActive(ctx context.Context, req office.SetLocationRequest) (office.Location, error) {
	if err := req.Validate(); err != nil {
		return office.Location{}, err
	}

	var result office.Location
	err := s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.officeRepo.DeactivateAll(ctx); err != nil {
			return fmt.Errorf("failed to deactivate office locations: %w", err)
		}

		name := "Office"
		if req.Name != nil && *req.Name != "" {
			name = *req.Name
		}

		// Reuse an existing row with the same coordinates instead of piling up
		// near-duplicate geofences
		existing, err := s.officeRepo.GetByCoordinates(ctx, req.Latitude, req.Longitude)
		if err != nil {
			return fmt.Errorf("failed to look up office location: %w", err)
		}

		if existing != nil {
			existing.Name = name
			existing.AllowedRadiusInMeters = req.AllowedRadiusInMeters
			existing.IsActive = true
			if err := s.officeRepo.Update(ctx, *existing); err != nil {
				return fmt.Errorf("failed to update office location: %w", err)
			}
			result = *existing
			return nil
		}

		created, err := s.officeRepo.Create(ctx, office.Location{
			Name:                  name,
			Latitude:              req.Latitude,
			Longitude:             req.Longitude,
			AllowedRadiusInMeters: req.AllowedRadiusInMeters,
			IsActive:              true,
		})
		if err != nil {
			return fmt.Errorf("failed to create office location: %w", err)
		}
		result = created
		return nil
	})
	if err != nil {
		return office.Location{}, err
	}

	return result, nil
}

// WithinRange implements office.Registry.
func (s *RegistryImpl) WithinRange(ctx context.Context, lat, lon float64) (bool, float64, error) {
	active, err := s.officeRepo.GetActive(ctx)
	if err != nil {
		return false, 0, err
	}

	distance := geo.DistanceMeters(lat, lon, active.Latitude, active.Longitude)
	return distance <= active.AllowedRadiusInMeters, distance, nil
}
