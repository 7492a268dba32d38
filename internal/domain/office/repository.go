package office

import "context"

// Repository defines data access methods for office geofences.
type Repository interface {
	// GetActive retrieves the active geofence; returns ErrNotConfigured when none
	GetActive(ctx context.Context) (Location, error)

	// GetByCoordinates retrieves a geofence matching lat/lon exactly, nil when none
	GetByCoordinates(ctx context.Context, lat, lon float64) (*Location, error)

	// Create creates a new geofence row
	Create(ctx context.Context, loc Location) (Location, error)

	// Update persists changes to an existing geofence
	Update(ctx context.Context, loc Location) error

	// DeactivateAll clears the active flag on every geofence
	DeactivateAll(ctx context.Context) error
}
