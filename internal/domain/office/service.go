package office

import "context"

// ReconcileConfig is the geofence definition supplied by configuration.
type ReconcileConfig struct {
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Registry manages the single active office geofence.
type Registry interface {
	// GetActive returns the active geofence; ErrNotConfigured when none
	GetActive(ctx context.Context) (Location, error)

	// Reconcile makes configuration the source of truth: creates the
	// geofence on first run, updates it in place (same identity) when the
	// configured coordinates or radius drift beyond tolerance
	Reconcile(ctx context.Context, cfg ReconcileConfig) (Location, error)

	// SetActive is the admin path: deactivates every other geofence and
	// activates the given one, reusing an existing row with matching
	// coordinates or creating a new one
	SetActive(ctx context.Context, req SetLocationRequest) (Location, error)

	// WithinRange reports whether the point is inside the active geofence,
	// along with the computed distance in meters
	WithinRange(ctx context.Context, lat, lon float64) (bool, float64, error)
}
