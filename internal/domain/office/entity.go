package office

import "time"

// Location is the office geofence. At most one row is active at any time;
// the registry service enforces this, not the store.
type Location struct {
	ID                    string
	Name                  string
	Latitude              float64
	Longitude             float64
	AllowedRadiusInMeters float64
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// Tolerances for config reconciliation: drift below these thresholds is
// treated as the same geofence and does not trigger an update.
const (
	CoordinateTolerance = 1e-6 // degrees
	RadiusTolerance     = 0.01 // meters
)
