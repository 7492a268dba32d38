package office

import "github.com/attendly/attendance-backend-go/internal/pkg/validator"

type LocationResponse struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	AllowedRadiusInMeters float64 `json:"allowed_radius_in_meters"`
	IsActive              bool    `json:"is_active"`
}

func ToResponse(loc Location) LocationResponse {
	return LocationResponse{
		ID:                    loc.ID,
		Name:                  loc.Name,
		Latitude:              loc.Latitude,
		Longitude:             loc.Longitude,
		AllowedRadiusInMeters: loc.AllowedRadiusInMeters,
		IsActive:              loc.IsActive,
	}
}

type SetLocationRequest struct {
	Name                  *string `json:"name,omitempty"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	AllowedRadiusInMeters float64 `json:"allowed_radius_in_meters"`
}

func (r *SetLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	if r.AllowedRadiusInMeters <= 0 {
		errs = append(errs, validator.ValidationError{Field: "allowed_radius_in_meters", Message: "allowed radius must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
