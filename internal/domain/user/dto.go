package user

import (
	"mime/multipart"

	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type UserResponse struct {
	ID                 string  `json:"id"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Email              string  `json:"email"`
	Domain             *string `json:"domain,omitempty"`
	Address            *string `json:"address,omitempty"`
	ProfilePicturePath *string `json:"profile_picture_path,omitempty"`
	IsAdmin            bool    `json:"is_admin"`
}

// ToResponse maps a User entity to its response shape.
func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Email:              u.Email,
		Domain:             u.Domain,
		Address:            u.Address,
		ProfilePicturePath: u.ProfilePicturePath,
		IsAdmin:            u.IsAdmin,
	}
}

// CreateUserRequest is the admin path for provisioning accounts. Accounts
// created this way have no password until the user completes signup.
type CreateUserRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Domain    *string `json:"domain,omitempty"`
	Address   *string `json:"address,omitempty"`
	IsAdmin   *bool   `json:"is_admin,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "a valid email is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateProfileRequest struct {
	UserID     string                `json:"-"`
	FirstName  *string               `json:"first_name,omitempty"`
	LastName   *string               `json:"last_name,omitempty"`
	Email      *string               `json:"email,omitempty"`
	Domain     *string               `json:"domain,omitempty"`
	Address    *string               `json:"address,omitempty"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email format is invalid"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
