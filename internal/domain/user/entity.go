package user

import "time"

type User struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PasswordHash       *string
	Domain             *string
	Address            *string
	ProfilePicturePath *string
	IsAdmin            bool
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// FullName returns the display name used in responses.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasPassword reports whether the account has completed signup. Accounts
// created by an admin start without a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
