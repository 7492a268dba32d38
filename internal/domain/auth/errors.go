package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or missing token")
	ErrPasswordMismatch   = errors.New("password and confirm password do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrAccountNotSetUp    = errors.New("account has no password set; complete signup first")
)
