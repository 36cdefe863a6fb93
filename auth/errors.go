package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when no user matches an email and password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingField is returned when a registration field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrDuplicateEmail is returned when registering an email that is already used.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrNotSignedIn is returned when an operation requires a session.
	ErrNotSignedIn = errors.New("not signed in")
)
