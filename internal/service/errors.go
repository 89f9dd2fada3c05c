package service

import "errors"

var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateUser is returned when registering a username that already exists.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken is returned when a protected call carries no bearer token.
	ErrMissingToken = errors.New("no token provided")
	// ErrInvalidToken covers bad signatures, malformed tokens and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidID indicates a product identifier that is not a UUID.
	ErrInvalidID = errors.New("invalid product id format")
	// ErrNotFound indicates the product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrSnapshotsDisabled is returned when no snapshot storage is configured.
	ErrSnapshotsDisabled = errors.New("catalog snapshots are not configured")
)
