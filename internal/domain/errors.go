package domain

import "errors"

// Business-rule failures surfaced to callers. Handlers map these onto
// HTTP status codes; anything else is treated as a server error.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrSameStatus         = errors.New("shipment already in requested status")
	ErrIllegalTransition  = errors.New("status transition not allowed")
	ErrTransitionConflict = errors.New("shipment was modified concurrently")
	ErrDuplicateShipping  = errors.New("shipping id already exists")
	ErrAlreadyViewed      = errors.New("notification already viewed")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)
