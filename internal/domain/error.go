package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrDeliveryFailed     = errors.New("email delivery failed")

	// Confirmation token errors. A malformed token and a well-formed token
	// that resolves to nothing are distinct conditions and map to distinct
	// HTTP codes at the boundary.
	ErrTokenMalformed = errors.New("confirmation token is malformed")
	ErrTokenUnknown   = errors.New("confirmation token does not match any subscriber")
)
