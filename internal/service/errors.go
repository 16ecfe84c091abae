package service

import "errors"

// Validation errors surfaced to users. The HTTP layer maps these to 4xx
// responses; anything else is a 500.
var (
	ErrMissingFields     = errors.New("name, username and password are required")
	ErrInvalidRole       = errors.New("invalid role")
	ErrCommitteeRequired = errors.New("an OPERATOR must have a committee")
	ErrNameRequired      = errors.New("asset name is required")
	ErrInvalidStatus     = errors.New("invalid asset status")

	// ErrSelfDelete rejects removing the acting caller's own account.
	ErrSelfDelete = errors.New("cannot delete the account of the current session")
	// ErrAdminDelete rejects removing any ADMIN account.
	ErrAdminDelete = errors.New("cannot delete an ADMIN account")
)
