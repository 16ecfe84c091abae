package auth

import (
	"context"

	"github.com/rapamazonia/assetregistry/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// (password, SSO, etc.) without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the credentials and returns the user if valid
	// and active.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements (length, format, ...).
	ValidateCredential(credential string) error
}
