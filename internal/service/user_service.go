package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rapamazonia/assetregistry/internal/auth"
	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/storage"
)

// UserService handles user administration. Only admins reach these
// operations; the routes enforce the role.
type UserService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// CreateUserRequest carries the user-creation form fields.
type CreateUserRequest struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	CommitteeID *int64 `json:"committee_id,omitempty"`
}

// Create registers a new account.
//
// Rules (validated before any mutation):
//   - name, username and password are required,
//   - the role must be ADMIN or OPERATOR,
//   - an OPERATOR must have a committee,
//   - an ADMIN never keeps one (admins see every committee),
//   - the username must be unique.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if name == "" || username == "" || password == "" {
		return nil, ErrMissingFields
	}

	role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	var committeeID *int64
	if role == models.RoleOperator {
		if req.CommitteeID == nil {
			return nil, ErrCommitteeRequired
		}
		if _, err := s.store.GetCommittee(ctx, *req.CommitteeID); err != nil {
			return nil, err
		}
		committeeID = req.CommitteeID
	}

	if len(password) < 8 {
		return nil, auth.ErrWeakPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CommitteeID:  committeeID,
		Active:       true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		s.logger.Error("user creation failed", "username", username, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "username", username, "role", role)
	return user, nil
}

// List returns every account with its committee name.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// Delete removes an account. The acting caller's own account and any
// ADMIN account are rejected before any mutation.
func (s *UserService) Delete(ctx context.Context, caller *models.User, id int64) error {
	if id == caller.ID {
		return ErrSelfDelete
	}

	target, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if target.Role == models.RoleAdmin {
		return ErrAdminDelete
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		s.logger.Error("user deletion failed", "user_id", id, "error", err)
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", caller.ID)
	return nil
}

// SetActive flips an account's activation flag.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.store.SetUserActive(ctx, id, active); err != nil {
		s.logger.Error("user activation update failed", "user_id", id, "error", err)
		return err
	}
	s.logger.Info("user activation updated", "user_id", id, "active", active)
	return nil
}
