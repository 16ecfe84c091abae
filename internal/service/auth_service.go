package service

import (
	"context"
	"log/slog"

	"github.com/rapamazonia/assetregistry/internal/auth"
	"github.com/rapamazonia/assetregistry/internal/models"
)

// AuthService handles login sessions.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the session user and its bearer token.
type LoginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login authenticates a user and returns a JWT token. Unknown users, bad
// passwords and deactivated accounts all fail authentication.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	s.logger.Info("login request", "username", req.Username)

	if req.Username == "" || req.Password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Warn("login failed", "username", req.Username, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return &LoginResponse{User: *user, Token: token}, nil
}
