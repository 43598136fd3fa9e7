package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/auth"
	"github.com/worldpop/worldpop-api/models"
	"github.com/worldpop/worldpop-api/repositories"
)

// AuthService verifies credentials against the user store and issues session
// tokens. It keeps no session state: a successful login is a pure function of
// the stored user row, the clock, and the signing secret.
type AuthService struct {
	users  repositories.UserRepository
	codec  *auth.TokenCodec
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, codec *auth.TokenCodec, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		codec:  codec,
		logger: logger,
		now:    time.Now,
	}
}

// Authenticate verifies a username/password pair and mints a session token.
// Unknown username and wrong password both return ErrInvalidCredentials so a
// caller cannot enumerate accounts; a disabled account returns
// ErrAccountDisabled, which the HTTP layer collapses into the same message.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "credential lookup failed", err)
	}
	if user == nil {
		s.logger.Warn("login for unknown username", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("login with wrong password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !user.Enabled {
		s.logger.Warn("login for disabled account", zap.String("username", username))
		return nil, ErrAccountDisabled
	}

	token, err := s.codec.Encode(user.Username, user.Role, s.now())
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "token issuance failed", err)
	}

	s.logger.Debug("authentication successful",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return &models.AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}

// Register creates a new user account. The username and email must both be
// unused; the plaintext password is bcrypt-hashed and discarded. Role
// defaults to USER and enabled to true.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "username lookup failed", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	existing, err = s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "email lookup failed", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "password hashing failed", err)
	}

	now := s.now()
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "user creation failed", err)
	}

	s.logger.Info("user registered",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return user, nil
}
