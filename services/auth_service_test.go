package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/auth"
	"github.com/worldpop/worldpop-api/models"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FetchSlice(ctx context.Context, offset, limit int) ([]models.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func storedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:           1,
		Username:     "alice",
		PasswordHash: hash,
		Email:        "alice@example.com",
		FullName:     "Alice Example",
		Role:         models.RoleUser,
		Enabled:      true,
	}
}

func newTestAuthService(repo *MockUserRepository) (*AuthService, *auth.TokenCodec) {
	codec := auth.NewTokenCodec([]byte("test-secret"), 24*time.Hour)
	return NewAuthService(repo, codec, zap.NewNop()), codec
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield a decodable token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, codec := newTestAuthService(repo)
		user := storedUser(t, "password123")

		repo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		resp, err := svc.Authenticate(ctx, "alice", "password123")
		require.NoError(t, err)

		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "alice@example.com", resp.Email)
		assert.Equal(t, models.RoleUser, resp.Role)

		claims, err := codec.Decode(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, models.RoleUser, claims.Role)
		assert.Equal(t, claims.IssuedAt.Add(24*time.Hour), claims.ExpiresAt.Time)
	})

	t.Run("unknown username fails like a wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("GetByUsername", mock.Anything, "nobody").Return(nil, nil)

		_, errUnknown := svc.Authenticate(ctx, "nobody", "whatever")
		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)

		repo.On("GetByUsername", mock.Anything, "alice").Return(storedUser(t, "password123"), nil)

		_, errWrong := svc.Authenticate(ctx, "alice", "not-the-password")
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)

		// Identical failure either way: no identity enumeration.
		assert.Equal(t, errUnknown, errWrong)
	})

	t.Run("disabled account is rejected after password check", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		user := storedUser(t, "password123")
		user.Enabled = false

		repo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		_, err := svc.Authenticate(ctx, "alice", "password123")
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})

	t.Run("store failure surfaces as internal", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("GetByUsername", mock.Anything, "alice").Return(nil, assert.AnError)

		_, err := svc.Authenticate(ctx, "alice", "password123")
		domainErr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrorTypeInternal, domainErr.Type)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	validRequest := func() models.RegisterRequest {
		return models.RegisterRequest{
			Username: "bob",
			Password: "password123",
			Email:    "bob@example.com",
			FullName: "Bob Example",
		}
	}

	t.Run("creates user with hashed password and defaults", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("GetByUsername", mock.Anything, "bob").Return(nil, nil)
		repo.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "bob" &&
				u.Role == models.RoleUser &&
				u.Enabled &&
				u.PasswordHash != "password123" &&
				auth.CheckPassword(u.PasswordHash, "password123")
		})).Return(nil)

		user, err := svc.Register(ctx, validRequest())
		require.NoError(t, err)

		assert.Equal(t, models.RoleUser, user.Role)
		assert.True(t, user.Enabled)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate username fails without a store mutation", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("GetByUsername", mock.Anything, "bob").Return(storedUser(t, "x"), nil)

		_, err := svc.Register(ctx, validRequest())
		assert.ErrorIs(t, err, ErrDuplicateUsername)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("duplicate email fails without a store mutation", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("GetByUsername", mock.Anything, "bob").Return(nil, nil)
		repo.On("GetByEmail", mock.Anything, "bob@example.com").Return(storedUser(t, "x"), nil)

		_, err := svc.Register(ctx, validRequest())
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("explicit admin role is honored", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		req := validRequest()
		req.Role = models.RoleAdmin

		repo.On("GetByUsername", mock.Anything, "bob").Return(nil, nil)
		repo.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		user, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("unknown role is rejected at the boundary", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		req := validRequest()
		req.Role = models.Role("SUPERUSER")

		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidRole)
		repo.AssertNotCalled(t, "GetByUsername")
	})
}
