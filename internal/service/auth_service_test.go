package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
)

// mockUserRepository is a testify mock of repository.UserRepository.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

const testSecret = "test-secret"

func TestRegisterSuccess(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewAuthService(repo, testSecret, time.Hour)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "alex@example.com").Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return("user-1", nil)

	user, err := svc.Register(ctx, "Alex", "alex@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")
	repo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewAuthService(repo, testSecret, time.Hour)
	ctx := context.Background()

	existing := &domain.User{ID: "user-1", Email: "alex@example.com"}
	repo.On("GetByEmail", ctx, "alex@example.com").Return(existing, nil)

	_, err := svc.Register(ctx, "Alex", "alex@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterEmptyFields(t *testing.T) {
	svc := NewAuthService(new(mockUserRepository), testSecret, time.Hour)
	_, err := svc.Register(context.Background(), "", "alex@example.com", "password123")
	assert.Error(t, err)
}

func TestLoginSuccess(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewAuthService(repo, testSecret, time.Hour)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: "user-1", Email: "alex@example.com", PasswordHash: string(hash)}
	repo.On("GetByEmail", ctx, "alex@example.com").Return(stored, nil)

	token, user, err := svc.Login(ctx, "alex@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewAuthService(repo, testSecret, time.Hour)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: "user-1", Email: "alex@example.com", PasswordHash: string(hash)}
	repo.On("GetByEmail", ctx, "alex@example.com").Return(stored, nil)

	_, user, err := svc.Login(ctx, "alex@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, user)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewAuthService(repo, testSecret, time.Hour)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)

	_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestGuestIssuesToken(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewAuthService(repo, testSecret, time.Hour)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return("guest-1", nil)

	token, user, err := svc.Guest(ctx)
	require.NoError(t, err)
	assert.True(t, user.Guest)
	assert.Equal(t, "Agente", user.Name)
	assert.Equal(t, "guest-1", user.ID)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "guest-1", claims.UserID)
	assert.True(t, claims.Guest)
	assert.Equal(t, "titan-os", claims.Issuer)
}

func TestNewAuthServicePanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() {
		NewAuthService(new(mockUserRepository), "", time.Hour)
	})
}
