package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"devlink/internal/config"
	"devlink/internal/utils/crypto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockUsersRepo is a mock implementation of UsersRepo
type MockUsersRepo struct {
	mock.Mock
}

func (m *MockUsersRepo) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsersRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUsersRepo) FindByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func testConfig() config.Config {
	return config.Config{
		BcryptCost:       12,
		JWTSecret:        "super-secret-jwt-key-at-least-32-chars",
		JWTAlgorithm:     "HS256",
		JWTExpiryMinutes: 360,
	}
}

func TestService_Register(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name    string
		req     RegisterRequest
		setup   func(*MockUsersRepo)
		wantErr error
	}{
		{
			name: "successful registration",
			req: RegisterRequest{
				Name:     "Alice",
				Email:    "a@x.com",
				Password: "secret1",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("not found"))
				repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)
			},
		},
		{
			name: "duplicate email",
			req: RegisterRequest{
				Name:     "Alice",
				Email:    "a@x.com",
				Password: "secret1",
			},
			setup: func(repo *MockUsersRepo) {
				existing := &User{ID: bson.NewObjectID(), Email: "a@x.com"}
				repo.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)
			},
			wantErr: ErrDuplicate,
		},
		{
			name: "repository duplicate race",
			req: RegisterRequest{
				Name:     "Alice",
				Email:    "a@x.com",
				Password: "secret1",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("not found"))
				repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(ErrDuplicate)
			},
			wantErr: ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUsersRepo{}
			tt.setup(repo)

			svc := NewService(repo, cfg, silentLogger)
			resp, err := svc.Register(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.NotEmpty(t, resp.Token)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Register_HashesPassword(t *testing.T) {
	repo := &MockUsersRepo{}
	var created *User
	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("not found"))
	repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*User)
		}).Return(nil)

	svc := NewService(repo, testConfig(), silentLogger)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEqual(t, "secret1", created.PasswordHash)
	assert.NoError(t, crypto.CheckPassword("secret1", created.PasswordHash))
	assert.Contains(t, created.Avatar, "gravatar.com/avatar")
}

func TestService_Login(t *testing.T) {
	cfg := testConfig()
	hash, err := crypto.HashPassword("secret1", cfg.BcryptCost)
	require.NoError(t, err)

	user := &User{
		ID:           bson.NewObjectID(),
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name    string
		req     LoginRequest
		setup   func(*MockUsersRepo)
		wantErr error
	}{
		{
			name: "successful login",
			req:  LoginRequest{Email: "a@x.com", Password: "secret1"},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
			},
		},
		{
			name: "unknown email",
			req:  LoginRequest{Email: "nobody@x.com", Password: "secret1"},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, errors.New("not found"))
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			req:  LoginRequest{Email: "a@x.com", Password: "wrong-pass1"},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUsersRepo{}
			tt.setup(repo)

			svc := NewService(repo, cfg, silentLogger)
			resp, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, resp.Token)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Login_TokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	hash, err := crypto.HashPassword("secret1", cfg.BcryptCost)
	require.NoError(t, err)

	user := &User{
		ID:           bson.NewObjectID(),
		Email:        "a@x.com",
		PasswordHash: hash,
	}

	repo := &MockUsersRepo{}
	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)

	svc := NewService(repo, cfg, silentLogger)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	// The issued token must verify and resolve back to the same user id.
	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.Hex(), claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
}

func TestService_CurrentUser(t *testing.T) {
	userID := bson.NewObjectID()
	user := &User{ID: userID, Name: "Alice", Email: "a@x.com"}

	repo := &MockUsersRepo{}
	repo.On("FindByID", mock.Anything, userID).Return(user, nil)

	svc := NewService(repo, testConfig(), silentLogger)
	got, err := svc.CurrentUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	missing := bson.NewObjectID()
	repo.On("FindByID", mock.Anything, missing).Return(nil, errors.New("no documents"))
	_, err = svc.CurrentUser(context.Background(), missing)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
