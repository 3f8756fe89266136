package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"devlink/cmd/server/ctxkeys"
	"devlink/cmd/server/testutil"
	"devlink/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	registerEndpoint = "/api/users"
	loginEndpoint    = "/api/auth"
	currentEndpoint  = "/api/auth"
	rateLimitIP      = "192.168.1.1"
	testName         = "Alice"
	testEmail        = "test@example.com"
	testPassword     = "Password123"
)

// MockAuthService mocks the auth service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenResponse), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID bson.ObjectID) (*auth.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

// AuthTestSetup contains common test setup data
type AuthTestSetup struct {
	MockService *MockAuthService
	App         *fiber.App
	TestUser    *auth.User
	TestToken   string
}

// SetupAuthTest creates a common auth test setup
func SetupAuthTest(t *testing.T) *AuthTestSetup {
	t.Helper()

	mockService := &MockAuthService{}
	app := testutil.CreateTestApp(t)
	validator := testutil.CreateTestValidator(t)

	h := NewHandlers(mockService, validator)

	api := app.Group("/api")

	// Add rate limiter for login (for testing)
	rateLimiter := testutil.CreateRateLimiter(2, 1*time.Minute)

	api.Post("/users", h.Register)
	api.Post("/auth", rateLimiter, h.Login)

	now := time.Now().UTC()
	testUser := &auth.User{
		ID:        bson.NewObjectID(),
		Name:      testName,
		Email:     testEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return &AuthTestSetup{
		MockService: mockService,
		App:         app,
		TestUser:    testUser,
		TestToken:   "mock-jwt-token",
	}
}

// SetupAuthTestWithJWT creates auth test setup with JWT middleware
func SetupAuthTestWithJWT(t *testing.T) *AuthTestSetup {
	t.Helper()

	mockService := &MockAuthService{}
	app := testutil.CreateTestApp(t)
	validator := testutil.CreateTestValidator(t)

	h := NewHandlers(mockService, validator)

	api := app.Group("/api")

	api.Post("/users", h.Register)

	// JWT middleware and protected route for testing
	jwtSecret := "test-secret-with-32-plus-characters"
	jwtMW := testutil.SetupJWTMiddleware(jwtSecret)

	api.Get("/auth", jwtMW, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"uid":   c.Locals(ctxkeys.UserIDKey),
			"email": c.Locals(ctxkeys.UserEmailKey),
		})
	})

	now := time.Now().UTC()
	testUser := &auth.User{
		ID:        bson.NewObjectID(),
		Name:      testName,
		Email:     testEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return &AuthTestSetup{
		MockService: mockService,
		App:         app,
		TestUser:    testUser,
		TestToken:   "mock-jwt-token",
	}
}

func TestAuthHandlersTableDriven(t *testing.T) {
	testCases := []struct {
		name           string
		endpoint       string
		method         string
		body           map[string]string
		setupMock      func(*MockAuthService, *auth.User, string)
		expectedStatus int
	}{
		{
			name:     "Register_Success",
			endpoint: registerEndpoint,
			method:   "POST",
			body: map[string]string{
				"name":     testName,
				"email":    testEmail,
				"password": testPassword,
			},
			setupMock: func(m *MockAuthService, user *auth.User, token string) {
				expected := &auth.TokenResponse{Token: token}
				m.On("Register", mock.Anything, auth.RegisterRequest{
					Name:     testName,
					Email:    testEmail,
					Password: testPassword,
				}).Return(expected, nil).Once()
			},
			expectedStatus: 200,
		},
		{
			name:     "Register_DuplicateEmail",
			endpoint: registerEndpoint,
			method:   "POST",
			body: map[string]string{
				"name":     testName,
				"email":    testEmail,
				"password": testPassword,
			},
			setupMock: func(m *MockAuthService, user *auth.User, token string) {
				m.On("Register", mock.Anything, auth.RegisterRequest{
					Name:     testName,
					Email:    testEmail,
					Password: testPassword,
				}).Return(nil, auth.ErrDuplicate).Once()
			},
			expectedStatus: 409,
		},
		{
			name:     "Register_MissingName",
			endpoint: registerEndpoint,
			method:   "POST",
			body: map[string]string{
				"email":    testEmail,
				"password": testPassword,
			},
			setupMock:      func(m *MockAuthService, user *auth.User, token string) {},
			expectedStatus: 400,
		},
		{
			name:     "Login_Success",
			endpoint: loginEndpoint,
			method:   "POST",
			body: map[string]string{
				"email":    testEmail,
				"password": testPassword,
			},
			setupMock: func(m *MockAuthService, user *auth.User, token string) {
				expected := &auth.TokenResponse{Token: token}
				m.On("Login", mock.Anything, auth.LoginRequest{
					Email:    testEmail,
					Password: testPassword,
				}).Return(expected, nil).Once()
			},
			expectedStatus: 200,
		},
		{
			name:     "Login_BadCredentials",
			endpoint: loginEndpoint,
			method:   "POST",
			body: map[string]string{
				"email":    testEmail,
				"password": testPassword,
			},
			setupMock: func(m *MockAuthService, user *auth.User, token string) {
				m.On("Login", mock.Anything, auth.LoginRequest{
					Email:    testEmail,
					Password: testPassword,
				}).Return(nil, auth.ErrInvalidCredentials).Once()
			},
			expectedStatus: 404,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setup := SetupAuthTest(t)
			tc.setupMock(setup.MockService, setup.TestUser, setup.TestToken)

			req := testutil.CreateJSONRequest(tc.method, tc.endpoint, tc.body)
			resp, err := setup.App.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			if tc.expectedStatus < 400 {
				var got auth.TokenResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
				assert.Equal(t, setup.TestToken, got.Token)
			}

			setup.MockService.AssertExpectations(t)
		})
	}
}

func TestJWTMiddlewareHappyPath(t *testing.T) {
	setup := SetupAuthTestWithJWT(t)

	jwtSecret := "test-secret-with-32-plus-characters"
	userID := "60d5ecb74b24c4f9b8c2b1a1"
	email := "test@example.com"

	token, err := testutil.CreateTestJWT(userID, email, []byte(jwtSecret), time.Hour)
	require.NoError(t, err)

	req := testutil.CreateAuthenticatedRequest("GET", currentEndpoint, nil, token)
	resp, err := setup.App.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, userID, got["uid"])
	assert.Equal(t, email, got["email"])

	setup.MockService.AssertExpectations(t)
}

func makeTestRequestForRateLimit(setup *AuthTestSetup, body map[string]string) (resp *http.Response, err error) {
	req := testutil.CreateJSONRequest("POST", loginEndpoint, body)
	req.Header.Set("X-Forwarded-For", rateLimitIP) // fixed IP for rate limiter
	resp, err = setup.App.Test(req, -1)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func TestLoginRateLimit(t *testing.T) {
	setup := SetupAuthTest(t)

	expected := &auth.TokenResponse{Token: setup.TestToken}
	setup.MockService.On("Login", mock.Anything, auth.LoginRequest{
		Email:    testEmail,
		Password: testPassword,
	}).Return(expected, nil).Times(2)

	body := map[string]string{
		"email":    testEmail,
		"password": testPassword,
	}

	// First request should succeed
	resp1, err := makeTestRequestForRateLimit(setup, body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp1.StatusCode)

	// Second request should succeed
	resp2, err := makeTestRequestForRateLimit(setup, body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp2.StatusCode)

	// Third request should be rate limited
	resp3, err := makeTestRequestForRateLimit(setup, body)
	require.NoError(t, err)
	assert.Equal(t, 429, resp3.StatusCode)

	setup.MockService.AssertExpectations(t)
}
