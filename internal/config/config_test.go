package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

// baseValidConfig returns a fully-valid configuration object that callers
// can tweak inside table tests.
func baseValidConfig() Config {
	return Config{
		AppPort:          8080,
		BcryptCost:       12,
		SignInRatePerMin: 5,
		LogLevel:         "info",
		LogFormat:        "json",
		MongoURI:         "mongodb://localhost:27017",
		MongoDBName:      "test",
		JWTSecret:        "this-is-a-super-secret-jwt-key-with-32-plus-chars",
		JWTAlgorithm:     "HS256",
		JWTExpiryMinutes: 360,
		GitHubAPIBase:    "https://api.github.com",
		WSMaxSessionSec:  900,
		WSOutboxBuffer:   256,
	}
}

// clearConfigEnvVars removes every environment variable that the Config loader
// consumes so each test starts with a clean slate.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		"APP_PORT",
		"BCRYPT_COST",
		"SIGNIN_RATE_PER_MIN",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"MONGO_URI",
		"MONGO_DB_NAME",
		"JWT_SECRET",
		"JWT_ALGORITHM",
		"JWT_EXPIRY_MINUTES",
		"GITHUB_API_BASE",
		"WS_MAX_SESSION_SEC",
		"WS_OUTBOX_BUFFER",
		"ROUTE_METRICS_ENABLED",
		"REQUEST_LOGGING_ENABLED",
		"PYROSCOPE_ADDRESS",
	} {
		if err := os.Unsetenv(k); err != nil {
			t.Logf("warning: failed to unset %s: %v", k, err)
		}
	}
}

// -----------------------------------------------------------------------------
// Load
// -----------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "devlink", cfg.MongoDBName)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 360, cfg.JWTExpiryMinutes)
	assert.Equal(t, "https://api.github.com", cfg.GitHubAPIBase)
	assert.True(t, cfg.RouteMetricsEnabled)
	assert.Empty(t, cfg.PyroscopeAddress)
}

func TestLoad_EnvOverride(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MONGO_DB_NAME", "devlink_test")
	t.Setenv("JWT_EXPIRY_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.AppPort)
	assert.Equal(t, "devlink_test", cfg.MongoDBName)
	assert.Equal(t, 15, cfg.JWTExpiryMinutes)

	ResetCache()
}

func TestLoad_Caching(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()

	first, err := Load()
	require.NoError(t, err)

	// Changing the environment after the first Load must not alter the
	// cached configuration.
	t.Setenv("APP_PORT", "12345")

	second, err := Load()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	ResetCache()
}

// -----------------------------------------------------------------------------
// Validate
// -----------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.AppPort = 0 },
			wantErr: "APP_PORT",
		},
		{
			name:    "bcrypt cost too low",
			mutate:  func(c *Config) { c.BcryptCost = 4 },
			wantErr: "BCRYPT_COST",
		},
		{
			name:    "bcrypt cost too high",
			mutate:  func(c *Config) { c.BcryptCost = 20 },
			wantErr: "BCRYPT_COST",
		},
		{
			name:    "missing mongo uri",
			mutate:  func(c *Config) { c.MongoURI = "" },
			wantErr: "MONGO_URI",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "too-short" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "unsupported jwt algorithm",
			mutate:  func(c *Config) { c.JWTAlgorithm = "none" },
			wantErr: "JWT_ALGORITHM",
		},
		{
			name:    "non-positive token expiry",
			mutate:  func(c *Config) { c.JWTExpiryMinutes = 0 },
			wantErr: "JWT_EXPIRY_MINUTES",
		},
		{
			name:    "empty github api base",
			mutate:  func(c *Config) { c.GitHubAPIBase = "" },
			wantErr: "GITHUB_API_BASE",
		},
		{
			name:    "zero outbox buffer",
			mutate:  func(c *Config) { c.WSOutboxBuffer = 0 },
			wantErr: "WS_OUTBOX_BUFFER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseValidConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
