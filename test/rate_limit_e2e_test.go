//go:build e2e

package test

import (
	"fmt"
	"net/http"
	"testing"
)

const (
	testEmail    = "ratelimit@example.com"
	testPassword = "Passw0rd123"
	maxPerMinute = 3 // small quota so we hit 429 quickly
)

func TestRateLimitE2E(t *testing.T) {
	extraEnv := map[string]string{
		"SIGNIN_RATE_PER_MIN": fmt.Sprint(maxPerMinute),
	}

	env1 := SetupTestEnvironmentWithEnv(t, extraEnv)

	t.Run("setup_user", func(t *testing.T) {
		register(t, env1.BaseURL, "Rate Limit", testEmail, testPassword)
	})

	t.Run("rate_limit_login", func(t *testing.T) {
		// registration already consumed one slot on the shared limiter
		for i := 0; i < maxPerMinute-1; i++ {
			loginExpect(t, env1.BaseURL, testEmail, testPassword, http.StatusOK)
		}
		loginExpect(t, env1.BaseURL, testEmail, testPassword, http.StatusTooManyRequests)
	})

	t.Run("rate_limit_reset", func(t *testing.T) {
		env2 := SetupTestEnvironmentWithEnv(t, extraEnv)

		// Use a different email for the second environment to avoid conflicts
		resetTestEmail := "ratelimit-reset@example.com"
		register(t, env2.BaseURL, "Rate Limit Reset", resetTestEmail, testPassword)
		loginExpect(t, env2.BaseURL, resetTestEmail, testPassword, http.StatusOK)
	})
}
