package main

import (
	"os"
	"testing"
)

// TestMain pins the environment so a developer's .env cannot steer the tests
// to a real store or model.
func TestMain(m *testing.M) {
	for _, key := range []string{"STORE", "DATABASE_URL", "MONGO_URI", "LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "LOG_MODE", "JWT_EXPIRATION", "JWT_ISSUER"} {
		_ = os.Unsetenv(key)
	}
	_ = os.Setenv("LOG_LEVEL", "error")

	os.Exit(m.Run())
}
