// Package testutil provides shared helpers for monograph tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// MongoURIEnv names the environment variable carrying the MongoDB
// connection string for integration tests.
const MongoURIEnv = "MONOGRAPH_TEST_MONGODB_URI"

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// IntegrationTest skips the test in short mode.
func IntegrationTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// MongoURI returns the integration MongoDB URI, skipping the test when
// none is configured.
func MongoURI(t *testing.T) string {
	t.Helper()
	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		t.Skipf("Skipping: %s not set", MongoURIEnv)
	}
	return uri
}
