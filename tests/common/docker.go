// Package common provides shared test infrastructure
package common

import (
	"os"
	"testing"
)

// RequireDocker skips the test unless container tests are enabled with
// ARGOS_TEST_DOCKER=true.
func RequireDocker(t *testing.T) {
	t.Helper()
	if os.Getenv("ARGOS_TEST_DOCKER") != "true" {
		t.Skip("container tests disabled; set ARGOS_TEST_DOCKER=true")
	}
}
