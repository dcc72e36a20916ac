package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDuration(t *testing.T) {
	t.Run("Unset Falls Back To The Default", func(t *testing.T) {
		assert.Equal(t, 10*time.Second, GetEnvDuration("ENV_TEST_TIMEOUT_UNSET", 10*time.Second))
	})

	t.Run("Go Duration Syntax Is Honored", func(t *testing.T) {
		t.Setenv("ENV_TEST_TIMEOUT", "1m30s")
		assert.Equal(t, 90*time.Second, GetEnvDuration("ENV_TEST_TIMEOUT", 10*time.Second))
	})

	t.Run("Bare Integers Are Read As Seconds", func(t *testing.T) {
		t.Setenv("ENV_TEST_TIMEOUT", "25")
		assert.Equal(t, 25*time.Second, GetEnvDuration("ENV_TEST_TIMEOUT", 10*time.Second))
	})

	t.Run("Garbage Falls Back To The Default", func(t *testing.T) {
		t.Setenv("ENV_TEST_TIMEOUT", "soon")
		assert.Equal(t, 10*time.Second, GetEnvDuration("ENV_TEST_TIMEOUT", 10*time.Second))
	})
}
