package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowsBurstThenThrottles(t *testing.T) {
	lim := NewPerUser(10, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, lim.Allow("user-1"), "burst request %d should pass", i)
	}
	assert.False(t, lim.Allow("user-1"))
}

func TestKeysAreIndependent(t *testing.T) {
	lim := NewPerUser(10, 1)

	assert.True(t, lim.Allow("user-1"))
	assert.False(t, lim.Allow("user-1"))
	assert.True(t, lim.Allow("user-2"))
}

func TestDefaultsAppliedForInvalidConfig(t *testing.T) {
	lim := NewPerUser(0, 0)
	assert.True(t, lim.Allow("user-1"))
	assert.False(t, lim.Allow("user-1"))
}
