package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurst(t *testing.T) {
	l := NewLimiter(0, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(), "call %d should be within burst", i)
	}
	assert.False(t, l.Allow(), "bucket should be empty")
}

func TestLimiterRefill(t *testing.T) {
	l := NewLimiter(100, 1)

	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	time.Sleep(50 * time.Millisecond)
	assert.True(t, l.Allow(), "bucket should have refilled")
}
