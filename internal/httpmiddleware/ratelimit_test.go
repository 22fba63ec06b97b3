package httpmiddleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustsAndRefills(t *testing.T) {
	l := NewTokenBucket(2, 60) // 2 tokens, refill 60/min = 1/s
	now := time.Now()

	assert.True(t, l.allow("1.2.3.4", now))
	assert.True(t, l.allow("1.2.3.4", now))
	assert.False(t, l.allow("1.2.3.4", now))

	// One second later a token has been refilled.
	assert.True(t, l.allow("1.2.3.4", now.Add(time.Second)))
}

func TestTokenBucketPerClient(t *testing.T) {
	l := NewTokenBucket(1, 60)
	now := time.Now()

	assert.True(t, l.allow("1.1.1.1", now))
	assert.False(t, l.allow("1.1.1.1", now))
	assert.True(t, l.allow("2.2.2.2", now))
}

func TestTokenBucketCapacityFallback(t *testing.T) {
	l := NewTokenBucket(0, 5)
	assert.Equal(t, 5, l.capacity)
}
