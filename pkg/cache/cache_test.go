package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsStoredValue(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestGetMissingKey(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestExpiredEntryIsDropped(t *testing.T) {
	c := New(time.Minute)
	c.SetWithTTL("k", "v", -time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidateRemovesEntry(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")
	c.Invalidate("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidateMissingKeyIsNoop(t *testing.T) {
	c := New(time.Minute)
	c.Invalidate("missing")
}

func TestSetOverwrites(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v1")
	c.Set("k", "v2")

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}
