package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestMap(ttl time.Duration, max int) (*TTLMap[string], *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := NewTTLMap[string](ttl, max)
	m.now = clock.now
	return m, clock
}

func TestTTLMap_Expiry(t *testing.T) {
	m, clock := newTestMap(time.Minute, 0)
	m.Set("k", "v")

	v, ok := m.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	clock.t = clock.t.Add(2 * time.Minute)
	_, ok = m.Get("k")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestTTLMap_DeleteAndClear(t *testing.T) {
	m, _ := newTestMap(time.Minute, 0)
	m.Set("a", "1")
	m.Set("b", "2")

	m.Delete("a")
	_, ok := m.Get("a")
	assert.False(t, ok)

	m.Clear()
	_, ok = m.Get("b")
	assert.False(t, ok)
}

func TestTTLMap_EvictsClosestToExpiryWhenFull(t *testing.T) {
	m, clock := newTestMap(time.Minute, 2)
	m.Set("first", "1")
	clock.t = clock.t.Add(time.Second)
	m.Set("second", "2")
	clock.t = clock.t.Add(time.Second)
	m.Set("third", "3")

	assert.Equal(t, 2, m.Len())
	_, ok := m.Get("first")
	assert.False(t, ok)
	_, ok = m.Get("third")
	assert.True(t, ok)
}

func TestTTLMap_SweepsExpiredBeforeEvicting(t *testing.T) {
	m, clock := newTestMap(time.Minute, 2)
	m.Set("stale", "1")
	clock.t = clock.t.Add(50 * time.Second)
	m.Set("fresh", "2")
	clock.t = clock.t.Add(20 * time.Second)
	m.Set("new", "3")

	assert.Equal(t, 2, m.Len())
	_, ok := m.Get("fresh")
	assert.True(t, ok)
	_, ok = m.Get("new")
	assert.True(t, ok)
}

func TestTTLMap_OverwriteDoesNotEvict(t *testing.T) {
	m, _ := newTestMap(time.Minute, 1)
	m.Set("k", "1")
	m.Set("k", "2")

	v, ok := m.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}
