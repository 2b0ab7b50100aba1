package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitReady(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("session never mounted")
	}
}

func TestRegistry_AcquireCreatesAndMounts(t *testing.T) {
	gw := &fakeGateway{}
	r := NewRegistry(Deps{Gateway: gw}, time.Hour, 10)

	s, created := r.Acquire(context.Background(), "")
	require.True(t, created)
	require.NotEmpty(t, s.ID())
	waitReady(t, s)
	assert.True(t, s.State().IsLoaded())

	again, created := r.Acquire(context.Background(), s.ID())
	assert.False(t, created)
	assert.Same(t, s, again)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_UnknownIDGetsFreshSession(t *testing.T) {
	r := NewRegistry(Deps{Gateway: &fakeGateway{}}, time.Hour, 10)
	s, created := r.Acquire(context.Background(), "forged-id")
	assert.True(t, created)
	assert.NotEqual(t, "forged-id", s.ID())
	waitReady(t, s)
}

func TestRegistry_IdleEviction(t *testing.T) {
	r := NewRegistry(Deps{Gateway: &fakeGateway{}}, time.Minute, 10)
	s, _ := r.Acquire(context.Background(), "")
	waitReady(t, s)

	s.lastSeen.Store(time.Now().Add(-2 * time.Minute).UnixNano())

	_, ok := r.Get(s.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CapEvictsOldest(t *testing.T) {
	r := NewRegistry(Deps{Gateway: &fakeGateway{}}, 0, 2)

	a, _ := r.Acquire(context.Background(), "")
	b, _ := r.Acquire(context.Background(), "")
	waitReady(t, a)
	waitReady(t, b)
	a.lastSeen.Store(time.Now().Add(-time.Hour).UnixNano())

	c, _ := r.Acquire(context.Background(), "")
	waitReady(t, c)

	assert.Equal(t, 2, r.Len())
	_, ok := r.Get(a.ID())
	assert.False(t, ok)
	_, ok = r.Get(b.ID())
	assert.True(t, ok)
}
