package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateGetRemove(t *testing.T) {
	r, err := NewRegistry(4, &stubRunner{}, nil)
	require.NoError(t, err)

	s := r.Create()
	require.NotEmpty(t, s.ID)
	got, ok := r.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.True(t, r.Remove(s.ID))
	_, ok = r.Get(s.ID)
	assert.False(t, ok)
	assert.False(t, r.Remove(s.ID))
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	r, err := NewRegistry(2, &stubRunner{}, nil)
	require.NoError(t, err)

	a := r.Create()
	b := r.Create()
	_, _ = r.Get(a.ID)
	c := r.Create()

	_, ok := r.Get(b.ID)
	assert.False(t, ok, "least recently used session should be evicted")
	_, ok = r.Get(a.ID)
	assert.True(t, ok)
	_, ok = r.Get(c.ID)
	assert.True(t, ok)
}

func TestRegistry_DefaultCapacity(t *testing.T) {
	r, err := NewRegistry(0, &stubRunner{}, nil)
	require.NoError(t, err)
	ids := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		ids = append(ids, r.Create().ID)
	}
	for _, id := range ids {
		_, ok := r.Get(id)
		assert.True(t, ok, id)
	}
}
