package room

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryGetOrCreate(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	r1 := reg.GetOrCreate("r1")
	require.NotNil(t, r1)
	assert.Same(t, r1, reg.GetOrCreate("r1"))

	r2 := reg.GetOrCreate("r2")
	assert.NotSame(t, r1, r2)
	assert.Equal(t, 2, reg.Len())

	// Names are case-sensitive.
	assert.NotSame(t, r1, reg.GetOrCreate("R1"))
}

func TestRegistryGetDoesNotCreate(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	_, ok := reg.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryConcurrentFirstJoin(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	var wg sync.WaitGroup
	rooms := make([]*Room, 32)
	for i := range rooms {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rooms[i] = reg.GetOrCreate("contested")
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, reg.Len())
	for _, r := range rooms {
		assert.Same(t, rooms[0], r)
	}
}

func TestRegistryCounts(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	r := reg.GetOrCreate("r1")

	a := newTestSession("ana", "#f00")
	r.Join(a)
	_, err := r.Commit(a, strokeOp("o1"))
	require.NoError(t, err)

	assert.Equal(t, 1, reg.SessionCount())
	assert.Equal(t, 1, reg.OperationCount())
}
