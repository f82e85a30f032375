package memory

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistry_RegisterAndGet(t *testing.T) {
	registry := NewSessionRegistry()
	id := uuid.New()
	userId := uuid.New()

	s := registry.Register(id, userId, "voice", "active")
	require.NotNil(t, s)
	assert.Equal(t, id, s.Id)
	assert.Equal(t, userId, s.UserId)

	got, ok := registry.Get(id)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestSessionRegistry_RegisterTwiceReturnsExisting(t *testing.T) {
	registry := NewSessionRegistry()
	id := uuid.New()

	first := registry.Register(id, uuid.New(), "voice", "active")
	first.NextTurnNumber()

	second := registry.Register(id, uuid.New(), "voice", "active")
	assert.Same(t, first, second)
	assert.Equal(t, 2, second.NextTurnNumber())
}

func TestSessionRegistry_SequencesStartAtOne(t *testing.T) {
	registry := NewSessionRegistry()
	s := registry.Register(uuid.New(), uuid.New(), "voice", "active")

	assert.Equal(t, 1, s.NextChunkNumber())
	assert.Equal(t, 2, s.NextChunkNumber())
	assert.Equal(t, 1, s.NextTurnNumber())
	assert.Equal(t, 1, s.NextMessageNumber())
}

func TestSessionRegistry_SequencesAreIndependentPerSession(t *testing.T) {
	registry := NewSessionRegistry()
	a := registry.Register(uuid.New(), uuid.New(), "voice", "active")
	b := registry.Register(uuid.New(), uuid.New(), "voice", "active")

	a.NextTurnNumber()
	a.NextTurnNumber()

	assert.Equal(t, 1, b.NextTurnNumber())
	assert.Equal(t, 3, a.NextTurnNumber())
}

func TestSessionRegistry_ConcurrentNumberingHasNoGaps(t *testing.T) {
	registry := NewSessionRegistry()
	s := registry.Register(uuid.New(), uuid.New(), "voice", "active")

	const workers = 50
	var wg sync.WaitGroup
	seen := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.NextChunkNumber()
		}()
	}
	wg.Wait()
	close(seen)

	got := make(map[int]bool)
	for n := range seen {
		got[n] = true
	}
	require.Len(t, got, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, got[i], "missing sequence number %d", i)
	}
}

func TestSessionRegistry_ReleaseCancelsContext(t *testing.T) {
	registry := NewSessionRegistry()
	id := uuid.New()
	s := registry.Register(id, uuid.New(), "voice", "active")

	select {
	case <-s.Ctx.Done():
		t.Fatal("context cancelled before release")
	default:
	}

	registry.Release(id)

	_, ok := registry.Get(id)
	assert.False(t, ok)
	select {
	case <-s.Ctx.Done():
	default:
		t.Fatal("context not cancelled after release")
	}
}

func TestSessionRegistry_ReleaseUnknownIdIsNoop(t *testing.T) {
	registry := NewSessionRegistry()
	registry.Release(uuid.New())
	assert.Equal(t, 0, registry.Count())
}
