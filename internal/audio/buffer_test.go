package audio

import (
	"bytes"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferManager_AppendAndDrain(t *testing.T) {
	m := NewBufferManager()
	id := uuid.New()

	m.Append(id, []byte("hello "))
	m.Append(id, []byte("world"))

	got := m.Drain(id, 0)
	assert.Equal(t, []byte("hello world"), got)
	assert.Equal(t, 0, m.Len(id))
}

func TestBufferManager_DrainSlidingWindow(t *testing.T) {
	m := NewBufferManager()
	id := uuid.New()
	m.Append(id, []byte("abcdefgh"))

	first := m.Drain(id, 3)
	assert.Equal(t, []byte("abc"), first)
	assert.Equal(t, 5, m.Len(id))

	second := m.Drain(id, 100)
	assert.Equal(t, []byte("defgh"), second)
	assert.Nil(t, m.Drain(id, 10))
}

func TestBufferManager_DrainEmptyReturnsNil(t *testing.T) {
	m := NewBufferManager()
	assert.Nil(t, m.Drain(uuid.New(), 1024))
}

func TestBufferManager_DrainReturnsCopy(t *testing.T) {
	m := NewBufferManager()
	id := uuid.New()
	m.Append(id, []byte("abc"))

	got := m.Drain(id, 0)
	got[0] = 'z'

	m.Append(id, []byte("abc"))
	assert.Equal(t, []byte("abc"), m.Drain(id, 0))
}

func TestBufferManager_SessionIsolation(t *testing.T) {
	m := NewBufferManager()
	a := uuid.New()
	b := uuid.New()

	m.Append(a, []byte("session-a"))
	m.Append(b, []byte("session-b"))

	assert.Equal(t, []byte("session-a"), m.Drain(a, 0))
	assert.Equal(t, []byte("session-b"), m.Drain(b, 0))
}

func TestBufferManager_ClearAndRelease(t *testing.T) {
	m := NewBufferManager()
	id := uuid.New()
	m.Append(id, []byte("data"))

	m.Clear(id)
	assert.Equal(t, 0, m.Len(id))

	m.Append(id, []byte("more"))
	m.Release(id)
	assert.Equal(t, 0, m.Len(id))

	// release twice is fine
	m.Release(id)
}

func TestBufferManager_ConcurrentAppendsArePreserved(t *testing.T) {
	m := NewBufferManager()
	id := uuid.New()
	other := uuid.New()

	const workers = 20
	const chunk = "0123456789"
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Append(id, []byte(chunk))
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Append(other, []byte("x"))
		}()
	}
	wg.Wait()

	got := m.Drain(id, 0)
	require.Len(t, got, workers*len(chunk))
	assert.False(t, bytes.ContainsRune(got, 'x'), "bytes from another session leaked in")
	assert.Equal(t, workers, m.Len(other))
}
