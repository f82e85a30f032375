package audio

import (
	"sync"

	"github.com/google/uuid"
)

type sessionBuffer struct {
	mu   sync.Mutex
	data []byte
}

// BufferManager holds one byte buffer per session. Each buffer has its own
// lock, so appends and drains on different sessions never contend; the outer
// mutex only guards the map.
type BufferManager struct {
	mu      sync.RWMutex
	buffers map[uuid.UUID]*sessionBuffer
}

func NewBufferManager() *BufferManager {
	return &BufferManager{
		buffers: make(map[uuid.UUID]*sessionBuffer),
	}
}

func (m *BufferManager) buffer(id uuid.UUID) *sessionBuffer {
	m.mu.RLock()
	b, ok := m.buffers[id]
	m.mu.RUnlock()
	if ok {
		return b
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok = m.buffers[id]; ok {
		return b
	}
	b = &sessionBuffer{}
	m.buffers[id] = b
	return b
}

// Append adds bytes to the session's buffer, creating it on first use.
func (m *BufferManager) Append(id uuid.UUID, data []byte) {
	b := m.buffer(id)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, data...)
}

// Drain returns up to maxBytes from the front of the buffer and retains the
// remainder. maxBytes <= 0 drains everything. The returned slice is a copy.
func (m *BufferManager) Drain(id uuid.UUID, maxBytes int) []byte {
	b := m.buffer(id)
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.data)
	if n == 0 {
		return nil
	}
	if maxBytes > 0 && maxBytes < n {
		n = maxBytes
	}
	out := make([]byte, n)
	copy(out, b.data[:n])
	b.data = b.data[n:]
	return out
}

// Len reports how many bytes are currently buffered for the session.
func (m *BufferManager) Len(id uuid.UUID) int {
	m.mu.RLock()
	b, ok := m.buffers[id]
	m.mu.RUnlock()
	if !ok {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Clear empties the session's buffer but keeps it registered.
func (m *BufferManager) Clear(id uuid.UUID) {
	m.mu.RLock()
	b, ok := m.buffers[id]
	m.mu.RUnlock()
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
}

// Release drops the session's buffer entirely. Safe to call twice.
func (m *BufferManager) Release(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buffers, id)
}
