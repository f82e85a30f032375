package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActiveSession is the in-memory runtime state of one live session. Sequence
// counters live here so numbering never hits the database on the hot path;
// the composite unique indexes on the tables are the safety net.
type ActiveSession struct {
	Id     uuid.UUID
	UserId uuid.UUID
	Kind   string // constant.SessionKindVoice or constant.SessionKindChat
	Status string

	StartedAt time.Time

	// Ctx is cancelled when the session ends or fails. Collaborator results
	// that arrive after cancellation must be discarded, not persisted.
	Ctx    context.Context
	cancel context.CancelFunc

	mu                sync.Mutex
	nextChunkNumber   int
	nextTurnNumber    int
	nextMessageNumber int
}

// NextChunkNumber hands out chunk sequence numbers starting at 1 with no gaps.
func (s *ActiveSession) NextChunkNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextChunkNumber++
	return s.nextChunkNumber
}

// NextTurnNumber hands out turn sequence numbers starting at 1 with no gaps.
func (s *ActiveSession) NextTurnNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTurnNumber++
	return s.nextTurnNumber
}

// NextMessageNumber hands out chat message numbers starting at 1 with no gaps.
func (s *ActiveSession) NextMessageNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMessageNumber++
	return s.nextMessageNumber
}

// SeedSequences fast-forwards the counters to the last numbers already
// persisted, so a resumed session continues numbering instead of colliding
// with existing rows. Seeding is forward-only; a concurrent issue wins.
func (s *ActiveSession) SeedSequences(chunk, turn, message int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if chunk > s.nextChunkNumber {
		s.nextChunkNumber = chunk
	}
	if turn > s.nextTurnNumber {
		s.nextTurnNumber = turn
	}
	if message > s.nextMessageNumber {
		s.nextMessageNumber = message
	}
}

// Lock takes the session's own mutex for multi-step state changes. Callers
// must not hold it across blocking collaborator calls.
func (s *ActiveSession) Lock()   { s.mu.Lock() }
func (s *ActiveSession) Unlock() { s.mu.Unlock() }

// Cancel aborts in-flight work tied to this session.
func (s *ActiveSession) Cancel() {
	s.cancel()
}

// SessionRegistry tracks live sessions. The registry mutex only guards the
// map itself; each session carries its own lock so work on one session never
// blocks another.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*ActiveSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*ActiveSession),
	}
}

// Register adds a live session. Counters start at zero so the first issued
// number is 1. Registering an id twice returns the existing session.
func (r *SessionRegistry) Register(id uuid.UUID, userId uuid.UUID, kind string, status string) *ActiveSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[id]; ok {
		return existing
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &ActiveSession{
		Id:        id,
		UserId:    userId,
		Kind:      kind,
		Status:    status,
		StartedAt: time.Now(),
		Ctx:       ctx,
		cancel:    cancel,
	}
	r.sessions[id] = s
	return s
}

func (r *SessionRegistry) Get(id uuid.UUID) (*ActiveSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Release cancels the session's context and removes it from the registry.
// Releasing an unknown id is a no-op.
func (r *SessionRegistry) Release(id uuid.UUID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if ok {
		s.cancel()
	}
}

// Count reports how many sessions are live.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SessionsForUser returns the live sessions owned by one user.
func (r *SessionRegistry) SessionsForUser(userId uuid.UUID) []*ActiveSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*ActiveSession
	for _, s := range r.sessions {
		if s.UserId == userId {
			out = append(out, s)
		}
	}
	return out
}
