package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// typingTTL is how long a typing indicator survives without another
// keystroke event.
const typingTTL = 5 * time.Second

type typingKey struct {
	sessionID uuid.UUID
	userID    uuid.UUID
}

// TypingTracker keeps per-user typing indicators that expire on their own.
// Every keystroke event resets the user's timer; Stop cancels it outright.
type TypingTracker struct {
	mu     sync.Mutex
	timers map[typingKey]*time.Timer
	ttl    time.Duration

	// onExpire fires when an indicator times out without an explicit stop.
	onExpire func(sessionID uuid.UUID, userID uuid.UUID)
}

func NewTypingTracker(onExpire func(sessionID uuid.UUID, userID uuid.UUID)) *TypingTracker {
	return &TypingTracker{
		timers:   make(map[typingKey]*time.Timer),
		ttl:      typingTTL,
		onExpire: onExpire,
	}
}

// Start marks the user as typing and (re)arms the expiry timer. Returns true
// when this is a fresh indicator, false when it only extended an active one.
func (t *TypingTracker) Start(sessionID uuid.UUID, userID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := typingKey{sessionID: sessionID, userID: userID}
	if timer, ok := t.timers[key]; ok {
		timer.Reset(t.ttl)
		return false
	}
	t.timers[key] = time.AfterFunc(t.ttl, func() {
		t.expire(key)
	})
	return true
}

// Stop clears the user's typing indicator. Returns true when one was active.
func (t *TypingTracker) Stop(sessionID uuid.UUID, userID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := typingKey{sessionID: sessionID, userID: userID}
	timer, ok := t.timers[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(t.timers, key)
	return true
}

// IsTyping reports whether the user currently has an active indicator.
func (t *TypingTracker) IsTyping(sessionID uuid.UUID, userID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[typingKey{sessionID: sessionID, userID: userID}]
	return ok
}

func (t *TypingTracker) expire(key typingKey) {
	t.mu.Lock()
	_, ok := t.timers[key]
	if ok {
		delete(t.timers, key)
	}
	t.mu.Unlock()

	if ok && t.onExpire != nil {
		t.onExpire(key.sessionID, key.userID)
	}
}
