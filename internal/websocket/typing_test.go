package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(ttl time.Duration, onExpire func(uuid.UUID, uuid.UUID)) *TypingTracker {
	tracker := NewTypingTracker(onExpire)
	tracker.ttl = ttl
	return tracker
}

func TestTypingTracker_StartAndStop(t *testing.T) {
	tracker := newTestTracker(time.Minute, nil)
	sessionID := uuid.New()
	userID := uuid.New()

	assert.True(t, tracker.Start(sessionID, userID))
	assert.True(t, tracker.IsTyping(sessionID, userID))

	// second start only extends
	assert.False(t, tracker.Start(sessionID, userID))

	assert.True(t, tracker.Stop(sessionID, userID))
	assert.False(t, tracker.IsTyping(sessionID, userID))
	assert.False(t, tracker.Stop(sessionID, userID))
}

func TestTypingTracker_ExpiresWithoutActivity(t *testing.T) {
	var mu sync.Mutex
	var expired []uuid.UUID
	tracker := newTestTracker(20*time.Millisecond, func(_ uuid.UUID, userID uuid.UUID) {
		mu.Lock()
		expired = append(expired, userID)
		mu.Unlock()
	})

	sessionID := uuid.New()
	userID := uuid.New()
	tracker.Start(sessionID, userID)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(expired) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, userID, expired[0])
	assert.False(t, tracker.IsTyping(sessionID, userID))
}

func TestTypingTracker_KeystrokeResetsTimer(t *testing.T) {
	var mu sync.Mutex
	count := 0
	tracker := newTestTracker(50*time.Millisecond, func(uuid.UUID, uuid.UUID) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	sessionID := uuid.New()
	userID := uuid.New()
	tracker.Start(sessionID, userID)

	// keep typing faster than the ttl
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		tracker.Start(sessionID, userID)
	}
	mu.Lock()
	assert.Equal(t, 0, count, "indicator expired while still typing")
	mu.Unlock()
	assert.True(t, tracker.IsTyping(sessionID, userID))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 5*time.Millisecond)
}

func TestTypingTracker_StopPreventsExpiry(t *testing.T) {
	var mu sync.Mutex
	count := 0
	tracker := newTestTracker(20*time.Millisecond, func(uuid.UUID, uuid.UUID) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	sessionID := uuid.New()
	userID := uuid.New()
	tracker.Start(sessionID, userID)
	tracker.Stop(sessionID, userID)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 0, count)
	mu.Unlock()
}

func TestTypingTracker_UsersAreIndependent(t *testing.T) {
	tracker := newTestTracker(time.Minute, nil)
	sessionID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	tracker.Start(sessionID, alice)
	assert.True(t, tracker.IsTyping(sessionID, alice))
	assert.False(t, tracker.IsTyping(sessionID, bob))

	tracker.Start(sessionID, bob)
	tracker.Stop(sessionID, alice)
	assert.False(t, tracker.IsTyping(sessionID, alice))
	assert.True(t, tracker.IsTyping(sessionID, bob))
}
