package constant

// Session kinds.
const (
	SessionKindVoice = "voice"
	SessionKindChat  = "chat"
)

// Voice session statuses.
const (
	VoiceStatusActive = "active"
	VoiceStatusPaused = "paused"
	VoiceStatusEnded  = "ended"
	VoiceStatusFailed = "failed"
)

// Chat session statuses.
const (
	ChatStatusActive          = "active"
	ChatStatusVoiceTransition = "voice_transition"
	ChatStatusVoiceActive     = "voice_active"
	ChatStatusPaused          = "paused"
	ChatStatusEnded           = "ended"
)

// Speaker / sender roles.
const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
	SpeakerSystem    = "system"
)

// Chat message delivery statuses.
const (
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryRead      = "read"
)

// Intents written into Context.
const (
	IntentUserSpeech        = "user_speech"
	IntentAssistantResponse = "assistant_response"
)

// Status ranks encode the monotonic transition order: a session can only move
// to a status with a strictly higher rank, and ended/failed are terminal.
var voiceStatusRank = map[string]int{
	VoiceStatusActive: 0,
	VoiceStatusPaused: 1,
	VoiceStatusEnded:  2,
	VoiceStatusFailed: 2,
}

var chatStatusRank = map[string]int{
	ChatStatusActive:          0,
	ChatStatusVoiceTransition: 1,
	ChatStatusVoiceActive:     2,
	ChatStatusPaused:          3,
	ChatStatusEnded:           4,
}

// IsVoiceTransitionAllowed reports whether a voice session may move from one
// status to another. Terminal statuses never resurrect.
func IsVoiceTransitionAllowed(from, to string) bool {
	if from == VoiceStatusEnded || from == VoiceStatusFailed {
		return false
	}
	fromRank, ok1 := voiceStatusRank[from]
	toRank, ok2 := voiceStatusRank[to]
	if !ok1 || !ok2 {
		return false
	}
	// Pausing and resuming both allowed; everything else is forward-only.
	if from == VoiceStatusPaused && to == VoiceStatusActive {
		return true
	}
	return toRank > fromRank
}

// IsChatTransitionAllowed reports whether a chat session may move from one
// status to another.
func IsChatTransitionAllowed(from, to string) bool {
	if from == ChatStatusEnded {
		return false
	}
	fromRank, ok1 := chatStatusRank[from]
	toRank, ok2 := chatStatusRank[to]
	if !ok1 || !ok2 {
		return false
	}
	if from == ChatStatusPaused && to == ChatStatusActive {
		return true
	}
	return toRank > fromRank
}
