package speech

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned by recognizers when the audio contained no
// recognizable speech. Callers treat it as an empty result, not a failure.
var ErrNoSpeech = errors.New("speech: no speech detected")

// RecognitionRequest carries one drained audio window plus the caller's
// recognition preferences.
type RecognitionRequest struct {
	Audio                      []byte
	Encoding                   string // e.g. "LINEAR16", "WEBM_OPUS"
	SampleRateHertz            int
	LanguageCode               string
	EnableAutomaticPunctuation bool
	VocabularyHints            []string
}

// RecognitionResult is a single best-hypothesis transcript.
type RecognitionResult struct {
	Transcript string
	Confidence float64
}

// SynthesisRequest carries response text plus the caller's voice preferences.
type SynthesisRequest struct {
	Text         string
	LanguageCode string
	VoiceName    string
	SpeakingRate float64
	Pitch        float64
	VolumeGainDb float64
}

// Recognizer is the speech-to-text collaborator contract.
type Recognizer interface {
	Recognize(ctx context.Context, req *RecognitionRequest) (*RecognitionResult, error)
}

// Synthesizer is the text-to-speech collaborator contract.
type Synthesizer interface {
	Synthesize(ctx context.Context, req *SynthesisRequest) ([]byte, error)
}
