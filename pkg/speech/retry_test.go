package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRecognizer struct {
	calls   int
	results []func() (*RecognitionResult, error)
}

func (s *scriptedRecognizer) Recognize(ctx context.Context, req *RecognitionRequest) (*RecognitionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i]()
}

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRecognizeWithRetryEventualSuccess(t *testing.T) {
	rec := &scriptedRecognizer{results: []func() (*RecognitionResult, error){
		func() (*RecognitionResult, error) { return nil, errors.New("503 service unavailable") },
		func() (*RecognitionResult, error) { return nil, errors.New("timeout") },
		func() (*RecognitionResult, error) {
			return &RecognitionResult{Transcript: "hello", Confidence: 0.9}, nil
		},
	}}

	result, err := RecognizeWithRetry(context.Background(), rec, &RecognitionRequest{}, fastRetry(3))
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Transcript)
	assert.Equal(t, 3, rec.calls)
}

func TestRecognizeWithRetryExhausted(t *testing.T) {
	rec := &scriptedRecognizer{results: []func() (*RecognitionResult, error){
		func() (*RecognitionResult, error) { return nil, errors.New("boom") },
	}}

	_, err := RecognizeWithRetry(context.Background(), rec, &RecognitionRequest{}, fastRetry(3))
	require.Error(t, err)
	assert.Equal(t, 3, rec.calls)
}

func TestRecognizeWithRetryNoSpeechNotRetried(t *testing.T) {
	rec := &scriptedRecognizer{results: []func() (*RecognitionResult, error){
		func() (*RecognitionResult, error) { return nil, ErrNoSpeech },
	}}

	_, err := RecognizeWithRetry(context.Background(), rec, &RecognitionRequest{}, fastRetry(5))
	require.ErrorIs(t, err, ErrNoSpeech)
	assert.Equal(t, 1, rec.calls)
}

func TestRecognizeWithRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &scriptedRecognizer{results: []func() (*RecognitionResult, error){
		func() (*RecognitionResult, error) { return nil, errors.New("unreachable") },
	}}

	_, err := RecognizeWithRetry(ctx, rec, &RecognitionRequest{}, fastRetry(5))
	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, rec.calls, 1)
}
