package summary

import (
	"context"
	"errors"
	"testing"

	"nia-sales-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestGenerateZeroTurns(t *testing.T) {
	gen := NewGenerator(&stubProvider{response: "should not be called"}, 0)

	s, err := gen.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.QualityScore)
	assert.Equal(t, 0.0, s.ConversionProbability)
	assert.NotNil(t, s.KeyPoints)
	assert.NotNil(t, s.ActionItems)
	assert.NotNil(t, s.NextSteps)
	assert.NotNil(t, s.LeadInformation)
	assert.NotEmpty(t, s.Summary)
}

func TestGenerateWellFormedProviderOutput(t *testing.T) {
	gen := NewGenerator(&stubProvider{response: `{
		"summary": "Caller from Acme Corp wants a demo.",
		"lead_information": {"company": "Acme Corp"},
		"key_points": ["Interested in enterprise plan"],
		"action_items": ["Send pricing"],
		"next_steps": ["Demo next week"],
		"quality_score": 85,
		"conversion_probability": 0.7
	}`}, 0)

	s, err := gen.Generate(context.Background(), []TranscriptTurn{
		{Speaker: "user", Content: "I am from Acme Corp and want a demo"},
	})
	require.NoError(t, err)
	assert.False(t, s.Fallback)
	assert.Equal(t, 85, s.QualityScore)
	assert.Equal(t, 0.7, s.ConversionProbability)
	assert.Equal(t, "Acme Corp", s.LeadInformation["company"])
}

func TestGenerateFencedJSON(t *testing.T) {
	gen := NewGenerator(&stubProvider{response: "```json\n{\"summary\": \"ok\", \"quality_score\": 50, \"conversion_probability\": 0.4}\n```"}, 0)

	s, err := gen.Generate(context.Background(), []TranscriptTurn{{Speaker: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", s.Summary)
	assert.Equal(t, 50, s.QualityScore)
}

func TestGenerateMalformedOutputWrapsText(t *testing.T) {
	gen := NewGenerator(&stubProvider{response: "The call went well, no JSON here."}, 0)

	s, err := gen.Generate(context.Background(), []TranscriptTurn{{Speaker: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.True(t, s.Fallback)
	assert.Equal(t, "The call went well, no JSON here.", s.Summary)
	assert.Equal(t, 0, s.QualityScore)
}

func TestGenerateProviderErrorFallsBack(t *testing.T) {
	gen := NewGenerator(&stubProvider{err: errors.New("summarizer down")}, 0)

	turns := []TranscriptTurn{
		{Speaker: "user", Content: "Hi, I am from Acme Corp, budget around $50,000, please send a demo invite"},
		{Speaker: "assistant", Content: "Happy to help"},
	}

	s, err := gen.Generate(context.Background(), turns)
	require.NoError(t, err)
	assert.True(t, s.Fallback)
	assert.Equal(t, "Acme Corp", s.LeadInformation["company"])
	assert.Equal(t, "$50,000", s.LeadInformation["budget"])
	assert.Contains(t, s.KeyPoints, "Budget was discussed")
	assert.Contains(t, s.ActionItems, "Send requested materials")
	assert.Equal(t, 0, s.QualityScore)
	assert.Equal(t, 0.0, s.ConversionProbability)
}

func TestGenerateNilProviderFallsBack(t *testing.T) {
	gen := NewGenerator(nil, 0)

	s, err := gen.Generate(context.Background(), []TranscriptTurn{{Speaker: "user", Content: "hello"}})
	require.NoError(t, err)
	assert.True(t, s.Fallback)
}

func TestGenerateFallbackDeterministic(t *testing.T) {
	gen := NewGenerator(nil, 0)
	turns := []TranscriptTurn{
		{Speaker: "user", Content: "budget and price and demo and contract, schedule a call, send docs"},
	}

	first, err := gen.Generate(context.Background(), turns)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := gen.Generate(context.Background(), turns)
		require.NoError(t, err)
		assert.Equal(t, first.KeyPoints, again.KeyPoints)
		assert.Equal(t, first.ActionItems, again.ActionItems)
	}
}

func TestBuildTranscript(t *testing.T) {
	got := BuildTranscript([]TranscriptTurn{
		{Speaker: "user", Content: "hello"},
		{Speaker: "assistant", Content: "hi there"},
	})
	assert.Equal(t, "User: hello\nAssistant: hi there\n", got)
}

func TestClampOutOfRangeScores(t *testing.T) {
	gen := NewGenerator(&stubProvider{response: `{"summary": "s", "quality_score": 400, "conversion_probability": 3.5}`}, 0)

	s, err := gen.Generate(context.Background(), []TranscriptTurn{{Speaker: "user", Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 100, s.QualityScore)
	assert.Equal(t, 1.0, s.ConversionProbability)
}
