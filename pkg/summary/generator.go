package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nia-sales-be/pkg/extraction"
	"nia-sales-be/pkg/llm"
)

// CallSummary is the end-of-session aggregation schema. Every field is always
// present: the generator degrades to a deterministic fallback rather than
// returning a partial or missing object.
type CallSummary struct {
	Summary               string                 `json:"summary"`
	LeadInformation       map[string]interface{} `json:"lead_information"`
	KeyPoints             []string               `json:"key_points"`
	ActionItems           []string               `json:"action_items"`
	NextSteps             []string               `json:"next_steps"`
	QualityScore          int                    `json:"quality_score"`          // 0-100
	ConversionProbability float64                `json:"conversion_probability"` // 0-1
	GeneratedAt           time.Time              `json:"generated_at"`
	Fallback              bool                   `json:"fallback,omitempty"`
}

// TranscriptTurn is one speaker-labeled contribution, in session order.
type TranscriptTurn struct {
	Speaker string
	Content string
}

// ToMap flattens the summary for event payloads and JSON columns.
func (s *CallSummary) ToMap() map[string]interface{} {
	raw, _ := json.Marshal(s)
	var m map[string]interface{}
	_ = json.Unmarshal(raw, &m)
	return m
}

// Generator turns an ordered transcript into a CallSummary via the external
// summarizer, falling back to pattern heuristics when the collaborator is
// unavailable or returns something unusable.
type Generator struct {
	provider llm.LLMProvider
	timeout  time.Duration
}

// NewGenerator builds a Generator. provider may be nil, in which case every
// call takes the fallback path.
func NewGenerator(provider llm.LLMProvider, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{provider: provider, timeout: timeout}
}

const summaryPrompt = `You are a sales call analyst. Analyze the following conversation transcript and respond with ONLY a JSON object, no prose, matching exactly this schema:
{
  "summary": "<2-3 sentence prose summary>",
  "lead_information": {"company": "", "contact_name": "", "email": "", "phone": "", "budget": "", "timeline": ""},
  "key_points": ["..."],
  "action_items": ["..."],
  "next_steps": ["..."],
  "quality_score": <0-100 integer>,
  "conversion_probability": <0.0-1.0 number>
}

Transcript:
%s`

// Generate never returns an error for collaborator faults: it degrades to the
// deterministic fallback instead. The error return covers only programmer
// mistakes (none today) and is kept for interface stability.
func (g *Generator) Generate(ctx context.Context, turns []TranscriptTurn) (*CallSummary, error) {
	transcript := BuildTranscript(turns)

	if g.provider == nil || len(turns) == 0 {
		return g.fallback(transcript, turns), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.provider.Generate(callCtx, fmt.Sprintf(summaryPrompt, transcript), llm.WithTemperature(0.2))
	if err != nil {
		return g.fallback(transcript, turns), nil
	}

	parsed, ok := parseSummaryJSON(raw)
	if !ok {
		// Malformed model output: wrap the text rather than failing.
		fb := g.fallback(transcript, turns)
		if text := strings.TrimSpace(raw); text != "" {
			fb.Summary = text
		}
		return fb, nil
	}

	parsed.GeneratedAt = time.Now()
	clamp(parsed)
	return parsed, nil
}

// BuildTranscript renders turns as a speaker-labeled transcript, one line per
// turn, in the order given.
func BuildTranscript(turns []TranscriptTurn) string {
	var b strings.Builder
	for _, t := range turns {
		speaker := t.Speaker
		if speaker == "" {
			speaker = "unknown"
		}
		b.WriteString(capitalize(speaker))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func parseSummaryJSON(raw string) (*CallSummary, bool) {
	cleaned := strings.TrimSpace(raw)

	// Models love markdown fences even when told not to use them.
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var s CallSummary
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &s); err != nil {
		return nil, false
	}
	if s.Summary == "" {
		return nil, false
	}
	normalize(&s)
	return &s, true
}

func (g *Generator) fallback(transcript string, turns []TranscriptTurn) *CallSummary {
	s := &CallSummary{
		GeneratedAt: time.Now(),
		Fallback:    true,
	}
	normalize(s)

	if len(turns) == 0 {
		s.Summary = "No conversation recorded."
		return s
	}

	entities := extraction.Extract(transcript)
	if len(entities.Companies) > 0 {
		s.LeadInformation["company"] = entities.Companies[0]
	}
	if len(entities.Emails) > 0 {
		s.LeadInformation["email"] = entities.Emails[0]
	}
	if len(entities.Phones) > 0 {
		s.LeadInformation["phone"] = entities.Phones[0]
	}
	if len(entities.MonetaryAmounts) > 0 {
		s.LeadInformation["budget"] = entities.MonetaryAmounts[0]
	}
	if len(entities.Dates) > 0 {
		s.LeadInformation["timeline"] = entities.Dates[0]
	}

	lower := strings.ToLower(transcript)
	for _, kp := range keywordPoints {
		if strings.Contains(lower, kp.keyword) {
			s.KeyPoints = append(s.KeyPoints, kp.line)
		}
	}
	for _, ka := range keywordActions {
		if strings.Contains(lower, ka.keyword) {
			s.ActionItems = append(s.ActionItems, ka.line)
		}
	}

	userTurns := 0
	for _, t := range turns {
		if t.Speaker == "user" {
			userTurns++
		}
	}
	s.Summary = fmt.Sprintf("Conversation with %d turns (%d from the caller).", len(turns), userTurns)
	if len(entities.Companies) > 0 {
		s.Summary += fmt.Sprintf(" Mentioned company: %s.", entities.Companies[0])
	}

	return s
}

type keywordRule struct {
	keyword string
	line    string
}

// Keyword heuristics for the degraded path. Slices, not maps, so the output
// order is stable across runs.
var keywordPoints = []keywordRule{
	{"price", "Pricing was discussed"},
	{"budget", "Budget was discussed"},
	{"demo", "A product demo was discussed"},
	{"contract", "Contract terms were discussed"},
	{"competitor", "Competitors were mentioned"},
}

var keywordActions = []keywordRule{
	{"follow up", "Follow up with the lead"},
	{"send", "Send requested materials"},
	{"schedule", "Schedule the next meeting"},
	{"call back", "Call the lead back"},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func normalize(s *CallSummary) {
	if s.LeadInformation == nil {
		s.LeadInformation = map[string]interface{}{}
	}
	if s.KeyPoints == nil {
		s.KeyPoints = []string{}
	}
	if s.ActionItems == nil {
		s.ActionItems = []string{}
	}
	if s.NextSteps == nil {
		s.NextSteps = []string{}
	}
}

func clamp(s *CallSummary) {
	if s.QualityScore < 0 {
		s.QualityScore = 0
	}
	if s.QualityScore > 100 {
		s.QualityScore = 100
	}
	if s.ConversionProbability < 0 {
		s.ConversionProbability = 0
	}
	if s.ConversionProbability > 1 {
		s.ConversionProbability = 1
	}
}
