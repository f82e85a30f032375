package extraction

import (
	"regexp"
	"strings"
)

// Entities holds everything the pattern rules can pull out of a transcript
// fragment. Lists are deduplicated but keep first-seen order so merges stay
// deterministic.
type Entities struct {
	Companies       []string `json:"companies"`
	Emails          []string `json:"emails"`
	Phones          []string `json:"phones"`
	MonetaryAmounts []string `json:"monetary_amounts"`
	Dates           []string `json:"dates"`
}

var (
	// Two or more consecutive capitalized words (each 2+ letters, so "I" never
	// qualifies). Catches "Acme Corp", "Globex Corporation", etc.
	companyPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z&]+(?:\s+[A-Z][a-zA-Z&]+)+\b`)

	emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`)

	// NANP style: optional +1, optional area code parens, common separators.
	phonePattern = regexp.MustCompile(`(?:\+?1[\s.\-]?)?(?:\(\d{3}\)|\d{3})[\s.\-]?\d{3}[\s.\-]\d{4}\b`)

	moneyPattern = regexp.MustCompile(`\$\s?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?(?:\s?(?:million|billion|thousand|[kKM]))?|\b\d+(?:,\d{3})*\s?(?:dollars|USD)\b`)

	datePattern = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`)
)

// Words that start sentences a lot and wrongly glue onto a following proper
// noun ("Hello Acme" -> "Acme"). Stripped from the front of company matches.
var leadingNoise = map[string]bool{
	"Hello": true,
	"Hi":    true,
	"Hey":   true,
	"Thanks": true,
	"Thank":  true,
	"Dear":   true,
	"Okay":   true,
	"The":    true,
}

// Extract runs the fixed pattern rules over text. It is pure and
// deterministic: the same input always yields the same Entities value.
func Extract(text string) Entities {
	return Entities{
		Companies:       extractCompanies(text),
		Emails:          dedupe(emailPattern.FindAllString(text, -1)),
		Phones:          dedupe(phonePattern.FindAllString(text, -1)),
		MonetaryAmounts: dedupe(trimAll(moneyPattern.FindAllString(text, -1))),
		Dates:           dedupe(datePattern.FindAllString(text, -1)),
	}
}

// ToMap converts to the Context merge shape (entity type -> values).
// Empty lists are omitted so merges never write empty keys.
func (e Entities) ToMap() map[string][]string {
	m := make(map[string][]string)
	if len(e.Companies) > 0 {
		m["companies"] = e.Companies
	}
	if len(e.Emails) > 0 {
		m["emails"] = e.Emails
	}
	if len(e.Phones) > 0 {
		m["phones"] = e.Phones
	}
	if len(e.MonetaryAmounts) > 0 {
		m["monetary_amounts"] = e.MonetaryAmounts
	}
	if len(e.Dates) > 0 {
		m["dates"] = e.Dates
	}
	return m
}

// IsEmpty reports whether no rule matched anything.
func (e Entities) IsEmpty() bool {
	return len(e.Companies) == 0 && len(e.Emails) == 0 && len(e.Phones) == 0 &&
		len(e.MonetaryAmounts) == 0 && len(e.Dates) == 0
}

func extractCompanies(text string) []string {
	raw := companyPattern.FindAllString(text, -1)
	cleaned := make([]string, 0, len(raw))
	for _, match := range raw {
		words := strings.Fields(match)
		for len(words) > 1 && leadingNoise[words[0]] {
			words = words[1:]
		}
		if len(words) < 2 {
			continue
		}
		cleaned = append(cleaned, strings.Join(words, " "))
	}
	return dedupe(cleaned)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
