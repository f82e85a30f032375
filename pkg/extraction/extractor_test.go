package extraction

import (
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantCompanies []string
		wantEmails    []string
		wantPhones    []string
		wantMoney     []string
		wantDates     []string
	}{
		{
			name:          "company with suffix",
			text:          "Hello, I have a lead from Acme Corp",
			wantCompanies: []string{"Acme Corp"},
		},
		{
			name:       "email address",
			text:       "reach me at jane.doe+sales@acme-corp.io tomorrow",
			wantEmails: []string{"jane.doe+sales@acme-corp.io"},
		},
		{
			name:       "nanp phone",
			text:       "call me on (415) 555-0134 after lunch",
			wantPhones: []string{"(415) 555-0134"},
		},
		{
			name:      "monetary amounts",
			text:      "budget is $250,000 or maybe 5000 dollars a month",
			wantMoney: []string{"$250,000", "5000 dollars"},
		},
		{
			name:      "long form date",
			text:      "we can sign by March 15th, 2026 at the latest",
			wantDates: []string{"March 15th, 2026"},
		},
		{
			name:          "multiple entity types",
			text:          "Globex Corporation wants a demo, email ops@globex.com, budget $1.5 million",
			wantCompanies: []string{"Globex Corporation"},
			wantEmails:    []string{"ops@globex.com"},
			wantMoney:     []string{"$1.5 million"},
		},
		{
			name:          "duplicates collapse",
			text:          "Acme Corp called again. Acme Corp wants pricing.",
			wantCompanies: []string{"Acme Corp"},
		},
		{
			name: "no entities",
			text: "just checking in about the weather",
		},
		{
			name:          "greeting noise stripped",
			text:          "Hello Initech Systems here",
			wantCompanies: []string{"Initech Systems"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assertList(t, "companies", got.Companies, tt.wantCompanies)
			assertList(t, "emails", got.Emails, tt.wantEmails)
			assertList(t, "phones", got.Phones, tt.wantPhones)
			assertList(t, "monetary_amounts", got.MonetaryAmounts, tt.wantMoney)
			assertList(t, "dates", got.Dates, tt.wantDates)
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	text := "Acme Corp, ops@acme.com, $40k, call 415-555-0134 by June 3"
	first := Extract(text)
	for i := 0; i < 10; i++ {
		again := Extract(text)
		if len(again.Companies) != len(first.Companies) || len(again.Emails) != len(first.Emails) {
			t.Fatalf("extraction not deterministic on run %d: %+v vs %+v", i, again, first)
		}
	}
}

func TestToMapOmitsEmpty(t *testing.T) {
	m := Extract("nothing interesting here").ToMap()
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}

	m = Extract("lead from Acme Corp").ToMap()
	if _, ok := m["companies"]; !ok {
		t.Fatalf("expected companies key, got %v", m)
	}
	if _, ok := m["emails"]; ok {
		t.Fatalf("did not expect emails key, got %v", m)
	}
}

func assertList(t *testing.T, field string, got, want []string) {
	t.Helper()
	if len(want) == 0 {
		if len(got) != 0 {
			t.Errorf("%s: expected none, got %v", field, got)
		}
		return
	}
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", field, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: got %q, want %q", field, i, got[i], want[i])
		}
	}
}
