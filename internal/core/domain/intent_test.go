package domain

import "testing"

func TestParseIntentAcceptsAllLabels(t *testing.T) {
	labels := map[string]Intent{
		"runbook_lookup":       IntentRunbookLookup,
		"incident_analysis":    IntentIncidentAnalysis,
		"log_analysis":         IntentLogAnalysis,
		"alert_investigation":  IntentAlertInvestigation,
		"ticket_investigation": IntentTicketInvestigation,
		"general_question":     IntentGeneralQuestion,
	}

	for raw, want := range labels {
		if got := ParseIntent(raw); got != want {
			t.Fatalf("ParseIntent(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseIntentNormalizes(t *testing.T) {
	tests := []struct {
		raw  string
		want Intent
	}{
		{"  Runbook_Lookup  ", IntentRunbookLookup},
		{"GENERAL_QUESTION\n", IntentGeneralQuestion},
		{"Incident_Analysis", IntentIncidentAnalysis},
	}
	for _, tt := range tests {
		if got := ParseIntent(tt.raw); got != tt.want {
			t.Fatalf("ParseIntent(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseIntentFallsBackOnDrift(t *testing.T) {
	for _, raw := range []string{
		"",
		"intent: runbook_lookup",
		"the user wants steps",
		"unknown_intent",
		"runbook-lookup",
	} {
		if got := ParseIntent(raw); got != IntentRunbookLookup {
			t.Fatalf("ParseIntent(%q) = %q, want fallback runbook_lookup", raw, got)
		}
	}
}
