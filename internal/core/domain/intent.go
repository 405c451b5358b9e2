package domain

import "strings"

// Intent is the closed classification of a query's operational purpose.
// It drives the routing strategy and nothing outside this set may flow
// downstream of classification.
type Intent string

const (
	IntentRunbookLookup       Intent = "runbook_lookup"
	IntentIncidentAnalysis    Intent = "incident_analysis"
	IntentLogAnalysis         Intent = "log_analysis"
	IntentAlertInvestigation  Intent = "alert_investigation"
	IntentTicketInvestigation Intent = "ticket_investigation"
	IntentGeneralQuestion     Intent = "general_question"
)

// ParseIntent maps raw model output onto the intent set. It is total:
// any text outside the six labels falls back to runbook_lookup, on the
// grounds that mis-routing toward an operational search is less harmful
// than blocking a legitimate support query.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentRunbookLookup:
		return IntentRunbookLookup
	case IntentIncidentAnalysis:
		return IntentIncidentAnalysis
	case IntentLogAnalysis:
		return IntentLogAnalysis
	case IntentAlertInvestigation:
		return IntentAlertInvestigation
	case IntentTicketInvestigation:
		return IntentTicketInvestigation
	case IntentGeneralQuestion:
		return IntentGeneralQuestion
	default:
		return IntentRunbookLookup
	}
}

func (i Intent) String() string {
	return string(i)
}
