package domain

import (
	"strings"
	"time"
)

// Answer is the grounded result of one end-to-end question.
// References are derived deterministically from retrieved documents,
// never from model output.
type Answer struct {
	Intent     Intent   `json:"intent"`
	Text       string   `json:"text"`
	References []string `json:"references"`
	Retrieved  int      `json:"retrieved"`
}

// Confidence levels allowed in a structured support report.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ParseConfidence normalizes model-emitted confidence, falling back to
// medium on anything outside the allowed set.
func ParseConfidence(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ConfidenceLow:
		return ConfidenceLow
	case ConfidenceHigh:
		return ConfidenceHigh
	default:
		return ConfidenceMedium
	}
}

// SupportReport is the structured, machine-readable form of an answer,
// consumed by dashboards and ticketing automation.
type SupportReport struct {
	IssueSummary       string   `json:"issue_summary"`
	ImpactedService    string   `json:"impacted_service"`
	RecommendedSteps   []string `json:"recommended_steps"`
	EscalationRequired bool     `json:"escalation_required"`
	Confidence         string   `json:"confidence"`
	ReferenceDocs      []string `json:"reference_docs"`
}

// JudgeVerdict is the automated quality grade of a generated answer.
type JudgeVerdict struct {
	Grounded      bool `json:"grounded"`
	UsefulSteps   bool `json:"useful_steps"`
	Hallucination bool `json:"hallucination"`
	OverallScore  int  `json:"overall_score"`
}

// AnswerEvent is published after a successful answer for downstream ops
// automation consumers.
type AnswerEvent struct {
	EventID   string        `json:"event_id"`
	SessionID string        `json:"session_id,omitempty"`
	Query     string        `json:"query"`
	Intent    Intent        `json:"intent"`
	Report    SupportReport `json:"report"`
	CreatedAt time.Time     `json:"created_at"`
}
