package ports

import (
	"context"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

// IntentClassifier is the inbound contract for intent classification.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (domain.Intent, error)
}

// QueryRouter is the inbound contract for intent-aware retrieval.
type QueryRouter interface {
	Route(ctx context.Context, query string, intent domain.Intent, service string) ([]domain.Document, error)
}

// AnswerService is the inbound contract for end-to-end answer assembly.
type AnswerService interface {
	Generate(ctx context.Context, query, history, service string) (*domain.Answer, error)
}

// ReportService is the inbound contract for structured report assembly.
type ReportService interface {
	Build(ctx context.Context, answerText string, referenceIDs []string) (domain.SupportReport, error)
}
