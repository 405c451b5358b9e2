package ports

import (
	"context"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

// DocumentRetriever wraps the vector-index collaborator. Filtered search
// applies no score threshold: a structured filter has already narrowed
// the candidate set semantically. Threshold search is for broad,
// unfiltered queries. Both fail with domain.ErrIndexUnavailable when the
// index has not been built, never with a silent empty result.
type DocumentRetriever interface {
	Search(ctx context.Context, query string, filter domain.MetadataFilter, topK int) ([]domain.Document, error)
	SearchWithThreshold(ctx context.Context, query string, threshold float64, topK int) ([]domain.Document, error)
}

// Embedder builds the query vector handed to the index collaborator.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// IntentModel returns the raw intent label emitted by the language
// model. Normalization and the drift guardrail belong to the core.
type IntentModel interface {
	LabelIntent(ctx context.Context, query string) (string, error)
}

// AnswerGenerator produces the final grounded answer text from the
// already-built context block.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, query, contextBlock, history string) (string, error)
}

// ReportModel converts a free-text answer into a structured report.
type ReportModel interface {
	BuildReport(ctx context.Context, answer string) (domain.SupportReport, error)
}

// AnswerJudge grades a generated answer against its retrieved context.
type AnswerJudge interface {
	JudgeAnswer(ctx context.Context, query, contextBlock, answer string) (domain.JudgeVerdict, error)
}

// AnswerEventPublisher emits structured answer events for downstream
// ops automation. Publishing is best-effort.
type AnswerEventPublisher interface {
	PublishAnswer(ctx context.Context, event domain.AnswerEvent) error
}

// SessionStore persists caller-owned conversation history per session.
type SessionStore interface {
	EnsureSession(ctx context.Context, sessionID string) error
	AppendTurn(ctx context.Context, sessionID string, turn domain.ConversationTurn) error
	RecentTurns(ctx context.Context, sessionID string, limit int) (domain.History, error)
}
