package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/core/ports"
)

// MaxContextDocs bounds how many routed documents reach the prompt.
const MaxContextDocs = 6

// NoResultsMessage is returned when routing finds nothing. It is an
// informational sentinel, distinct from a system failure.
const NoResultsMessage = "No relevant information found in runbooks, incidents, alerts, " +
	"logs, or tickets. Please verify the issue or update the knowledge base."

// OutOfScopeMessage is what front ends answer when a query classifies as
// general_question. Short-circuiting on that intent is a caller
// responsibility; Generate itself always routes.
const OutOfScopeMessage = "I am an L2 production support assistant. " +
	"Please ask questions related to production support issues."

// AnswerUseCase orchestrates classify, route, context assembly and
// generation for one question.
type AnswerUseCase struct {
	classifier ports.IntentClassifier
	router     ports.QueryRouter
	generator  ports.AnswerGenerator
}

func NewAnswerUseCase(
	classifier ports.IntentClassifier,
	router ports.QueryRouter,
	generator ports.AnswerGenerator,
) *AnswerUseCase {
	return &AnswerUseCase{
		classifier: classifier,
		router:     router,
		generator:  generator,
	}
}

func (uc *AnswerUseCase) Generate(ctx context.Context, query, history, service string) (*domain.Answer, error) {
	intent, err := uc.classifier.Classify(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("classify intent: %w", err)
	}

	docs, err := uc.router.Route(ctx, query, intent, service)
	if err != nil {
		return nil, fmt.Errorf("route query: %w", err)
	}

	if len(docs) == 0 {
		// Empty retrieval is not an error and must not reach the
		// generation collaborator.
		return &domain.Answer{
			Intent:     intent,
			Text:       NoResultsMessage,
			References: []string{},
		}, nil
	}

	references := ExtractReferenceIDs(docs)

	text, err := uc.generator.GenerateAnswer(ctx, query, BuildContext(docs), history)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Intent:     intent,
		Text:       text,
		References: references,
		Retrieved:  len(docs),
	}, nil
}

// BuildContext renders ranked documents into the delimited prompt
// context, truncated to MaxContextDocs.
func BuildContext(docs []domain.Document) string {
	if len(docs) == 0 {
		return "No relevant documents found."
	}
	if len(docs) > MaxContextDocs {
		docs = docs[:MaxContextDocs]
	}

	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		sourceType := doc.SourceType
		if sourceType == "" {
			sourceType = domain.SourceUnknown
		}
		service := doc.Service
		if service == "" {
			service = "unknown"
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s\nService: %s\nContent:\n%s", sourceType, service, doc.Text))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
