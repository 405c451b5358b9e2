package usecase

import (
	"context"
	"fmt"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/core/ports"
)

// Per-step fetch size of the runbook-first cascade.
const cascadeTopK = 3

// RouterUseCase decides which document subset to search for a given
// intent, and in what order. Exactly one branch executes per call; the
// router itself performs no retries and never merges sources.
type RouterUseCase struct {
	retriever ports.DocumentRetriever
	threshold float64
}

// NewRouterUseCase builds a router. threshold is the minimum similarity
// score applied only to broad, unfiltered searches.
func NewRouterUseCase(retriever ports.DocumentRetriever, threshold float64) *RouterUseCase {
	return &RouterUseCase{
		retriever: retriever,
		threshold: threshold,
	}
}

func (uc *RouterUseCase) Route(
	ctx context.Context,
	query string,
	intent domain.Intent,
	service string,
) ([]domain.Document, error) {
	switch intent {
	case domain.IntentRunbookLookup:
		return uc.routeRunbookFirst(ctx, query, service)

	case domain.IntentIncidentAnalysis:
		return uc.search(ctx, query, domain.SourceIncident, service, 0)

	case domain.IntentLogAnalysis:
		return uc.search(ctx, query, domain.SourceLog, service, 0)

	default:
		// Broad catch-all: alert/ticket investigations and anything
		// else search every source, constrained by service when known.
		return uc.routeBroad(ctx, query, service)
	}
}

// routeRunbookFirst is the cascading fallback chain:
// runbooks, then alerts, then incidents, stopping at the first
// non-empty result. The incident step is terminal and its result is
// returned even when empty; tickets and logs are never consulted here,
// they are reachable only through their own intents or the broad branch.
func (uc *RouterUseCase) routeRunbookFirst(ctx context.Context, query, service string) ([]domain.Document, error) {
	docs, err := uc.search(ctx, query, domain.SourceRunbook, service, cascadeTopK)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		return docs, nil
	}

	docs, err = uc.search(ctx, query, domain.SourceAlert, service, cascadeTopK)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		return docs, nil
	}

	return uc.search(ctx, query, domain.SourceIncident, service, cascadeTopK)
}

func (uc *RouterUseCase) routeBroad(ctx context.Context, query, service string) ([]domain.Document, error) {
	filter := domain.NewMetadataFilter("", service, 0)
	if filter.IsEmpty() {
		// Nothing narrows the candidate set, so prune by score instead.
		docs, err := uc.retriever.SearchWithThreshold(ctx, query, uc.threshold, 0)
		if err != nil {
			return nil, fmt.Errorf("broad search: %w", err)
		}
		return docs, nil
	}

	docs, err := uc.retriever.Search(ctx, query, filter, 0)
	if err != nil {
		return nil, fmt.Errorf("broad search: %w", err)
	}
	return docs, nil
}

func (uc *RouterUseCase) search(
	ctx context.Context,
	query string,
	sourceType domain.SourceType,
	service string,
	topK int,
) ([]domain.Document, error) {
	filter := domain.NewMetadataFilter(sourceType, service, 0)
	docs, err := uc.retriever.Search(ctx, query, filter, topK)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", sourceType, err)
	}
	return docs, nil
}
