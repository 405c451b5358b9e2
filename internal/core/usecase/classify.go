package usecase

import (
	"context"
	"fmt"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/core/ports"
)

// ClassifyUseCase maps a free-text query onto the closed intent set.
// The model picks the label; the guardrail against label drift lives
// here. Collaborator failures propagate uncaught, no retries.
type ClassifyUseCase struct {
	model ports.IntentModel
}

func NewClassifyUseCase(model ports.IntentModel) *ClassifyUseCase {
	return &ClassifyUseCase{model: model}
}

func (uc *ClassifyUseCase) Classify(ctx context.Context, query string) (domain.Intent, error) {
	raw, err := uc.model.LabelIntent(ctx, query)
	if err != nil {
		return "", fmt.Errorf("label intent: %w", err)
	}
	return domain.ParseIntent(raw), nil
}
