package usecase

import (
	"context"
	"fmt"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/core/ports"
)

// ReportUseCase turns a free-text answer into a structured support
// report. Reference docs are always overwritten with the deterministic
// IDs: the model never gets to guess what was cited.
type ReportUseCase struct {
	model ports.ReportModel
}

func NewReportUseCase(model ports.ReportModel) *ReportUseCase {
	return &ReportUseCase{model: model}
}

func (uc *ReportUseCase) Build(ctx context.Context, answerText string, referenceIDs []string) (domain.SupportReport, error) {
	report, err := uc.model.BuildReport(ctx, answerText)
	if err != nil {
		return domain.SupportReport{}, fmt.Errorf("build report: %w", err)
	}

	report.Confidence = domain.ParseConfidence(report.Confidence)
	if report.RecommendedSteps == nil {
		report.RecommendedSteps = []string{}
	}
	report.ReferenceDocs = append([]string{}, referenceIDs...)
	return report, nil
}
