package evaluation

import (
	"context"
	"log/slog"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/core/ports"
	"github.com/mbaranov/ops-support-assistant/internal/core/usecase"
)

// Runner replays the golden dataset through the live pipeline and
// accumulates quality metrics.
type Runner struct {
	classifier ports.IntentClassifier
	router     ports.QueryRouter
	generator  ports.AnswerGenerator
	judge      ports.AnswerJudge
	logger     *slog.Logger
}

func NewRunner(
	classifier ports.IntentClassifier,
	router ports.QueryRouter,
	generator ports.AnswerGenerator,
	judge ports.AnswerJudge,
	logger *slog.Logger,
) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		classifier: classifier,
		router:     router,
		generator:  generator,
		judge:      judge,
		logger:     logger,
	}
}

// Run evaluates every case. Retrieval and generation errors fail the
// run; judge errors only skip the judged portion of a case.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Metrics, error) {
	metrics := &Metrics{}

	for _, c := range cases {
		metrics.Total++

		intent, err := r.classifier.Classify(ctx, c.Query)
		if err != nil {
			return nil, err
		}
		if string(intent) == c.ExpectedIntent {
			metrics.IntentCorrect++
		}

		// Out-of-scope cases only check the guardrail: retrieval and
		// the judge never run for them.
		if c.IsOutOfScope {
			metrics.GuardrailTotal++
			if intent == domain.IntentGeneralQuestion {
				metrics.GuardrailCorrect++
			}
			continue
		}

		docs, err := r.router.Route(ctx, c.Query, intent, "")
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			continue
		}

		sourceTypes := collectSourceTypes(docs)
		services := collectServices(docs)
		retrievedRefs := toSet(usecase.ExtractReferenceIDs(docs))

		if c.ExpectedPrimarySource != "" && sourceTypes[c.ExpectedPrimarySource] {
			metrics.PrimarySourceCorrect++
		}
		if anyIn(c.AcceptableSources, sourceTypes) {
			metrics.AcceptableSourceCorrect++
		}
		if anyIn(c.ExpectedServices, services) {
			metrics.ServiceMatch++
		}
		if len(c.ExpectedReferenceIDs) == 0 || anyIn(c.ExpectedReferenceIDs, retrievedRefs) {
			metrics.ReferenceRecallHits++
		}

		r.judgeCase(ctx, c, docs, metrics)
	}

	return metrics, nil
}

func (r *Runner) judgeCase(ctx context.Context, c Case, docs []domain.Document, metrics *Metrics) {
	contextBlock := usecase.BuildContext(docs)

	answer, err := r.generator.GenerateAnswer(ctx, c.Query, contextBlock, "")
	if err != nil {
		r.logger.Warn("judge_skipped", "query", c.Query, "error", err)
		return
	}

	verdict, err := r.judge.JudgeAnswer(ctx, c.Query, contextBlock, answer)
	if err != nil {
		r.logger.Warn("judge_skipped", "query", c.Query, "error", err)
		return
	}

	metrics.JudgeRuns++
	if verdict.Grounded {
		metrics.JudgeGrounded++
	}
	if verdict.UsefulSteps {
		metrics.JudgeUseful++
	}
	if verdict.Hallucination {
		metrics.JudgeHallucinations++
	}
	metrics.JudgeScoreSum += verdict.OverallScore
}

func collectSourceTypes(docs []domain.Document) map[string]bool {
	out := make(map[string]bool, len(docs))
	for _, doc := range docs {
		out[string(doc.SourceType)] = true
	}
	return out
}

func collectServices(docs []domain.Document) map[string]bool {
	out := make(map[string]bool, len(docs))
	for _, doc := range docs {
		out[doc.Service] = true
	}
	return out
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

func anyIn(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}
