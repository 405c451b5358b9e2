package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

type classifierFake struct {
	intents map[string]domain.Intent
}

func (f *classifierFake) Classify(_ context.Context, query string) (domain.Intent, error) {
	if intent, ok := f.intents[query]; ok {
		return intent, nil
	}
	return domain.IntentRunbookLookup, nil
}

type routerFake struct {
	docs  map[string][]domain.Document
	calls int
}

func (f *routerFake) Route(_ context.Context, query string, _ domain.Intent, _ string) ([]domain.Document, error) {
	f.calls++
	return f.docs[query], nil
}

type generatorFake struct {
	text string
	err  error
}

func (f *generatorFake) GenerateAnswer(_ context.Context, _, _, _ string) (string, error) {
	return f.text, f.err
}

type judgeFake struct {
	verdict domain.JudgeVerdict
	err     error
	calls   int
}

func (f *judgeFake) JudgeAnswer(_ context.Context, _, _, _ string) (domain.JudgeVerdict, error) {
	f.calls++
	return f.verdict, f.err
}

func runbookDoc(source, service string) domain.Document {
	return domain.Document{
		Text:       "restart the worker",
		Source:     source,
		SourceType: domain.SourceRunbook,
		Service:    service,
	}
}

func TestRunAccumulatesMetrics(t *testing.T) {
	cases := []Case{
		{
			Query:                 "payment worker stuck",
			ExpectedIntent:        "runbook_lookup",
			ExpectedPrimarySource: "runbook",
			AcceptableSources:     []string{"runbook", "incident"},
			ExpectedServices:      []string{"payments"},
			ExpectedReferenceIDs:  []string{"runbook_payments.md"},
		},
	}

	runner := NewRunner(
		&classifierFake{intents: map[string]domain.Intent{"payment worker stuck": domain.IntentRunbookLookup}},
		&routerFake{docs: map[string][]domain.Document{
			"payment worker stuck": {runbookDoc("docs/runbook_payments.md", "payments")},
		}},
		&generatorFake{text: "Restart the payment worker."},
		&judgeFake{verdict: domain.JudgeVerdict{Grounded: true, UsefulSteps: true, OverallScore: 4}},
		nil,
	)

	metrics, err := runner.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if metrics.Total != 1 || metrics.IntentCorrect != 1 {
		t.Fatalf("unexpected intent metrics: %+v", metrics)
	}
	if metrics.PrimarySourceCorrect != 1 || metrics.AcceptableSourceCorrect != 1 {
		t.Fatalf("unexpected source metrics: %+v", metrics)
	}
	if metrics.ServiceMatch != 1 {
		t.Fatalf("expected service match, got %+v", metrics)
	}
	if metrics.ReferenceRecallHits != 1 {
		t.Fatalf("expected reference recall hit, got %+v", metrics)
	}
	if metrics.JudgeRuns != 1 || metrics.JudgeGrounded != 1 || metrics.JudgeScoreSum != 4 {
		t.Fatalf("unexpected judge metrics: %+v", metrics)
	}
}

func TestRunOutOfScopeSkipsRetrievalAndJudge(t *testing.T) {
	cases := []Case{
		{
			Query:          "what is the capital of France?",
			ExpectedIntent: "general_question",
			IsOutOfScope:   true,
		},
	}

	router := &routerFake{}
	judge := &judgeFake{}
	runner := NewRunner(
		&classifierFake{intents: map[string]domain.Intent{
			"what is the capital of France?": domain.IntentGeneralQuestion,
		}},
		router,
		&generatorFake{text: "n/a"},
		judge,
		nil,
	)

	metrics, err := runner.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if metrics.GuardrailTotal != 1 || metrics.GuardrailCorrect != 1 {
		t.Fatalf("unexpected guardrail metrics: %+v", metrics)
	}
	if router.calls != 0 {
		t.Fatalf("expected no retrieval for out-of-scope case, got %d calls", router.calls)
	}
	if judge.calls != 0 {
		t.Fatalf("expected no judge call for out-of-scope case, got %d calls", judge.calls)
	}
}

func TestRunEmptyRetrievalSkipsRemainingSteps(t *testing.T) {
	cases := []Case{
		{Query: "unknown service issue", ExpectedIntent: "runbook_lookup"},
	}

	judge := &judgeFake{}
	runner := NewRunner(
		&classifierFake{},
		&routerFake{},
		&generatorFake{text: "n/a"},
		judge,
		nil,
	)

	metrics, err := runner.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if metrics.Total != 1 || metrics.IntentCorrect != 1 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	if metrics.ReferenceRecallHits != 0 || judge.calls != 0 {
		t.Fatalf("expected empty retrieval to skip recall and judge: %+v", metrics)
	}
}

func TestRunReferenceRecallWithoutExpectedRefsCounts(t *testing.T) {
	cases := []Case{
		{Query: "payment worker stuck", ExpectedIntent: "runbook_lookup"},
	}

	runner := NewRunner(
		&classifierFake{},
		&routerFake{docs: map[string][]domain.Document{
			"payment worker stuck": {runbookDoc("docs/runbook_payments.md", "payments")},
		}},
		&generatorFake{text: "restart"},
		&judgeFake{},
		nil,
	)

	metrics, err := runner.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if metrics.ReferenceRecallHits != 1 {
		t.Fatalf("expected recall hit when no refs are expected, got %+v", metrics)
	}
}

func TestRunJudgeErrorSkipsCaseNotRun(t *testing.T) {
	cases := []Case{
		{Query: "payment worker stuck", ExpectedIntent: "runbook_lookup"},
	}

	runner := NewRunner(
		&classifierFake{},
		&routerFake{docs: map[string][]domain.Document{
			"payment worker stuck": {runbookDoc("docs/runbook_payments.md", "payments")},
		}},
		&generatorFake{text: "restart"},
		&judgeFake{err: errors.New("model unavailable")},
		nil,
	)

	metrics, err := runner.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("expected judge error to be non-fatal, got %v", err)
	}
	if metrics.JudgeRuns != 0 {
		t.Fatalf("expected zero judge runs, got %d", metrics.JudgeRuns)
	}
	if metrics.Total != 1 {
		t.Fatalf("expected case to still be counted, got %+v", metrics)
	}
}

func TestMetricsReport(t *testing.T) {
	m := &Metrics{
		Total:               2,
		IntentCorrect:       1,
		ReferenceRecallHits: 2,
		JudgeRuns:           2,
		JudgeScoreSum:       7,
	}

	report := m.Report()
	if !strings.Contains(report, "Intent Accuracy: 50.00%") {
		t.Fatalf("missing intent accuracy line:\n%s", report)
	}
	if !strings.Contains(report, "Reference Recall: 100.00%") {
		t.Fatalf("missing reference recall line:\n%s", report)
	}
	if !strings.Contains(report, "Avg Judge Score: 3.50") {
		t.Fatalf("missing judge score line:\n%s", report)
	}
	if !strings.Contains(report, "Guardrail Accuracy: 0.00%") {
		t.Fatalf("zero guardrail denominator should render 0.00%%:\n%s", report)
	}
}
