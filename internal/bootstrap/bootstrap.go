package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mbaranov/ops-support-assistant/internal/config"
	"github.com/mbaranov/ops-support-assistant/internal/core/ports"
	"github.com/mbaranov/ops-support-assistant/internal/core/usecase"
	"github.com/mbaranov/ops-support-assistant/internal/evaluation"
	"github.com/mbaranov/ops-support-assistant/internal/infrastructure/llm/ollama"
	"github.com/mbaranov/ops-support-assistant/internal/infrastructure/queue/nats"
	"github.com/mbaranov/ops-support-assistant/internal/infrastructure/repository/memory"
	"github.com/mbaranov/ops-support-assistant/internal/infrastructure/repository/postgres"
	"github.com/mbaranov/ops-support-assistant/internal/infrastructure/resilience"
	"github.com/mbaranov/ops-support-assistant/internal/infrastructure/vector/qdrant"
	"github.com/mbaranov/ops-support-assistant/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Classifier ports.IntentClassifier
	Router     ports.QueryRouter
	Answers    ports.AnswerService
	Reports    ports.ReportService
	Sessions   ports.SessionStore
	Events     ports.AnswerEventPublisher
	Metrics    *metrics.AssistantMetrics
	EvalRunner *evaluation.Runner

	closeFn func()
}

// Options toggles the optional collaborators. Without Postgres the
// session store falls back to an in-memory one; without NATS answer
// events are not published.
type Options struct {
	PostgresSessions bool
	Events           bool
}

func New(ctx context.Context, cfg config.Config, opts Options, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	ollamaClient := ollama.NewWithExecutor(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	classifierModel := ollama.NewClassifier(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)
	embedder := ollama.NewEmbedder(ollamaClient)
	reporter := ollama.NewReporter(ollamaClient)
	judge := ollama.NewJudge(ollamaClient)

	retriever := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, embedder)

	classifyUC := usecase.NewClassifyUseCase(classifierModel)
	routerUC := usecase.NewRouterUseCase(retriever, cfg.ScoreThreshold)
	answerUC := usecase.NewAnswerUseCase(classifyUC, routerUC, generator)
	reportUC := usecase.NewReportUseCase(reporter)

	app := &App{
		Config:     cfg,
		Classifier: classifyUC,
		Router:     routerUC,
		Answers:    answerUC,
		Reports:    reportUC,
		Metrics:    metrics.New(),
		EvalRunner: evaluation.NewRunner(classifyUC, routerUC, generator, judge, logger),
	}

	var cleanup []func()

	if opts.PostgresSessions {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sessions := postgres.NewSessionRepository(db)
		if err := sessions.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure session schema: %w", err)
		}
		app.Sessions = sessions
		cleanup = append(cleanup, func() { _ = db.Close() })
	} else {
		app.Sessions = memory.NewSessionStore()
	}

	if opts.Events && cfg.NATSURL != "" {
		publisher, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			for _, fn := range cleanup {
				fn()
			}
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		app.Events = publisher
		cleanup = append(cleanup, publisher.Close)
	}

	app.closeFn = func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}
	return app, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
