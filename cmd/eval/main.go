package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mbaranov/ops-support-assistant/internal/bootstrap"
	"github.com/mbaranov/ops-support-assistant/internal/config"
	"github.com/mbaranov/ops-support-assistant/internal/evaluation"
	"github.com/mbaranov/ops-support-assistant/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("support-eval", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cases, err := evaluation.LoadDataset(cfg.EvalDatasetPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{}, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	logger.Info("evaluation started", "cases", len(cases), "dataset", cfg.EvalDatasetPath)

	metrics, err := app.EvalRunner.Run(ctx, cases)
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}

	fmt.Print(metrics.Report())
}
