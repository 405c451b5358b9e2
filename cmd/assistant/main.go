package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mbaranov/ops-support-assistant/internal/bootstrap"
	"github.com/mbaranov/ops-support-assistant/internal/config"
	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/core/usecase"
	"github.com/mbaranov/ops-support-assistant/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("support-assistant", "warn")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{}, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	fmt.Println("Ops Support Assistant")
	fmt.Println("Type 'exit' to quit.")
	fmt.Println()

	var history domain.History
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("Your question: ")
		if !scanner.Scan() {
			fmt.Println("\nExiting assistant.")
			return
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if q := strings.ToLower(query); q == "exit" || q == "quit" {
			fmt.Println("Exiting assistant.")
			return
		}

		intent, err := app.Classifier.Classify(ctx, query)
		if err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}
		if intent == domain.IntentGeneralQuestion {
			fmt.Println("\n" + usecase.OutOfScopeMessage)
			fmt.Println()
			continue
		}

		answer, err := app.Answers.Generate(ctx, query, history.Format(), "")
		if err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}

		if answer.Retrieved == 0 {
			fmt.Println("\n" + answer.Text)
			fmt.Println()
			continue
		}

		report, err := app.Reports.Build(ctx, answer.Text, answer.References)
		if err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}
		printReport(report)

		history = append(history, domain.ConversationTurn{
			User:      query,
			Assistant: answer.Text,
			CreatedAt: time.Now().UTC(),
		})
	}
}

func printReport(report domain.SupportReport) {
	line := strings.Repeat("=", 60)
	fmt.Println("\n" + line)
	fmt.Println("OPS SUPPORT RESPONSE")
	fmt.Println(line)

	fmt.Printf("\nIssue Summary:\n%s\n", report.IssueSummary)
	fmt.Printf("\nImpacted Service: %s\n", report.ImpactedService)

	fmt.Println("\nRecommended Steps:")
	for i, step := range report.RecommendedSteps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}

	fmt.Printf("\nEscalation Required: %v\n", report.EscalationRequired)
	fmt.Printf("Confidence: %s\n", report.Confidence)

	if len(report.ReferenceDocs) > 0 {
		fmt.Println("\nReference IDs:")
		for _, rid := range report.ReferenceDocs {
			fmt.Printf("  - %s\n", rid)
		}
	}

	fmt.Println(line)
	fmt.Println()
}
