// Package ollama adapts a local Ollama server to the language-model
// ports: intent labeling, answer generation, structured report and
// judge output, and query embedding.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, genModel, embedModel string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewWithExecutor wraps every model call in the given retry/breaker
// executor. Resilience stays inside the adapter; the core never retries.
func NewWithExecutor(baseURL, genModel, embedModel string, executor *resilience.Executor) *Client {
	c := New(baseURL, genModel, embedModel)
	c.executor = executor
	return c
}

// Classifier implements ports.IntentModel. It returns the raw label;
// normalization and the drift guardrail belong to the core.
type Classifier struct {
	client *Client
}

func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) LabelIntent(ctx context.Context, query string) (string, error) {
	return c.client.generateText(ctx, "intent", buildIntentPrompt(query))
}

// Generator implements ports.AnswerGenerator.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateAnswer(ctx context.Context, query, contextBlock, history string) (string, error) {
	return g.client.generateText(ctx, "answer", buildAnswerPrompt(query, contextBlock, history))
}

// Embedder implements ports.Embedder.
type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	request := map[string]any{
		"model": e.client.embedModel,
		"input": []string{text},
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := e.client.call(ctx, "embed", request, "/api/embed", &response); err != nil {
		return nil, err
	}
	if len(response.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return response.Embeddings[0], nil
}

// Reporter implements ports.ReportModel.
type Reporter struct {
	client *Client
}

func NewReporter(client *Client) *Reporter {
	return &Reporter{client: client}
}

func (r *Reporter) BuildReport(ctx context.Context, answer string) (domain.SupportReport, error) {
	respText, err := r.client.generateJSON(ctx, "report", buildReportPrompt(answer))
	if err != nil {
		return domain.SupportReport{}, err
	}

	var report domain.SupportReport
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &report); err != nil {
		return domain.SupportReport{}, fmt.Errorf("parse report json: %w", err)
	}
	if report.RecommendedSteps == nil {
		report.RecommendedSteps = []string{}
	}
	return report, nil
}

// Judge implements ports.AnswerJudge.
type Judge struct {
	client *Client
}

func NewJudge(client *Client) *Judge {
	return &Judge{client: client}
}

func (j *Judge) JudgeAnswer(ctx context.Context, query, contextBlock, answer string) (domain.JudgeVerdict, error) {
	respText, err := j.client.generateJSON(ctx, "judge", buildJudgePrompt(query, contextBlock, answer))
	if err != nil {
		return domain.JudgeVerdict{}, err
	}

	var verdict domain.JudgeVerdict
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &verdict); err != nil {
		return domain.JudgeVerdict{}, fmt.Errorf("parse judge json: %w", err)
	}
	return verdict, nil
}

func (c *Client) generateText(ctx context.Context, operation, prompt string) (string, error) {
	return c.generate(ctx, operation, map[string]any{
		"model":  c.genModel,
		"prompt": prompt,
		"stream": false,
	})
}

func (c *Client) generateJSON(ctx context.Context, operation, prompt string) (string, error) {
	return c.generate(ctx, operation, map[string]any{
		"model":  c.genModel,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	})
}

func (c *Client) generate(ctx context.Context, operation string, reqBody map[string]any) (string, error) {
	var response struct {
		Response string `json:"response"`
	}
	if err := c.call(ctx, operation, reqBody, "/api/generate", &response); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func (c *Client) call(ctx context.Context, operation string, payload any, path string, out any) error {
	do := func(ctx context.Context) error {
		return c.postJSON(ctx, path, payload, out, operation)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama."+operation, do, classifyModelError)
	} else {
		err = do(ctx)
	}
	return wrapTemporaryIfNeeded(operation, err)
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
