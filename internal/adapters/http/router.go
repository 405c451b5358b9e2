package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/core/ports"
	"github.com/mbaranov/ops-support-assistant/internal/core/usecase"
	"github.com/mbaranov/ops-support-assistant/internal/observability/metrics"
)

type Router struct {
	classifier ports.IntentClassifier
	answers    ports.AnswerService
	reports    ports.ReportService
	sessions   ports.SessionStore
	events     ports.AnswerEventPublisher
	metrics    *metrics.AssistantMetrics

	rateLimitRPS   float64
	rateLimitBurst int
}

type RouterOption func(*Router)

func WithTrafficLimits(rps float64, burst int) RouterOption {
	return func(rt *Router) {
		rt.rateLimitRPS = rps
		rt.rateLimitBurst = burst
	}
}

func NewRouter(
	classifier ports.IntentClassifier,
	answers ports.AnswerService,
	reports ports.ReportService,
	sessions ports.SessionStore,
	events ports.AnswerEventPublisher,
	m *metrics.AssistantMetrics,
	opts ...RouterOption,
) *Router {
	rt := &Router{
		classifier: classifier,
		answers:    answers,
		reports:    reports,
		sessions:   sessions,
		events:     events,
		metrics:    m,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/v1/intent", rt.instrument("/v1/intent", http.HandlerFunc(rt.classifyIntent)))
	mux.Handle("/v1/ask", rt.instrument("/v1/ask", http.HandlerFunc(rt.ask)))
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.rateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) instrument(path string, next http.Handler) http.Handler {
	if rt.metrics == nil {
		return next
	}
	return rt.metrics.Middleware(path, next)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) classifyIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	intent, err := rt.classifier.Classify(r.Context(), req.Query)
	if err != nil {
		writeError(w, r, "classify intent", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.ObserveIntent(string(intent))
	}

	writeJSON(w, http.StatusOK, map[string]string{"intent": string(intent)})
}

type askRequest struct {
	Query     string `json:"query"`
	Service   string `json:"service"`
	SessionID string `json:"session_id"`
}

type askResponse struct {
	Intent     domain.Intent         `json:"intent"`
	Answer     string                `json:"answer"`
	References []string              `json:"references"`
	Retrieved  int                   `json:"retrieved"`
	Report     *domain.SupportReport `json:"report,omitempty"`
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	ctx := r.Context()
	start := time.Now()

	intent, err := rt.classifier.Classify(ctx, req.Query)
	if err != nil {
		writeError(w, r, "classify intent", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.ObserveIntent(string(intent))
	}

	// General questions never reach retrieval or generation.
	if intent == domain.IntentGeneralQuestion {
		writeJSON(w, http.StatusOK, askResponse{
			Intent:     intent,
			Answer:     usecase.OutOfScopeMessage,
			References: []string{},
		})
		return
	}

	history := domain.History{}
	if req.SessionID != "" && rt.sessions != nil {
		if err := rt.sessions.EnsureSession(ctx, req.SessionID); err != nil {
			writeError(w, r, "ensure session", err)
			return
		}
		history, err = rt.sessions.RecentTurns(ctx, req.SessionID, domain.HistoryTurnLimit)
		if err != nil {
			writeError(w, r, "load history", err)
			return
		}
	}

	answer, err := rt.answers.Generate(ctx, req.Query, history.Format(), req.Service)
	if err != nil {
		writeError(w, r, "generate answer", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.ObserveRetrieval(answer.Retrieved > 0)
		rt.metrics.ObserveAnswerDuration(time.Since(start))
	}

	resp := askResponse{
		Intent:     answer.Intent,
		Answer:     answer.Text,
		References: answer.References,
		Retrieved:  answer.Retrieved,
	}

	if answer.Retrieved > 0 {
		report, err := rt.reports.Build(ctx, answer.Text, answer.References)
		if err != nil {
			writeError(w, r, "build report", err)
			return
		}
		resp.Report = &report
		rt.publishAnswer(r, req, answer, report)
	}

	if req.SessionID != "" && rt.sessions != nil {
		turn := domain.ConversationTurn{
			User:      req.Query,
			Assistant: answer.Text,
			CreatedAt: time.Now().UTC(),
		}
		if err := rt.sessions.AppendTurn(ctx, req.SessionID, turn); err != nil {
			slog.Warn("append_turn_failed",
				"request_id", requestIDFromContext(ctx),
				"session_id", req.SessionID,
				"error", err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// publishAnswer emits the answer event best-effort: a broker outage must
// not fail the request.
func (rt *Router) publishAnswer(r *http.Request, req askRequest, answer *domain.Answer, report domain.SupportReport) {
	if rt.events == nil {
		return
	}
	event := domain.AnswerEvent{
		EventID:   uuid.NewString(),
		SessionID: req.SessionID,
		Query:     req.Query,
		Intent:    answer.Intent,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
	if err := rt.events.PublishAnswer(r.Context(), event); err != nil {
		slog.Warn("publish_answer_failed",
			"request_id", requestIDFromContext(r.Context()),
			"event_id", event.EventID,
			"error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"op", op,
			"error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
