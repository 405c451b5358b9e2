package ollama

import "fmt"

const intentInstructions = `You are an intent classifier for an L2 production support assistant.
Classify the user's query into EXACTLY ONE of these intents:

runbook_lookup: user wants remediation steps, SOP, checklist, or how to fix an issue.
incident_analysis: user asks what happened, why it failed, or requests incident/root cause analysis.
log_analysis: user provides logs or asks to interpret errors, stack traces, or log messages.
alert_investigation: user mentions alerts, monitoring warnings, spikes, or threshold breaches.
ticket_investigation: user refers to support tickets, SRs, user-reported problems, or service requests.
general_question: anything unrelated to production support (weather, time, greetings, general knowledge).

BIAS RULE: if the query contains production/infra terms such as
disk, cpu, memory, mq, queue, database, db, latency, timeout, kubernetes,
pod, service down, error, failure, trade, payment, settlement, risk engine,
eod, batch, alert, ticket, SR
it is very likely an L2 support query. When unsure between general_question
and any ops intent, prefer the ops intent.

Examples:
Query: eod reconciliation failure steps
Intent: runbook_lookup

Query: why did swift processing fail yesterday
Intent: incident_analysis

Query: analyze this error from trade service logs
Intent: log_analysis

Query: critical alert trade settlement queue depth high
Intent: alert_investigation

Query: SR-Trade-003 users reporting payment timeouts
Intent: ticket_investigation

Query: what is the date today
Intent: general_question

Return ONLY the intent label, nothing else.`

func buildIntentPrompt(query string) string {
	return fmt.Sprintf("%s\n\nQuery: %s\nIntent:", intentInstructions, query)
}

func buildAnswerPrompt(query, contextBlock, history string) string {
	return fmt.Sprintf(`You are a senior L2 production support assistant.
Rules:
- Answer ONLY using the provided context.
- If runbook steps exist, give step-by-step actions as bullet points.
- Be concise and actionable.
- If the context does not contain relevant information, say so directly.

Conversation History:
%s

User Question:
%s

Context:
%s

Provide the best support response.`, history, query, contextBlock)
}

func buildReportPrompt(answer string) string {
	return fmt.Sprintf(`You are a senior production support assistant.
Convert the provided answer into a strict JSON object with keys:
issue_summary (string), impacted_service (string),
recommended_steps (array of strings), escalation_required (boolean),
confidence (one of "low", "medium", "high"),
reference_docs (array of strings).
Rules:
- Be faithful to the answer, do NOT invent steps.
- escalation_required = true if the issue seems critical.
No markdown, no extra keys.

Original Answer:
%s`, answer)
}

func buildJudgePrompt(query, contextBlock, answer string) string {
	return fmt.Sprintf(`You are a strict senior SRE evaluating an AI support assistant.
Evaluate the answer using only the provided context and return a strict
JSON object with keys:
grounded (boolean, true only if the answer is supported by the context),
useful_steps (boolean, true only if steps are practical for L2 ops),
hallucination (boolean, true if any info is not in the context),
overall_score (integer from 1 to 5).
Be strict and objective. No markdown, no extra keys.

User Query:
%s

Retrieved Context:
%s

Assistant Answer:
%s`, query, contextBlock, answer)
}
