package evaluation

import (
	"fmt"
	"strings"
)

// Metrics accumulates per-case outcomes into the run summary.
type Metrics struct {
	Total                   int
	IntentCorrect           int
	PrimarySourceCorrect    int
	AcceptableSourceCorrect int
	ServiceMatch            int
	ReferenceRecallHits     int
	GuardrailCorrect        int
	GuardrailTotal          int
	JudgeRuns               int
	JudgeGrounded           int
	JudgeUseful             int
	JudgeHallucinations     int
	JudgeScoreSum           int
}

func pct(x, y int) float64 {
	if y == 0 {
		return 0
	}
	return 100 * float64(x) / float64(y)
}

// Report renders the run summary.
func (m *Metrics) Report() string {
	avgScore := 0.0
	if m.JudgeRuns > 0 {
		avgScore = float64(m.JudgeScoreSum) / float64(m.JudgeRuns)
	}

	var b strings.Builder
	line := strings.Repeat("=", 60)
	b.WriteString(line + "\n")
	b.WriteString("EVALUATION SUMMARY\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Total Cases: %d\n", m.Total)
	fmt.Fprintf(&b, "Intent Accuracy: %.2f%%\n", pct(m.IntentCorrect, m.Total))
	fmt.Fprintf(&b, "Primary Source Accuracy: %.2f%%\n", pct(m.PrimarySourceCorrect, m.Total))
	fmt.Fprintf(&b, "Acceptable Source Accuracy: %.2f%%\n", pct(m.AcceptableSourceCorrect, m.Total))
	fmt.Fprintf(&b, "Service Match Rate: %.2f%%\n", pct(m.ServiceMatch, m.Total))
	fmt.Fprintf(&b, "Reference Recall: %.2f%%\n", pct(m.ReferenceRecallHits, m.Total))
	fmt.Fprintf(&b, "Guardrail Accuracy: %.2f%%\n", pct(m.GuardrailCorrect, m.GuardrailTotal))
	fmt.Fprintf(&b, "Grounded Rate: %.2f%%\n", pct(m.JudgeGrounded, m.JudgeRuns))
	fmt.Fprintf(&b, "Useful Steps Rate: %.2f%%\n", pct(m.JudgeUseful, m.JudgeRuns))
	fmt.Fprintf(&b, "Hallucination Rate: %.2f%%\n", pct(m.JudgeHallucinations, m.JudgeRuns))
	fmt.Fprintf(&b, "Avg Judge Score: %.2f\n", avgScore)
	b.WriteString(line + "\n")
	return b.String()
}
