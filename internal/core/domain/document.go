package domain

// SourceType identifies the corpus a document chunk originated from.
type SourceType string

const (
	SourceRunbook  SourceType = "runbook"
	SourceIncident SourceType = "incident"
	SourceAlert    SourceType = "alert"
	SourceTicket   SourceType = "ticket"
	SourceLog      SourceType = "log"
	SourceUnknown  SourceType = "unknown"
)

// Priority returns the authority rank of a source type, lower is more
// authoritative. Unknown sources rank below everything else.
func (s SourceType) Priority() int {
	switch s {
	case SourceRunbook:
		return 1
	case SourceAlert:
		return 2
	case SourceIncident:
		return 3
	case SourceTicket:
		return 4
	case SourceLog:
		return 5
	default:
		return 6
	}
}

// Document is one retrieved chunk plus the metadata written at ingestion
// time. The core reads metadata, it never writes it.
type Document struct {
	Text          string     `json:"text"`
	Source        string     `json:"source"`
	SourceType    SourceType `json:"source_type"`
	Service       string     `json:"service"`
	PriorityOrder int        `json:"priority_order"`
	Score         float64    `json:"score"`
}
