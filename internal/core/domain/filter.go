package domain

// Metadata field names shared between the filter builder and the vector
// index adapter.
const (
	FieldSourceType    = "source_type"
	FieldService       = "service"
	FieldPriorityOrder = "priority_order"
)

type FilterOp string

const (
	OpEquals      FilterOp = "eq"
	OpLessOrEqual FilterOp = "lte"
)

// FilterCondition is one declarative constraint on document metadata.
// The index adapter translates it to the concrete search DSL.
type FilterCondition struct {
	Field string
	Op    FilterOp
	Value any
}

// MetadataFilter narrows a similarity search to a document subset.
// Built fresh per retrieval call, never persisted.
type MetadataFilter struct {
	Conditions []FilterCondition
}

func (f MetadataFilter) IsEmpty() bool {
	return len(f.Conditions) == 0
}

// NewMetadataFilter builds a filter from the optional constraints.
// Absent inputs are omitted entirely rather than emitted as nulls: the
// index must distinguish "no constraint" from "must equal null".
//
// A service equal to the literal "unknown" is treated as absent so that
// documents whose service could not be extracted at ingestion time do
// not over-constrain the search. maxPriority, when positive, means
// "this source type or anything more authoritative" and is encoded as a
// less-than-or-equal range, not an equality.
func NewMetadataFilter(sourceType SourceType, service string, maxPriority int) MetadataFilter {
	var f MetadataFilter

	if sourceType != "" {
		f.Conditions = append(f.Conditions, FilterCondition{
			Field: FieldSourceType,
			Op:    OpEquals,
			Value: string(sourceType),
		})
	}
	if service != "" && service != "unknown" {
		f.Conditions = append(f.Conditions, FilterCondition{
			Field: FieldService,
			Op:    OpEquals,
			Value: service,
		})
	}
	if maxPriority > 0 {
		f.Conditions = append(f.Conditions, FilterCondition{
			Field: FieldPriorityOrder,
			Op:    OpLessOrEqual,
			Value: maxPriority,
		})
	}
	return f
}
