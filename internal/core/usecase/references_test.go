package usecase

import (
	"testing"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

func docWithSource(source string) domain.Document {
	return domain.Document{Source: source, SourceType: domain.SourceRunbook}
}

func TestExtractReferenceIDsBasenameSortedDeduped(t *testing.T) {
	docs := []domain.Document{
		docWithSource("runbooks/disk_spike.txt"),
		docWithSource("incidents/inc_2024_001.md"),
		docWithSource("data/runbooks/disk_spike.txt"),
		docWithSource("alerts/cpu_alert.json"),
	}

	got := ExtractReferenceIDs(docs)
	want := []string{"cpu_alert.json", "disk_spike.txt", "inc_2024_001.md"}
	if len(got) != len(want) {
		t.Fatalf("ExtractReferenceIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExtractReferenceIDs() = %v, want %v", got, want)
		}
	}
}

func TestExtractReferenceIDsOrderIndependent(t *testing.T) {
	base := []domain.Document{
		docWithSource("runbooks/a.txt"),
		docWithSource("runbooks/b.txt"),
		docWithSource("runbooks/c.txt"),
	}
	permuted := []domain.Document{base[2], base[0], base[1]}

	first := ExtractReferenceIDs(base)
	second := ExtractReferenceIDs(permuted)
	if len(first) != len(second) {
		t.Fatalf("permutation changed result: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("permutation changed result: %v vs %v", first, second)
		}
	}
}

func TestExtractReferenceIDsSkipsNullLikeSources(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"lowercase none", "none"},
		{"mixed case none", "None"},
		{"null", "null"},
		{"uppercase null", "NULL"},
		{"null basename", "runbooks/None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractReferenceIDs([]domain.Document{docWithSource(tt.source)})
			if len(got) != 0 {
				t.Fatalf("source %q produced references %v", tt.source, got)
			}
		})
	}
}

func TestExtractReferenceIDsMixedBatch(t *testing.T) {
	docs := []domain.Document{
		docWithSource("runbooks/disk_spike.txt"),
		docWithSource("None"),
		docWithSource(""),
		{SourceType: domain.SourceLog},
	}

	got := ExtractReferenceIDs(docs)
	if len(got) != 1 || got[0] != "disk_spike.txt" {
		t.Fatalf("ExtractReferenceIDs() = %v, want [disk_spike.txt]", got)
	}
}

func TestExtractReferenceIDsIdempotent(t *testing.T) {
	docs := []domain.Document{docWithSource("runbooks/a.txt"), docWithSource("runbooks/b.txt")}

	once := ExtractReferenceIDs(docs)
	twice := ExtractReferenceIDs(docs)
	if len(once) != len(twice) {
		t.Fatalf("repeat call changed result: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("repeat call changed result: %v vs %v", once, twice)
		}
	}
}
