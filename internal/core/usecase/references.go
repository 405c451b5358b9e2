package usecase

import (
	"path"
	"sort"
	"strings"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

// ExtractReferenceIDs derives the de-duplicated, sorted list of source
// identifiers from a batch of retrieved documents. Fully deterministic
// and independent of any model output: generation-time hallucination can
// never influence it. Documents with missing or null-like source
// metadata are silently excluded.
func ExtractReferenceIDs(docs []domain.Document) []string {
	seen := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		src := strings.TrimSpace(doc.Source)
		if isNullLike(src) {
			continue
		}

		name := path.Base(src)
		if isNullLike(name) || name == "." || name == "/" {
			continue
		}
		seen[name] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func isNullLike(s string) bool {
	switch strings.ToLower(s) {
	case "", "none", "null":
		return true
	default:
		return false
	}
}
