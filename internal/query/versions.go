package query

import (
	"slices"

	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

// SortByVersion orders revisions ascending by modified (created when unversioned).
// Ties keep their input order.
func SortByVersion(history []*stix.Object) []*stix.Object {
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b *stix.Object) int {
		return a.VersionTime().Compare(b.VersionTime())
	})
	return sorted
}

// ResolveVersions picks the revisions of one identity selected by the
// match[version] tokens. With no tokens only the latest revision survives.
// A timestamp token selects the revisions whose version string equals it
// character for character. Unrecognised tokens select nothing.
func ResolveVersions(history []*stix.Object, tokens []string) []*stix.Object {
	if len(history) == 0 {
		return nil
	}

	sorted := SortByVersion(history)
	last := len(sorted) - 1

	if len(tokens) == 0 {
		return sorted[last:]
	}
	if slices.Contains(tokens, VersionAll) {
		return sorted
	}

	selected := make([]bool, len(sorted))
	for _, tok := range tokens {
		switch tok {
		case VersionFirst:
			selected[0] = true
		case VersionLast:
			selected[last] = true
		default:
			for i, obj := range sorted {
				if obj.Version() == tok {
					selected[i] = true
				}
			}
		}
	}

	result := make([]*stix.Object, 0, len(sorted))
	for i, obj := range sorted {
		if selected[i] {
			result = append(result, obj)
		}
	}
	return result
}
