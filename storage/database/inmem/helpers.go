package inmemdb

import (
	"sort"
	"strings"

	"github.com/tailcraft/avialearn/core"
)

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// paginate slices one page out of the full match set and returns it with the
// total match count.
func paginate[T any](items []T, page core.ListParams) ([]T, int) {
	page.Clean()
	total := len(items)
	start := page.Offset()
	if start >= total {
		return []T{}, total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return items[start:end], total
}

// orderBy sorts items by the first recognized ordering directive; less maps a
// field name to a comparator, nil for unknown fields. Falls back to defaultLess.
func orderBy[T any](items []T, ordering []core.DBOrdering, less func(field string) func(a, b T) bool, defaultLess func(a, b T) bool) {
	for _, ord := range ordering {
		cmp := less(ord.Field)
		if cmp == nil {
			continue
		}
		if ord.Ascending {
			sort.SliceStable(items, func(i, j int) bool { return cmp(items[i], items[j]) })
		} else {
			sort.SliceStable(items, func(i, j int) bool { return cmp(items[j], items[i]) })
		}
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return defaultLess(items[i], items[j]) })
}
