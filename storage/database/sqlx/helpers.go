// Package sqlxrepos is the PostgreSQL storage backend, built on sqlx.
package sqlxrepos

import (
	"fmt"
	"strings"

	"github.com/tailcraft/avialearn/core"
)

// argList collects positional query arguments and hands out their placeholders.
type argList []interface{}

func (a *argList) add(v interface{}) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// orderClause renders an ORDER BY from the first recognized ordering directive;
// unknown fields are skipped so callers cannot inject arbitrary SQL.
func orderClause(ordering []core.DBOrdering, allowed map[string]bool, fallback string) string {
	for _, ord := range ordering {
		if allowed[ord.Field] {
			return "ORDER BY " + ord.String()
		}
	}
	return "ORDER BY " + fallback
}

func limitOffset(args *argList, page core.ListParams) string {
	page.Clean()
	return fmt.Sprintf("LIMIT %s OFFSET %s", args.add(page.Limit), args.add(page.Offset()))
}

func joinSets(sets []string) string {
	return strings.Join(sets, ", ")
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}
