package store

import (
	"context"
	"fmt"
	"sort"
)

// Hop is one relational step in a dependency traversal: collect the distinct
// Select column values from Table for rows whose Match column is in the
// current frontier. Traversals are declared as hop chains by the propagation
// package; identifiers always come from those compiled chains, never from
// callers.
type Hop struct {
	Table  string
	Match  string
	Select string
}

// FollowHops walks a hop chain starting from a single record identifier and
// returns the sorted distinct set of identifiers the final hop selects.
// An empty frontier at any step short-circuits to the empty set, which is how
// dangling references resolve to "no fan-out" without an error.
func (s *Store) FollowHops(ctx context.Context, hops []Hop, start string) ([]int64, error) {
	ctx = ensureContext(ctx)
	if len(hops) == 0 {
		return nil, nil
	}

	frontier := []any{start}
	for _, hop := range hops {
		if len(frontier) == 0 {
			return nil, nil
		}
		query := fmt.Sprintf(
			"SELECT DISTINCT %s FROM %s WHERE %s IN (%s)",
			hop.Select, hop.Table, hop.Match, makePlaceholders(len(frontier)),
		)
		rows, err := s.db.QueryContext(ctx, query, frontier...)
		if err != nil {
			return nil, fmt.Errorf("traverse %s: %w", hop.Table, err)
		}

		var next []any
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s.%s: %w", hop.Table, hop.Select, err)
			}
			next = append(next, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate %s: %w", hop.Table, err)
		}
		rows.Close()
		frontier = next
	}

	ids := make([]int64, 0, len(frontier))
	for _, value := range frontier {
		ids = append(ids, value.(int64))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
