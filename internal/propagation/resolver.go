package propagation

import (
	"context"
	"sort"

	"sceneflow/internal/store"
)

// dependencyGraph maps each tracked entity kind to the relational path from a
// changed record to the scenes it invalidates. Every chain ends at scene ids.
//
// Profile and world-rule changes scope an entire project's content, so their
// chains fan out through the project on purpose: over-invalidation is safe,
// under-invalidation is the bug class this table exists to prevent. The two
// share the project -> episodes -> scenes tail; they stay separate entries so
// their scopes can diverge later without touching the traversal code.
var dependencyGraph = map[string][]store.Hop{
	store.TableCharacters: {
		{Table: "scene_characters", Match: "character_id", Select: "scene_id"},
	},
	store.TableStoryArcs: {
		{Table: "scene_story_arcs", Match: "story_arc_id", Select: "scene_id"},
	},
	store.TableEpisodes: {
		{Table: "scenes", Match: "episode_id", Select: "id"},
	},
	// Self-edge, expressed as a lookup so a scene deleted after the change
	// was logged resolves to nothing instead of a dangling job.
	store.TableScenes: {
		{Table: "scenes", Match: "id", Select: "id"},
	},
	store.TableProductionProfiles: {
		{Table: "projects", Match: "production_profile_id", Select: "id"},
		{Table: "episodes", Match: "project_id", Select: "id"},
		{Table: "scenes", Match: "episode_id", Select: "id"},
	},
	store.TableWorldRules: {
		{Table: "world_rules", Match: "id", Select: "project_id"},
		{Table: "episodes", Match: "project_id", Select: "id"},
		{Table: "scenes", Match: "episode_id", Select: "id"},
	},
}

// TrackedTables returns the entity table names the resolver knows how to fan
// out, sorted for stable display.
func TrackedTables() []string {
	tables := make([]string, 0, len(dependencyGraph))
	for table := range dependencyGraph {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// Resolver computes change fan-out against the catalog.
type Resolver struct {
	store *store.Store
}

// NewResolver constructs a resolver over the given store.
func NewResolver(st *store.Store) *Resolver {
	return &Resolver{store: st}
}

// AffectedScenes returns the sorted distinct scene ids invalidated by a
// change to the given entity record. It performs read-only queries and is
// deterministic for a fixed catalog state.
//
// Unknown table names resolve to the empty set rather than an error: an
// entity kind not yet wired into the dependency graph has no known fan-out,
// which is not a fatal condition. Dangling record ids behave the same way
// because their first hop matches zero rows.
func (r *Resolver) AffectedScenes(ctx context.Context, tableName, recordID string) ([]int64, error) {
	hops, ok := dependencyGraph[tableName]
	if !ok {
		return nil, nil
	}
	return r.store.FollowHops(ctx, hops, recordID)
}
