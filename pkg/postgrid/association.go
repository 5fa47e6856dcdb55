package postgrid

import (
	"context"
	"sync"
)

// AssociationConfig specifies how one level of the project/client/brand
// hierarchy is stored: candidate names for a direct relation property,
// candidate names for a rollup property, and whether many results are
// expected (brands) or just one (project, client).
type AssociationConfig struct {
	RelationNames []string
	RollupNames   []string
	Many          bool
}

// AssociationResolver resolves the association hierarchy of a record. The
// hierarchy may be stored as direct relations, rollups of relations, or
// rollups of text; resolution tries those shapes in that order. When only ids
// are available, display names are resolved through the injected TitleLookup,
// memoized per id through the injected NameCache so each distinct id costs at
// most one lookup per batch.
type AssociationResolver struct {
	lookup TitleLookup
	cache  NameCache
}

// NewAssociationResolver creates a resolver over the given collaborators.
// Both may be nil: a nil lookup leaves id-only references without names, and
// a nil cache is replaced by an unbounded batch-local memo.
func NewAssociationResolver(lookup TitleLookup, cache NameCache) *AssociationResolver {
	if cache == nil {
		cache = newMapCache()
	}
	return &AssociationResolver{lookup: lookup, cache: cache}
}

// Resolve resolves one association level. For the "many" case the result
// preserves first-seen order with exact duplicate (id, name) pairs removed;
// for the single case at most one reference is returned. Missing names
// degrade to empty strings rather than failure.
func (ar *AssociationResolver) Resolve(ctx context.Context, rec *RawRecord, cfg AssociationConfig) []AssociationRef {
	var refs []AssociationRef

	if ref, ok := Resolve(rec, cfg.RelationNames, TagRelation); ok && len(ref.Value.Relations) > 0 {
		for _, id := range ref.Value.Relations {
			refs = append(refs, AssociationRef{ID: id, Name: ar.titleFor(ctx, id)})
		}
	} else if ref, ok := Resolve(rec, cfg.RollupNames, TagRollup); ok {
		ids, names := rollupRefs(ref.Value)
		for _, id := range ids {
			refs = append(refs, AssociationRef{ID: id, Name: ar.titleFor(ctx, id)})
		}
		for _, name := range names {
			refs = append(refs, AssociationRef{Name: name})
		}
	}

	refs = dedupeRefs(refs)
	if !cfg.Many && len(refs) > 1 {
		refs = refs[:1]
	}
	return refs
}

// RelationIDs returns the distinct relation ids one association level would
// need names for, in first-seen order. Used to warm the cache concurrently
// before a batch is normalized.
func (ar *AssociationResolver) RelationIDs(rec *RawRecord, cfg AssociationConfig) []string {
	if ref, ok := Resolve(rec, cfg.RelationNames, TagRelation); ok && len(ref.Value.Relations) > 0 {
		return append([]string(nil), ref.Value.Relations...)
	}
	if ref, ok := Resolve(rec, cfg.RollupNames, TagRollup); ok {
		ids, _ := rollupRefs(ref.Value)
		return ids
	}
	return nil
}

func (ar *AssociationResolver) titleFor(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := ar.cache.Get(id); ok {
		nameCacheHits.Inc()
		return name
	}
	if ar.lookup == nil {
		return ""
	}
	titleLookups.Inc()
	name, err := ar.lookup.TitleByID(ctx, id)
	if err != nil {
		name = ""
	}
	ar.cache.Set(id, name)
	return name
}

func dedupeRefs(refs []AssociationRef) []AssociationRef {
	if len(refs) < 2 {
		return refs
	}
	seen := make(map[AssociationRef]struct{}, len(refs))
	out := refs[:0]
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}

// mapCache is the batch-local fallback when no NameCache is injected. Warm-up
// writes from concurrent lookups, so access is guarded.
type mapCache struct {
	mu    sync.Mutex
	names map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{names: make(map[string]string)}
}

func (c *mapCache) Get(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.names[id]
	return name, ok
}

func (c *mapCache) Set(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[id] = name
}
