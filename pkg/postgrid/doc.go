// Package postgrid normalizes rows from a schema-flexible external content
// database into stable Post records for a content grid, with filtering,
// pagination and derived facet lists.
//
// The external schema is not fixed: property names, property types and
// relation/rollup shapes vary across deployments and revisions. The package
// therefore models each row as a tagged property bag (RawRecord) and resolves
// canonical attributes through ordered candidate names with a tag-based
// fallback scan. The only fixed shape is the Post produced at the end.
//
// Collaborators (the paging Source, the id-to-title lookup, the name cache and
// the event sink) are interfaces; implementations are provided under
// subpackages (source/notion, cache/memory).
package postgrid
