package postgrid

// GridRequest carries one grid query: filter criteria, pagination and whether
// facet lists should be derived.
type GridRequest struct {
	Query     string
	Project   string
	Client    string
	Brand     string
	DraftOnly bool

	// Page is 1-indexed; PageSize is clamped to [1, 100] with a default of 24.
	// Zero values fall back to defaults.
	Page     int
	PageSize int

	// IncludeFacets requests the distinct-value lists for filter menus.
	IncludeFacets bool
}

// GridResult is one page of the normalized, filtered grid.
type GridResult struct {
	Posts   []Post
	HasMore bool
	Total   int
	Facets  *Facets

	// Skipped lists records omitted from this batch, for diagnostics. Skips
	// never fail the batch.
	Skipped []SkippedRecord
}
