package postgrid

import "context"

// Service is the main interface of the post-grid library: one call per grid
// request, deriving posts fresh from the external source.
type Service interface {
	// Grid fetches the current record set, normalizes it and returns one
	// filtered page. A record that fails normalization is skipped and noted
	// on the result; a source failure aborts the batch.
	Grid(ctx context.Context, req GridRequest) (*GridResult, error)
}
