package postgrid

import "context"

// Page is one page of records from the external content source.
type Page struct {
	Records    []*RawRecord
	HasMore    bool
	NextCursor string
}

// Source is the paging collaborator over the external content database. The
// service calls FetchPage repeatedly, passing the previous page's NextCursor,
// until HasMore is false or the record cap is reached. The first call passes
// an empty cursor.
type Source interface {
	FetchPage(ctx context.Context, cursor string) (*Page, error)
}

// TitleLookup resolves a record id to its display title via a single-page
// fetch. Implementations should return an error rather than panic; callers
// degrade a failed lookup to an empty name and never abort the batch.
type TitleLookup interface {
	TitleByID(ctx context.Context, id string) (string, error)
}

// NameCache memoizes id-to-name lookups. A cache is owned by the caller of a
// normalization batch: request-scoped for strict isolation, or a bounded
// process-wide instance when staleness is acceptable. Correctness never
// depends on the cache retaining an entry.
type NameCache interface {
	Get(id string) (string, bool)
	Set(id, name string)
}

// EventSink receives normalization lifecycle events. Implementations must not
// block; sinks exist for observability and carry no control flow.
type EventSink interface {
	// RecordSkipped is fired when a record is omitted from a batch.
	RecordSkipped(ctx context.Context, id, reason string)

	// BatchNormalized is fired after a batch has been normalized.
	BatchNormalized(ctx context.Context, total, skipped int)
}
