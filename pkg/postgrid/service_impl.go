package postgrid

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Defaults for service tuning knobs.
const (
	DefaultMaxRecords        = 400
	DefaultLookupConcurrency = 4
)

// service implements the Service interface.
type service struct {
	source            Source
	lookup            TitleLookup
	cache             NameCache
	sink              EventSink
	normCfg           NormalizerConfig
	maxRecords        int
	lookupConcurrency int
	logger            *slog.Logger
}

// Option represents a functional option for configuring the service.
type Option func(*service)

// WithSource sets the paging collaborator over the external content database.
// A service without a source answers every request with ErrNotConfigured.
func WithSource(src Source) Option {
	return func(s *service) {
		s.source = src
	}
}

// WithTitleLookup sets the id-to-title lookup collaborator. Without one,
// id-only associations keep empty display names.
func WithTitleLookup(lookup TitleLookup) Option {
	return func(s *service) {
		s.lookup = lookup
	}
}

// WithNameCache sets the id-to-name memo shared across requests. Without one,
// each request gets a fresh batch-local memo.
func WithNameCache(cache NameCache) Option {
	return func(s *service) {
		s.cache = cache
	}
}

// WithEventSink sets the event sink for the service.
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.sink = sink
	}
}

// WithNormalizerConfig overrides the candidate-name sets used to resolve
// record properties.
func WithNormalizerConfig(cfg NormalizerConfig) Option {
	return func(s *service) {
		s.normCfg = cfg
	}
}

// WithMaxRecords caps how many records one request fetches across pages.
func WithMaxRecords(max int) Option {
	return func(s *service) {
		s.maxRecords = max
	}
}

// WithLookupConcurrency bounds how many title lookups run at once, keeping
// the external API's rate limits respected.
func WithLookupConcurrency(n int) Option {
	return func(s *service) {
		s.lookupConcurrency = n
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options.
func New(options ...Option) (Service, error) {
	s := &service{
		sink:              NewNoopEventSink(),
		normCfg:           DefaultNormalizerConfig(),
		maxRecords:        DefaultMaxRecords,
		lookupConcurrency: DefaultLookupConcurrency,
		logger:            slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.maxRecords < 1 {
		return nil, fmt.Errorf("max records must be positive, got %d", s.maxRecords)
	}
	if s.lookupConcurrency < 1 {
		return nil, fmt.Errorf("lookup concurrency must be positive, got %d", s.lookupConcurrency)
	}
	if s.sink == nil {
		s.sink = NewNoopEventSink()
	}

	return s, nil
}

func (s *service) Grid(ctx context.Context, req GridRequest) (*GridResult, error) {
	if s.source == nil {
		return nil, ErrNotConfigured
	}

	records, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	cache := s.cache
	if cache == nil {
		cache = newMapCache()
	}
	assoc := NewAssociationResolver(s.lookup, cache)
	norm := NewNormalizer(s.normCfg, assoc)

	if s.lookup != nil {
		s.warmNames(ctx, norm, cache, records)
	}

	posts, skipped := s.normalizeAll(ctx, norm, records)
	SortByDateDesc(posts)

	res := Apply(posts, Criteria{
		Query:     req.Query,
		Project:   req.Project,
		Client:    req.Client,
		Brand:     req.Brand,
		DraftOnly: req.DraftOnly,
	}, PageRequest{Page: req.Page, PageSize: req.PageSize}, req.IncludeFacets)

	s.sink.BatchNormalized(ctx, len(posts), len(skipped))

	return &GridResult{
		Posts:   res.Posts,
		HasMore: res.HasMore,
		Total:   res.Total,
		Facets:  res.Facets,
		Skipped: skipped,
	}, nil
}

// fetchAll walks the source cursor by cursor until the last page or the
// record cap.
func (s *service) fetchAll(ctx context.Context) ([]*RawRecord, error) {
	var records []*RawRecord
	cursor := ""
	for {
		page, err := s.source.FetchPage(ctx, cursor)
		if err != nil {
			return nil, &SourceError{Op: "fetch_page", Cursor: cursor, Err: err}
		}
		pagesFetched.Inc()
		records = append(records, page.Records...)
		if !page.HasMore || page.NextCursor == "" || len(records) >= s.maxRecords {
			break
		}
		cursor = page.NextCursor
	}
	if len(records) > s.maxRecords {
		records = records[:s.maxRecords]
	}
	return records, nil
}

// warmNames resolves every distinct relation id the batch will need,
// concurrently but bounded. A failed lookup memoizes an empty name; it never
// fails the batch.
func (s *service) warmNames(ctx context.Context, norm *Normalizer, cache NameCache, records []*RawRecord) {
	seen := make(map[string]struct{})
	var pending []string
	for _, rec := range records {
		for _, id := range norm.RelationIDs(rec) {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if _, ok := cache.Get(id); !ok {
				pending = append(pending, id)
			}
		}
	}
	if len(pending) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.lookupConcurrency)
	for _, id := range pending {
		id := id
		g.Go(func() error {
			titleLookups.Inc()
			name, err := s.lookup.TitleByID(gctx, id)
			if err != nil {
				s.logger.Debug("title lookup failed", "id", id, "error", err)
				name = ""
			}
			cache.Set(id, name)
			return nil
		})
	}
	// Workers never return errors; lookups degrade to empty names.
	_ = g.Wait()
}

// normalizeAll reduces records to posts, collecting per-record skips instead
// of failing the batch. Duplicate ids keep the first occurrence.
func (s *service) normalizeAll(ctx context.Context, norm *Normalizer, records []*RawRecord) ([]Post, []SkippedRecord) {
	posts := make([]Post, 0, len(records))
	var skipped []SkippedRecord
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		post, err := norm.Normalize(ctx, rec)
		if err != nil {
			recordsSkipped.Inc()
			sk := SkippedRecord{Reason: err.Error()}
			if rec != nil {
				sk.ID = rec.ID()
			}
			skipped = append(skipped, sk)
			s.sink.RecordSkipped(ctx, sk.ID, sk.Reason)
			continue
		}
		if _, dup := seen[post.ID]; dup {
			recordsSkipped.Inc()
			sk := SkippedRecord{ID: post.ID, Reason: "duplicate record id"}
			skipped = append(skipped, sk)
			s.sink.RecordSkipped(ctx, sk.ID, sk.Reason)
			continue
		}
		seen[post.ID] = struct{}{}
		recordsNormalized.Inc()
		posts = append(posts, post)
	}
	return posts, skipped
}
