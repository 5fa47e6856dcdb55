// Package config builds a postgrid.Service from server configuration,
// applying functional options on top of library defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arteluz/post-grid/pkg/postgrid"
	cachememory "github.com/arteluz/post-grid/pkg/postgrid/cache/memory"
	"github.com/arteluz/post-grid/pkg/postgrid/source/notion"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:              "8080",
		Environment:       "development",
		MaxRecords:        postgrid.DefaultMaxRecords,
		LookupConcurrency: postgrid.DefaultLookupConcurrency,
		NameCacheSize:     cachememory.DefaultMaxEntries,
	}
}

// ServerConfig represents server configuration for the post-grid service.
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Notion source configuration. Token and DatabaseID may be absent; the
	// service then answers with a "not configured" error instead of failing
	// to start, which keeps the distinction from transport failures visible
	// to callers.
	NotionToken      string
	NotionDatabaseID string
	NotionBaseURL    string
	SortProperty     string

	// Normalization tuning
	MaxRecords        int
	LookupConcurrency int
	NameCacheSize     int
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.MaxRecords < 1 {
		return fmt.Errorf("max records must be positive, got %d", c.MaxRecords)
	}
	if c.LookupConcurrency < 1 {
		return fmt.Errorf("lookup concurrency must be positive, got %d", c.LookupConcurrency)
	}
	if c.NameCacheSize < 1 {
		return fmt.Errorf("name cache size must be positive, got %d", c.NameCacheSize)
	}
	return nil
}

// Configured reports whether the external source credentials are present.
func (c *ServerConfig) Configured() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

// BuildService creates a Service instance from the server configuration. An
// unconfigured source yields a service whose requests fail with
// postgrid.ErrNotConfigured.
func (c *ServerConfig) BuildService(logger *slog.Logger) (postgrid.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	options := []postgrid.Option{
		postgrid.WithMaxRecords(c.MaxRecords),
		postgrid.WithLookupConcurrency(c.LookupConcurrency),
		postgrid.WithEventSink(postgrid.NewLogEventSink(logger)),
		postgrid.WithLogger(logger),
	}

	if c.Configured() {
		client, err := notion.New(notion.Config{
			Token:        c.NotionToken,
			DatabaseID:   c.NotionDatabaseID,
			BaseURL:      c.NotionBaseURL,
			SortProperty: c.SortProperty,
		})
		if err != nil {
			return nil, fmt.Errorf("build notion client: %w", err)
		}
		options = append(options,
			postgrid.WithSource(client),
			postgrid.WithTitleLookup(client),
			postgrid.WithNameCache(cachememory.New(c.NameCacheSize)),
		)
	}

	return postgrid.New(options...)
}
