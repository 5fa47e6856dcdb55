package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig maps environment variables onto server configuration.
//
//	PORT                    - server port (default "8080")
//	ENVIRONMENT             - runtime environment (default "development")
//	NOTION_TOKEN            - integration token; unset leaves the grid unconfigured
//	NOTION_DATABASE_ID      - content database id (dashed or plain hex)
//	NOTION_BASE_URL         - API host override (tests, proxies)
//	GRID_SORT_PROPERTY      - server-side sort property (optional)
//	GRID_MAX_RECORDS        - per-request record cap (default 400)
//	GRID_LOOKUP_CONCURRENCY - concurrent title lookups (default 4)
//	GRID_NAME_CACHE_SIZE    - id-to-name memo bound (default 1024)
type envConfig struct {
	Port              string `env:"PORT" env-default:"8080"`
	Environment       string `env:"ENVIRONMENT" env-default:"development"`
	NotionToken       string `env:"NOTION_TOKEN"`
	NotionDatabaseID  string `env:"NOTION_DATABASE_ID"`
	NotionBaseURL     string `env:"NOTION_BASE_URL"`
	SortProperty      string `env:"GRID_SORT_PROPERTY"`
	MaxRecords        int    `env:"GRID_MAX_RECORDS" env-default:"400"`
	LookupConcurrency int    `env:"GRID_LOOKUP_CONCURRENCY" env-default:"4"`
	NameCacheSize     int    `env:"GRID_NAME_CACHE_SIZE" env-default:"1024"`
}

// WithEnv applies environment variable overrides.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var ec envConfig
		if err := cleanenv.ReadEnv(&ec); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}

		c.Port = ec.Port
		c.Environment = ec.Environment
		c.NotionToken = ec.NotionToken
		c.NotionDatabaseID = ec.NotionDatabaseID
		c.NotionBaseURL = ec.NotionBaseURL
		c.SortProperty = ec.SortProperty
		c.MaxRecords = ec.MaxRecords
		c.LookupConcurrency = ec.LookupConcurrency
		c.NameCacheSize = ec.NameCacheSize
		return nil
	}
}
