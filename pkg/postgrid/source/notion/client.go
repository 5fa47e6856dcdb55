// Package notion implements the postgrid Source and TitleLookup interfaces
// over the Notion REST API. It speaks the two endpoints the grid needs
// directly (database query and page retrieve) and decodes Notion's property
// JSON into the neutral postgrid record model.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arteluz/post-grid/pkg/postgrid"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
	queryPageSize  = 100
)

// Config configures a Client.
type Config struct {
	// Token is the integration token sent as a bearer credential. Required.
	Token string

	// DatabaseID identifies the content database. Required; accepted in
	// dashed or plain-hex form and canonicalized to the dashed form.
	DatabaseID string

	// BaseURL overrides the API host, mainly for tests.
	BaseURL string

	// HTTPClient overrides the default client (15s timeout).
	HTTPClient *http.Client

	// SortProperty orders the query server-side by this property, descending
	// unless SortAscending is set. Empty disables server-side sorting; the
	// grid sorts normalized posts by date itself either way.
	SortProperty  string
	SortAscending bool
}

// Client talks to the Notion API for one database.
type Client struct {
	token         string
	databaseID    string
	baseURL       string
	httpClient    *http.Client
	sortProperty  string
	sortAscending bool
}

// New creates a Client, validating and canonicalizing the database id.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("notion: token is required")
	}
	if cfg.DatabaseID == "" {
		return nil, errors.New("notion: database id is required")
	}
	dbID, err := uuid.Parse(cfg.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("notion: invalid database id %q: %w", cfg.DatabaseID, err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		token:         cfg.Token,
		databaseID:    dbID.String(),
		baseURL:       baseURL,
		httpClient:    httpClient,
		sortProperty:  cfg.SortProperty,
		sortAscending: cfg.SortAscending,
	}, nil
}

type queryRequest struct {
	PageSize    int         `json:"page_size"`
	StartCursor string      `json:"start_cursor,omitempty"`
	Sorts       []querySort `json:"sorts,omitempty"`
}

type querySort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type queryResponse struct {
	Results    []pageObject `json:"results"`
	HasMore    bool         `json:"has_more"`
	NextCursor string       `json:"next_cursor"`
}

type pageObject struct {
	ID         string          `json:"id"`
	Properties json.RawMessage `json:"properties"`
}

// FetchPage queries one page of the database, returning decoded records and
// the cursor for the next page.
func (c *Client) FetchPage(ctx context.Context, cursor string) (*postgrid.Page, error) {
	reqBody := queryRequest{
		PageSize:    queryPageSize,
		StartCursor: cursor,
	}
	if c.sortProperty != "" {
		direction := "descending"
		if c.sortAscending {
			direction = "ascending"
		}
		reqBody.Sorts = []querySort{{Property: c.sortProperty, Direction: direction}}
	}

	var resp queryResponse
	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, c.databaseID)
	if err := c.do(ctx, http.MethodPost, url, reqBody, &resp); err != nil {
		return nil, err
	}

	page := &postgrid.Page{
		HasMore:    resp.HasMore,
		NextCursor: resp.NextCursor,
		Records:    make([]*postgrid.RawRecord, 0, len(resp.Results)),
	}
	for _, obj := range resp.Results {
		rec, err := decodeRecord(obj.ID, obj.Properties)
		if err != nil {
			return nil, fmt.Errorf("notion: decode record %s: %w", obj.ID, err)
		}
		page.Records = append(page.Records, rec)
	}
	return page, nil
}

// TitleByID retrieves one page and returns its title property's text. The
// title property is found by tag, so its name does not matter.
func (c *Client) TitleByID(ctx context.Context, id string) (string, error) {
	var obj pageObject
	url := fmt.Sprintf("%s/pages/%s", c.baseURL, id)
	if err := c.do(ctx, http.MethodGet, url, nil, &obj); err != nil {
		return "", err
	}
	rec, err := decodeRecord(obj.ID, obj.Properties)
	if err != nil {
		return "", fmt.Errorf("notion: decode page %s: %w", id, err)
	}
	if ref, ok := postgrid.Resolve(rec, nil, postgrid.TagTitle); ok {
		return postgrid.TextOf(ref.Value), nil
	}
	return "", nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notion: %s returned %d: %s", url, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}
