package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arteluz/post-grid/pkg/postgrid"
)

const testDatabaseID = "11111111-2222-3333-4444-555555555555"

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{
			name:        "valid dashed database id",
			cfg:         Config{Token: "secret", DatabaseID: testDatabaseID},
			expectError: false,
		},
		{
			name:        "plain hex database id is canonicalized",
			cfg:         Config{Token: "secret", DatabaseID: "11111111222233334444555555555555"},
			expectError: false,
		},
		{
			name:        "missing token",
			cfg:         Config{DatabaseID: testDatabaseID},
			expectError: true,
		},
		{
			name:        "missing database id",
			cfg:         Config{Token: "secret"},
			expectError: true,
		},
		{
			name:        "malformed database id",
			cfg:         Config{Token: "secret", DatabaseID: "not-a-uuid"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testDatabaseID, client.databaseID)
			}
		})
	}
}

func TestFetchPage(t *testing.T) {
	var gotPath, gotAuth, gotVersion string
	var gotBody queryRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{
					"id": "page-1",
					"properties": {
						"Name": {"type": "title", "title": [{"plain_text": "Launch"}]},
						"Fecha": {"type": "date", "date": {"start": "2024-06-01"}},
						"Draft": {"type": "checkbox", "checkbox": true}
					}
				}
			],
			"has_more": true,
			"next_cursor": "cur-2"
		}`))
	}))
	defer server.Close()

	client, err := New(Config{Token: "secret", DatabaseID: testDatabaseID, BaseURL: server.URL})
	require.NoError(t, err)

	page, err := client.FetchPage(context.Background(), "cur-1")
	require.NoError(t, err)

	assert.Equal(t, "/databases/"+testDatabaseID+"/query", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, apiVersion, gotVersion)
	assert.Equal(t, "cur-1", gotBody.StartCursor)
	assert.Equal(t, queryPageSize, gotBody.PageSize)
	assert.Empty(t, gotBody.Sorts)

	assert.True(t, page.HasMore)
	assert.Equal(t, "cur-2", page.NextCursor)
	require.Len(t, page.Records, 1)

	rec := page.Records[0]
	assert.Equal(t, "page-1", rec.ID())
	assert.Equal(t, []string{"Name", "Fecha", "Draft"}, rec.Names())

	name, ok := rec.Get("Name")
	require.True(t, ok)
	assert.Equal(t, postgrid.TagTitle, name.Tag)
	assert.Equal(t, "Launch", postgrid.TextOf(name))

	draft, ok := rec.Get("Draft")
	require.True(t, ok)
	assert.True(t, draft.Checkbox)
}

func TestFetchPageSendsSort(t *testing.T) {
	var gotBody queryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"results": [], "has_more": false, "next_cursor": ""}`))
	}))
	defer server.Close()

	client, err := New(Config{
		Token:        "secret",
		DatabaseID:   testDatabaseID,
		BaseURL:      server.URL,
		SortProperty: "Fecha",
	})
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, gotBody.Sorts, 1)
	assert.Equal(t, querySort{Property: "Fecha", Direction: "descending"}, gotBody.Sorts[0])
	assert.Empty(t, gotBody.StartCursor, "first page carries no cursor")
}

func TestFetchPageNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"object": "error", "code": "unauthorized"}`))
	}))
	defer server.Close()

	client, err := New(Config{Token: "bad", DatabaseID: testDatabaseID, BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestTitleByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pages/client-1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": "client-1",
			"properties": {
				"Notes": {"type": "rich_text", "rich_text": [{"plain_text": "ignored"}]},
				"Nombre": {"type": "title", "title": [{"plain_text": "Acme "}, {"plain_text": "Corp"}]}
			}
		}`))
	}))
	defer server.Close()

	client, err := New(Config{Token: "secret", DatabaseID: testDatabaseID, BaseURL: server.URL})
	require.NoError(t, err)

	name, err := client.TitleByID(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", name, "title found by tag regardless of property name")
}

func TestTitleByIDNoTitleProperty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "page-1", "properties": {"Done": {"type": "checkbox", "checkbox": false}}}`))
	}))
	defer server.Close()

	client, err := New(Config{Token: "secret", DatabaseID: testDatabaseID, BaseURL: server.URL})
	require.NoError(t, err)

	name, err := client.TitleByID(context.Background(), "page-1")
	require.NoError(t, err)
	assert.Empty(t, name)
}
