package postgrid

import (
	"sort"
	"strings"
)

// Pagination bounds.
const (
	DefaultPageSize = 24
	MaxPageSize     = 100
)

// Criteria are the grid filter parameters. Project, Client and Brand match
// exactly against the respective association's id OR name, so partially
// resolved references still filter correctly. Query is a case-insensitive
// free-text substring match; an empty query matches everything.
type Criteria struct {
	Query     string
	Project   string
	Client    string
	Brand     string
	DraftOnly bool
}

// PageRequest is 1-indexed offset pagination over the filtered list.
type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) clamp() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// FilterResult is one page of the filtered post list.
type FilterResult struct {
	Posts   []Post
	HasMore bool
	Total   int
	Facets  *Facets
}

// Apply filters, paginates and optionally derives facets over normalized
// posts. Hidden and archived posts are suppressed before anything else.
// Facets are derived from the visibility-filtered set, not the query-filtered
// one, so filter menus keep offering the full vocabulary. Filtering always
// runs over the full set before the page slice is taken.
func Apply(posts []Post, c Criteria, page PageRequest, withFacets bool) FilterResult {
	visible := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Hidden || p.Archived {
			continue
		}
		visible = append(visible, p)
	}

	var facets *Facets
	if withFacets {
		facets = deriveFacets(visible)
	}

	filtered := visible[:0:0]
	for _, p := range visible {
		if matches(p, c) {
			filtered = append(filtered, p)
		}
	}

	page = page.clamp()
	start := (page.Page - 1) * page.PageSize
	end := start + page.PageSize
	total := len(filtered)

	var slice []Post
	switch {
	case start >= total:
		slice = []Post{}
	case end > total:
		slice = filtered[start:total]
	default:
		slice = filtered[start:end]
	}

	return FilterResult{
		Posts:   slice,
		HasMore: page.Page*page.PageSize < total,
		Total:   total,
		Facets:  facets,
	}
}

func matches(p Post, c Criteria) bool {
	if c.DraftOnly && !p.IsDraft {
		return false
	}
	if c.Project != "" && !refMatches(p.Project, c.Project) {
		return false
	}
	if c.Client != "" && !refMatches(p.Client, c.Client) {
		return false
	}
	if c.Brand != "" {
		found := false
		for _, b := range p.Brands {
			if refMatches(b, c.Brand) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q := strings.TrimSpace(c.Query); q != "" {
		if !strings.Contains(strings.ToLower(searchText(p)), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// refMatches reports whether value equals the reference's id or name; either
// match counts.
func refMatches(ref AssociationRef, value string) bool {
	return (ref.ID != "" && ref.ID == value) || (ref.Name != "" && ref.Name == value)
}

// searchText is the haystack for free-text search: title, project name,
// client name and space-joined brand names.
func searchText(p Post) string {
	parts := []string{p.Title, p.Project.Name, p.Client.Name}
	for _, b := range p.Brands {
		parts = append(parts, b.Name)
	}
	return strings.Join(parts, " ")
}

func deriveFacets(posts []Post) *Facets {
	projects := map[string]struct{}{}
	clients := map[string]struct{}{}
	brandsByClient := map[string]map[string]struct{}{}

	for _, p := range posts {
		if p.Project.Name != "" {
			projects[p.Project.Name] = struct{}{}
		}
		client := p.Client.Name
		if client != "" {
			clients[client] = struct{}{}
		}
		for _, b := range p.Brands {
			if b.Name == "" || client == "" {
				continue
			}
			if brandsByClient[client] == nil {
				brandsByClient[client] = map[string]struct{}{}
			}
			brandsByClient[client][b.Name] = struct{}{}
		}
	}

	facets := &Facets{
		Projects:       sortedKeys(projects),
		Clients:        sortedKeys(clients),
		BrandsByClient: make(map[string][]string, len(brandsByClient)),
	}
	for client, brands := range brandsByClient {
		facets.BrandsByClient[client] = sortedKeys(brands)
	}
	return facets
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortByDateDesc orders posts newest first, with undated posts last. The sort
// is stable so source order breaks ties, keeping pagination deterministic
// when the source does not sort.
func SortByDateDesc(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Date, posts[j].Date
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a > b
	})
}
