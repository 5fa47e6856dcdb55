package postgrid

import "strings"

// AssetKind is the domain type for grid asset media kinds.
type AssetKind string

// Asset kind constants (typed).
const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

// videoExtensions are the filename extensions rendered with a video player.
var videoExtensions = []string{".mp4", ".webm", ".mov", ".m4v", ".avi", ".mkv"}

// KindForFile derives the asset kind from a filename and its URL. The
// filename wins when it carries a recognized extension; otherwise the URL
// path is checked. Everything that is not a known video extension is an image.
func KindForFile(name, url string) AssetKind {
	lower := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return AssetKindVideo
		}
	}
	lower = strings.ToLower(url)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return AssetKindVideo
		}
	}
	return AssetKindImage
}

// Asset is a displayable media reference belonging to a single Post.
// URL is never empty; entries without a resolvable URL are dropped upstream.
type Asset struct {
	URL  string    `json:"url"`
	Kind AssetKind `json:"kind"`
}

// AssociationRef is the normalized representation of a resolved
// relation/rollup target. ID is present when the association is backed by a
// relation; Name when it is backed by rollup text or a resolved lookup.
// Either may be empty.
type AssociationRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether the reference carries neither an id nor a name.
func (a AssociationRef) IsZero() bool {
	return a.ID == "" && a.Name == ""
}

// DefaultTitle is the canonical title for records without resolvable text.
const DefaultTitle = "Untitled"

// Post is the canonical normalized entity consumed by the grid UI.
type Post struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Date     string           `json:"date,omitempty"`
	Hidden   bool             `json:"hidden,omitempty"`
	Archived bool             `json:"archived,omitempty"`
	IsDraft  bool             `json:"isDraft"`
	Status   string           `json:"status,omitempty"`
	Project  AssociationRef   `json:"project"`
	Client   AssociationRef   `json:"client"`
	Brands   []AssociationRef `json:"brands"`
	Assets   []Asset          `json:"assets"`
}

// Facets are distinct-value lists derived for UI filter menus. Projects and
// Clients are sorted distinct display names; BrandsByClient groups sorted
// distinct brand names under each client name.
type Facets struct {
	Projects       []string            `json:"projects"`
	Clients        []string            `json:"clients"`
	BrandsByClient map[string][]string `json:"brandsByClient"`
}

// SkippedRecord notes a record omitted from a batch and why, so skips stay
// observable without failing the batch.
type SkippedRecord struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}
