package postgrid

import (
	"strings"

	"github.com/araddon/dateparse"
)

// PropertyTag is the domain type for the declared type of a record property.
type PropertyTag string

// Property tag constants (typed). These mirror the tags the external content
// database declares on each property value.
const (
	TagTitle       PropertyTag = "title"
	TagRichText    PropertyTag = "rich_text"
	TagCheckbox    PropertyTag = "checkbox"
	TagSelect      PropertyTag = "select"
	TagStatus      PropertyTag = "status"
	TagDate        PropertyTag = "date"
	TagFiles       PropertyTag = "files"
	TagRelation    PropertyTag = "relation"
	TagRollup      PropertyTag = "rollup"
	TagURL         PropertyTag = "url"
	TagPeople      PropertyTag = "people"
	TagMultiSelect PropertyTag = "multi_select"
	TagFormula     PropertyTag = "formula"
)

// FileEntry is one attachment on a files property before asset mapping.
type FileEntry struct {
	Name string
	URL  string
}

// Rollup is the value of a rollup property. Elements carries array rollups;
// Text carries scalar rollups that resolved directly to display text.
type Rollup struct {
	Elements []Property
	Text     []string
}

// Property is a single tagged value from a record's property bag. Only the
// field matching Tag is meaningful; the rest stay at their zero values.
type Property struct {
	Tag         PropertyTag
	Text        []string // title, rich_text: plain-text fragments in run order
	Checkbox    bool
	Select      string // select, status: option name
	MultiSelect []string
	Date        string // start date as supplied by the source
	Files       []FileEntry
	Relations   []string // relation: target record ids
	Rollup      *Rollup
	URL         string
	People      []string
	Formula     string // formula: rendered result
}

// RawRecord is one row from the external content source: an id plus an
// ordered, immutable property bag. Key order matches the source document so
// the tag-scan fallback in Resolve stays deterministic.
type RawRecord struct {
	id    string
	names []string
	props map[string]Property
}

// NewRawRecord creates an empty record with the given external id.
func NewRawRecord(id string) *RawRecord {
	return &RawRecord{
		id:    id,
		props: make(map[string]Property),
	}
}

// ID returns the record's stable external identifier.
func (r *RawRecord) ID() string { return r.id }

// Set stores a property under name, preserving first-insertion order.
func (r *RawRecord) Set(name string, p Property) {
	if _, ok := r.props[name]; !ok {
		r.names = append(r.names, name)
	}
	r.props[name] = p
}

// Get returns the property stored under name.
func (r *RawRecord) Get(name string) (Property, bool) {
	p, ok := r.props[name]
	return p, ok
}

// Names returns the property names in the record's natural key order.
func (r *RawRecord) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of properties on the record.
func (r *RawRecord) Len() int { return len(r.props) }

// TextOf concatenates a title/rich-text run's plain-text fragments in order
// and trims surrounding whitespace. Absent or incompatible properties yield "".
func TextOf(p Property) string {
	if p.Tag != TagTitle && p.Tag != TagRichText {
		return ""
	}
	return strings.TrimSpace(strings.Join(p.Text, ""))
}

// CheckboxOf returns the checkbox state, false for anything that is not a
// checkbox property.
func CheckboxOf(p Property) bool {
	if p.Tag != TagCheckbox {
		return false
	}
	return p.Checkbox
}

// SelectOf returns the selected option name of a select or status property.
func SelectOf(p Property) string {
	if p.Tag != TagSelect && p.Tag != TagStatus {
		return ""
	}
	return p.Select
}

// DateOf returns the property's start date as an ISO-8601 date string.
// Values already in ISO form pass through untouched; other formats are
// normalized when parseable and passed through as-is when not.
func DateOf(p Property) string {
	if p.Tag != TagDate {
		return ""
	}
	return normalizeDate(p.Date)
}

func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if isISODate(raw) {
		return raw
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

// isISODate reports whether s starts with a yyyy-mm-dd prefix, which covers
// both date-only and full RFC3339 values from the source.
func isISODate(s string) bool {
	if len(s) < 10 {
		return false
	}
	for i, c := range s[:10] {
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) == 10 || s[10] == 'T' || s[10] == ' '
}

// FilesOf maps each attachment of a files property to an Asset. Entries
// without a resolvable URL are dropped silently.
func FilesOf(p Property) []Asset {
	if p.Tag != TagFiles {
		return nil
	}
	assets := make([]Asset, 0, len(p.Files))
	for _, f := range p.Files {
		if f.URL == "" {
			continue
		}
		assets = append(assets, Asset{URL: f.URL, Kind: KindForFile(f.Name, f.URL)})
	}
	return assets
}

// RelationIDsOf extracts relation targets from a relation or rollup property.
// Direct relations yield their target ids. Array rollups flatten one level:
// relation-typed elements contribute ids, title/rich-text elements contribute
// display text instead (supporting rollups configured to show the original
// value). Scalar text rollups contribute their text.
func RelationIDsOf(p Property) []string {
	switch p.Tag {
	case TagRelation:
		return append([]string(nil), p.Relations...)
	case TagRollup:
		ids, names := rollupRefs(p)
		return append(ids, names...)
	default:
		return nil
	}
}

// rollupRefs splits a rollup into relation-backed ids and text-backed display
// names, preserving element order within each class.
func rollupRefs(p Property) (ids, names []string) {
	if p.Tag != TagRollup || p.Rollup == nil {
		return nil, nil
	}
	for _, el := range p.Rollup.Elements {
		switch el.Tag {
		case TagRelation:
			ids = append(ids, el.Relations...)
		case TagTitle, TagRichText:
			if s := TextOf(el); s != "" {
				names = append(names, s)
			}
		}
	}
	for _, s := range p.Rollup.Text {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	return ids, names
}
