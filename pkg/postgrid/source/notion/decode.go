package notion

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/arteluz/post-grid/pkg/postgrid"
)

// decodeRecord turns a page's properties object into a RawRecord. The
// properties are walked token by token so the record keeps the document's key
// order; the resolver's tag-scan fallback depends on that order being stable.
func decodeRecord(id string, properties json.RawMessage) (*postgrid.RawRecord, error) {
	rec := postgrid.NewRawRecord(id)
	if len(properties) == 0 {
		return rec, nil
	}

	dec := json.NewDecoder(bytes.NewReader(properties))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read properties: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("properties is not an object (got %v)", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read property name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("property name is not a string (got %v)", keyTok)
		}

		var pv propertyValue
		if err := dec.Decode(&pv); err != nil {
			return nil, fmt.Errorf("decode property %q: %w", name, err)
		}
		rec.Set(name, pv.toProperty())
	}

	return rec, nil
}

// propertyValue mirrors the Notion property value envelope. Only the field
// named by Type is populated in the wire format.
type propertyValue struct {
	Type        string          `json:"type"`
	Title       []richText      `json:"title"`
	RichText    []richText      `json:"rich_text"`
	Checkbox    *bool           `json:"checkbox"`
	Select      *optionValue    `json:"select"`
	Status      *optionValue    `json:"status"`
	Date        *dateValue      `json:"date"`
	Files       []fileValue     `json:"files"`
	Relation    []relationValue `json:"relation"`
	Rollup      *rollupValue    `json:"rollup"`
	URL         *string         `json:"url"`
	People      []personValue   `json:"people"`
	MultiSelect []optionValue   `json:"multi_select"`
	Formula     *formulaValue   `json:"formula"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type optionValue struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

type fileValue struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	File     *fileLink `json:"file"`
	External *fileLink `json:"external"`
}

type fileLink struct {
	URL string `json:"url"`
}

type relationValue struct {
	ID string `json:"id"`
}

type personValue struct {
	Name string `json:"name"`
}

type rollupValue struct {
	Type     string          `json:"type"`
	Array    []propertyValue `json:"array"`
	RichText []richText      `json:"rich_text"`
	Title    []richText      `json:"title"`
	Number   *json.Number    `json:"number"`
	Date     *dateValue      `json:"date"`
}

type formulaValue struct {
	Type    string       `json:"type"`
	String  *string      `json:"string"`
	Boolean *bool        `json:"boolean"`
	Number  *json.Number `json:"number"`
}

func (pv propertyValue) toProperty() postgrid.Property {
	p := postgrid.Property{Tag: postgrid.PropertyTag(pv.Type)}

	switch p.Tag {
	case postgrid.TagTitle:
		p.Text = plainTexts(pv.Title)
	case postgrid.TagRichText:
		p.Text = plainTexts(pv.RichText)
	case postgrid.TagCheckbox:
		if pv.Checkbox != nil {
			p.Checkbox = *pv.Checkbox
		}
	case postgrid.TagSelect:
		if pv.Select != nil {
			p.Select = pv.Select.Name
		}
	case postgrid.TagStatus:
		if pv.Status != nil {
			p.Select = pv.Status.Name
		}
	case postgrid.TagDate:
		if pv.Date != nil {
			p.Date = pv.Date.Start
		}
	case postgrid.TagFiles:
		for _, f := range pv.Files {
			entry := postgrid.FileEntry{Name: f.Name}
			switch {
			case f.External != nil:
				entry.URL = f.External.URL
			case f.File != nil:
				entry.URL = f.File.URL
			}
			p.Files = append(p.Files, entry)
		}
	case postgrid.TagRelation:
		for _, r := range pv.Relation {
			p.Relations = append(p.Relations, r.ID)
		}
	case postgrid.TagRollup:
		if pv.Rollup != nil {
			p.Rollup = pv.Rollup.toRollup()
		}
	case postgrid.TagURL:
		if pv.URL != nil {
			p.URL = *pv.URL
		}
	case postgrid.TagPeople:
		for _, person := range pv.People {
			p.People = append(p.People, person.Name)
		}
	case postgrid.TagMultiSelect:
		for _, opt := range pv.MultiSelect {
			p.MultiSelect = append(p.MultiSelect, opt.Name)
		}
	case postgrid.TagFormula:
		if pv.Formula != nil {
			p.Formula = pv.Formula.render()
		}
	}

	return p
}

func (rv rollupValue) toRollup() *postgrid.Rollup {
	rollup := &postgrid.Rollup{}
	switch rv.Type {
	case "array":
		for _, el := range rv.Array {
			rollup.Elements = append(rollup.Elements, el.toProperty())
		}
	case "rich_text":
		if s := joinPlainTexts(rv.RichText); s != "" {
			rollup.Text = append(rollup.Text, s)
		}
	case "title":
		if s := joinPlainTexts(rv.Title); s != "" {
			rollup.Text = append(rollup.Text, s)
		}
	case "number":
		if rv.Number != nil {
			rollup.Text = append(rollup.Text, rv.Number.String())
		}
	case "date":
		if rv.Date != nil && rv.Date.Start != "" {
			rollup.Text = append(rollup.Text, rv.Date.Start)
		}
	}
	return rollup
}

func (fv formulaValue) render() string {
	switch fv.Type {
	case "string":
		if fv.String != nil {
			return *fv.String
		}
	case "boolean":
		if fv.Boolean != nil && *fv.Boolean {
			return "true"
		}
		if fv.Boolean != nil {
			return "false"
		}
	case "number":
		if fv.Number != nil {
			return fv.Number.String()
		}
	}
	return ""
}

func plainTexts(runs []richText) []string {
	if len(runs) == 0 {
		return nil
	}
	texts := make([]string, 0, len(runs))
	for _, run := range runs {
		texts = append(texts, run.PlainText)
	}
	return texts
}

func joinPlainTexts(runs []richText) string {
	out := ""
	for _, run := range runs {
		out += run.PlainText
	}
	return out
}
