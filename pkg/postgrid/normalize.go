package postgrid

import (
	"context"
	"errors"
	"strings"
)

// ErrNoRecordID marks a record that cannot become a Post because it carries
// no stable identifier. Such records are skipped, not fatal.
var ErrNoRecordID = errors.New("record has no id")

// DraftRule configures draft detection. Deployments disagree on where the
// draft signal lives, so the rule is configuration rather than a constant: a
// post is a draft when any checkbox candidate is true OR any status/select
// candidate equals StatusValue case-insensitively. Either signal alone is
// sufficient.
type DraftRule struct {
	CheckboxNames []string
	StatusNames   []string
	StatusValue   string
}

// NormalizerConfig holds the candidate property names the normalizer tries,
// in priority order, for each canonical attribute. Defaults cover the names
// observed across deployments, including Spanish-localized variants.
type NormalizerConfig struct {
	TitleNames    []string
	DateNames     []string
	StatusNames   []string
	HiddenNames   []string
	ArchivedNames []string
	FileNames     []string
	LinkNames     []string
	Draft         DraftRule
	Project       AssociationConfig
	Client        AssociationConfig
	Brands        AssociationConfig
}

// DefaultNormalizerConfig returns the candidate-name sets observed in
// production deployments of the grid.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		TitleNames:    []string{"Name", "Title", "Nombre", "Título"},
		DateNames:     []string{"Date", "Fecha"},
		StatusNames:   []string{"Status", "Estado"},
		HiddenNames:   []string{"Hidden", "Hide", "Oculto"},
		ArchivedNames: []string{"Archived", "Archivado"},
		FileNames:     []string{"Files", "Files & media", "Attachments", "Archivos"},
		LinkNames:     []string{"Canva", "Link", "URL", "Enlace"},
		Draft: DraftRule{
			CheckboxNames: []string{"Draft", "Borrador"},
			StatusNames:   []string{"Draft", "Status", "Estado"},
			StatusValue:   "draft",
		},
		Project: AssociationConfig{
			RelationNames: []string{"Project", "Proyecto"},
			RollupNames:   []string{"PostProjectName", "Project Name"},
		},
		Client: AssociationConfig{
			RelationNames: []string{"Client", "Cliente"},
			RollupNames:   []string{"PostMain", "Client Name"},
		},
		Brands: AssociationConfig{
			RelationNames: []string{"Brands", "Marcas"},
			RollupNames:   []string{"PostBrands", "Brand Names"},
			Many:          true,
		},
	}
}

// Normalizer composes property resolution and association resolution into the
// canonical Post record. Normalization is deterministic and never mutates the
// record.
type Normalizer struct {
	cfg   NormalizerConfig
	assoc *AssociationResolver
}

// NewNormalizer creates a normalizer with the given config and association
// resolver. A nil resolver gets a lookup-less default, leaving id-only
// associations without display names.
func NewNormalizer(cfg NormalizerConfig, assoc *AssociationResolver) *Normalizer {
	if assoc == nil {
		assoc = NewAssociationResolver(nil, nil)
	}
	return &Normalizer{cfg: cfg, assoc: assoc}
}

// Normalize derives the canonical Post from one record.
func (n *Normalizer) Normalize(ctx context.Context, rec *RawRecord) (Post, error) {
	if rec == nil || rec.ID() == "" {
		return Post{}, ErrNoRecordID
	}

	post := Post{
		ID:       rec.ID(),
		Title:    DefaultTitle,
		Hidden:   n.anyCheckbox(rec, n.cfg.HiddenNames),
		Archived: n.anyCheckbox(rec, n.cfg.ArchivedNames),
		Brands:   []AssociationRef{},
		Assets:   []Asset{},
	}

	if ref, ok := Resolve(rec, n.cfg.TitleNames, TagTitle); ok {
		if title := TextOf(ref.Value); title != "" {
			post.Title = title
		}
	}

	if ref, ok := Resolve(rec, n.cfg.DateNames, TagDate); ok {
		post.Date = DateOf(ref.Value)
	}

	post.Status = n.statusOf(rec, n.cfg.StatusNames)
	post.IsDraft = n.isDraft(rec)

	// Asset order is display order: attachments first, then the link-derived
	// asset. Repeated URLs across sources are kept as separate assets.
	if ref, ok := Resolve(rec, n.cfg.FileNames, TagFiles); ok {
		post.Assets = append(post.Assets, FilesOf(ref.Value)...)
	}
	if ref, ok := Resolve(rec, n.cfg.LinkNames, TagURL); ok && ref.Value.URL != "" {
		post.Assets = append(post.Assets, Asset{
			URL:  ref.Value.URL,
			Kind: KindForFile("", ref.Value.URL),
		})
	}

	if refs := n.assoc.Resolve(ctx, rec, n.cfg.Project); len(refs) > 0 {
		post.Project = refs[0]
	}
	if refs := n.assoc.Resolve(ctx, rec, n.cfg.Client); len(refs) > 0 {
		post.Client = refs[0]
	}
	if refs := n.assoc.Resolve(ctx, rec, n.cfg.Brands); len(refs) > 0 {
		post.Brands = refs
	}

	return post, nil
}

// RelationIDs returns every relation id the record's associations would need
// a display name for. The service warms the name cache with these before
// normalizing a batch.
func (n *Normalizer) RelationIDs(rec *RawRecord) []string {
	var ids []string
	for _, cfg := range []AssociationConfig{n.cfg.Project, n.cfg.Client, n.cfg.Brands} {
		ids = append(ids, n.assoc.RelationIDs(rec, cfg)...)
	}
	return ids
}

// anyCheckbox reports whether any of the named checkbox properties is set.
// Each name is checked independently against the record; no tag-scan fallback
// applies here, since an unrelated checkbox must not suppress the post.
func (n *Normalizer) anyCheckbox(rec *RawRecord, names []string) bool {
	for _, name := range names {
		if p, ok := rec.Get(name); ok && CheckboxOf(p) {
			return true
		}
	}
	return false
}

func (n *Normalizer) statusOf(rec *RawRecord, names []string) string {
	if ref, ok := Resolve(rec, names, TagStatus); ok {
		return SelectOf(ref.Value)
	}
	if ref, ok := Resolve(rec, names, TagSelect); ok {
		return SelectOf(ref.Value)
	}
	return ""
}

func (n *Normalizer) isDraft(rec *RawRecord) bool {
	if n.anyCheckbox(rec, n.cfg.Draft.CheckboxNames) {
		return true
	}
	for _, name := range n.cfg.Draft.StatusNames {
		p, ok := rec.Get(name)
		if !ok {
			continue
		}
		if s := SelectOf(p); s != "" && strings.EqualFold(s, n.cfg.Draft.StatusValue) {
			return true
		}
	}
	return false
}
