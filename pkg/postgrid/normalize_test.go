package postgrid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arteluz/post-grid/pkg/postgrid"
)

func newTestNormalizer() *postgrid.Normalizer {
	return postgrid.NewNormalizer(postgrid.DefaultNormalizerConfig(), nil)
}

// fullRecord builds a record exercising every canonical attribute.
func fullRecord() *postgrid.RawRecord {
	rec := postgrid.NewRawRecord("rec-1")
	rec.Set("Name", postgrid.Property{Tag: postgrid.TagTitle, Text: []string{"Launch ", "Teaser"}})
	rec.Set("Fecha", postgrid.Property{Tag: postgrid.TagDate, Date: "2024-06-01"})
	rec.Set("Status", postgrid.Property{Tag: postgrid.TagStatus, Select: "Published"})
	rec.Set("Files", postgrid.Property{
		Tag: postgrid.TagFiles,
		Files: []postgrid.FileEntry{
			{Name: "hero.png", URL: "https://cdn.example.com/hero.png"},
			{Name: "reel.mp4", URL: "https://cdn.example.com/reel.mp4"},
		},
	})
	rec.Set("Canva", postgrid.Property{Tag: postgrid.TagURL, URL: "https://canva.example.com/design"})
	rec.Set("PostProjectName", postgrid.Property{
		Tag:    postgrid.TagRollup,
		Rollup: &postgrid.Rollup{Elements: []postgrid.Property{{Tag: postgrid.TagTitle, Text: []string{"Spring Drop"}}}},
	})
	rec.Set("PostMain", postgrid.Property{
		Tag:    postgrid.TagRollup,
		Rollup: &postgrid.Rollup{Elements: []postgrid.Property{{Tag: postgrid.TagTitle, Text: []string{"Acme"}}}},
	})
	rec.Set("PostBrands", postgrid.Property{
		Tag: postgrid.TagRollup,
		Rollup: &postgrid.Rollup{Elements: []postgrid.Property{
			{Tag: postgrid.TagTitle, Text: []string{"X"}},
			{Tag: postgrid.TagTitle, Text: []string{"Y"}},
		}},
	})
	return rec
}

func TestNormalizeFullRecord(t *testing.T) {
	post, err := newTestNormalizer().Normalize(context.Background(), fullRecord())
	require.NoError(t, err)

	assert.Equal(t, "rec-1", post.ID)
	assert.Equal(t, "Launch Teaser", post.Title)
	assert.Equal(t, "2024-06-01", post.Date)
	assert.Equal(t, "Published", post.Status)
	assert.False(t, post.IsDraft)
	assert.False(t, post.Hidden)
	assert.False(t, post.Archived)
	assert.Equal(t, postgrid.AssociationRef{Name: "Spring Drop"}, post.Project)
	assert.Equal(t, postgrid.AssociationRef{Name: "Acme"}, post.Client)
	assert.Equal(t, []postgrid.AssociationRef{{Name: "X"}, {Name: "Y"}}, post.Brands)

	// Attachments first, then the link-derived asset; no dedupe across sources.
	assert.Equal(t, []postgrid.Asset{
		{URL: "https://cdn.example.com/hero.png", Kind: postgrid.AssetKindImage},
		{URL: "https://cdn.example.com/reel.mp4", Kind: postgrid.AssetKindVideo},
		{URL: "https://canva.example.com/design", Kind: postgrid.AssetKindImage},
	}, post.Assets)
}

func TestNormalizeDeterministic(t *testing.T) {
	norm := newTestNormalizer()
	ctx := context.Background()

	first, err := norm.Normalize(ctx, fullRecord())
	require.NoError(t, err)
	second, err := norm.Normalize(ctx, fullRecord())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeDefaults(t *testing.T) {
	rec := postgrid.NewRawRecord("rec-2")
	post, err := newTestNormalizer().Normalize(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, postgrid.DefaultTitle, post.Title)
	assert.Empty(t, post.Date)
	assert.Empty(t, post.Status)
	assert.Empty(t, post.Assets)
	assert.Empty(t, post.Brands)
	assert.True(t, post.Project.IsZero())
	assert.True(t, post.Client.IsZero())
}

func TestNormalizeEmptyTitleFallsBackToDefault(t *testing.T) {
	rec := postgrid.NewRawRecord("rec-3")
	rec.Set("Name", postgrid.Property{Tag: postgrid.TagTitle, Text: []string{"   "}})

	post, err := newTestNormalizer().Normalize(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, postgrid.DefaultTitle, post.Title)
}

func TestNormalizeMissingID(t *testing.T) {
	_, err := newTestNormalizer().Normalize(context.Background(), postgrid.NewRawRecord(""))
	assert.ErrorIs(t, err, postgrid.ErrNoRecordID)

	_, err = newTestNormalizer().Normalize(context.Background(), nil)
	assert.ErrorIs(t, err, postgrid.ErrNoRecordID)
}

func TestNormalizeDraftRule(t *testing.T) {
	tests := []struct {
		name  string
		setup func(rec *postgrid.RawRecord)
		want  bool
	}{
		{
			name: "draft checkbox true",
			setup: func(rec *postgrid.RawRecord) {
				rec.Set("Draft", postgrid.Property{Tag: postgrid.TagCheckbox, Checkbox: true})
			},
			want: true,
		},
		{
			name: "localized draft checkbox true",
			setup: func(rec *postgrid.RawRecord) {
				rec.Set("Borrador", postgrid.Property{Tag: postgrid.TagCheckbox, Checkbox: true})
			},
			want: true,
		},
		{
			name: "status equals draft case-insensitively",
			setup: func(rec *postgrid.RawRecord) {
				rec.Set("Status", postgrid.Property{Tag: postgrid.TagStatus, Select: "DRAFT"})
			},
			want: true,
		},
		{
			name: "draft-named status property",
			setup: func(rec *postgrid.RawRecord) {
				rec.Set("Draft", postgrid.Property{Tag: postgrid.TagStatus, Select: "Draft"})
			},
			want: true,
		},
		{
			name: "either signal alone suffices",
			setup: func(rec *postgrid.RawRecord) {
				rec.Set("Draft", postgrid.Property{Tag: postgrid.TagCheckbox, Checkbox: false})
				rec.Set("Status", postgrid.Property{Tag: postgrid.TagSelect, Select: "draft"})
			},
			want: true,
		},
		{
			name: "published status is not draft",
			setup: func(rec *postgrid.RawRecord) {
				rec.Set("Status", postgrid.Property{Tag: postgrid.TagStatus, Select: "Published"})
			},
			want: false,
		},
		{
			name:  "no signal at all",
			setup: func(rec *postgrid.RawRecord) {},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postgrid.NewRawRecord("rec-1")
			tt.setup(rec)
			post, err := newTestNormalizer().Normalize(context.Background(), rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, post.IsDraft)
		})
	}
}

func TestNormalizeSuppressionFlags(t *testing.T) {
	hiddenNames := []string{"Hidden", "Hide", "Oculto"}
	for _, name := range hiddenNames {
		t.Run("hidden via "+name, func(t *testing.T) {
			rec := postgrid.NewRawRecord("rec-1")
			rec.Set(name, postgrid.Property{Tag: postgrid.TagCheckbox, Checkbox: true})
			post, err := newTestNormalizer().Normalize(context.Background(), rec)
			require.NoError(t, err)
			assert.True(t, post.Hidden)
		})
	}

	for _, name := range []string{"Archived", "Archivado"} {
		t.Run("archived via "+name, func(t *testing.T) {
			rec := postgrid.NewRawRecord("rec-1")
			rec.Set(name, postgrid.Property{Tag: postgrid.TagCheckbox, Checkbox: true})
			post, err := newTestNormalizer().Normalize(context.Background(), rec)
			require.NoError(t, err)
			assert.True(t, post.Archived)
		})
	}

	t.Run("unrelated checkbox does not suppress", func(t *testing.T) {
		rec := postgrid.NewRawRecord("rec-1")
		rec.Set("Featured", postgrid.Property{Tag: postgrid.TagCheckbox, Checkbox: true})
		post, err := newTestNormalizer().Normalize(context.Background(), rec)
		require.NoError(t, err)
		assert.False(t, post.Hidden)
		assert.False(t, post.Archived)
	})

	t.Run("hidden name with wrong tag is ignored", func(t *testing.T) {
		rec := postgrid.NewRawRecord("rec-1")
		rec.Set("Hidden", postgrid.Property{Tag: postgrid.TagSelect, Select: "yes"})
		post, err := newTestNormalizer().Normalize(context.Background(), rec)
		require.NoError(t, err)
		assert.False(t, post.Hidden)
	})
}

func TestNormalizeDirectRelationsWithLookup(t *testing.T) {
	lookup := newCountingLookup(map[string]string{
		"p1": "Spring Drop",
		"c1": "Acme",
		"b1": "X",
		"b2": "Y",
	})
	assoc := postgrid.NewAssociationResolver(lookup, nil)
	norm := postgrid.NewNormalizer(postgrid.DefaultNormalizerConfig(), assoc)

	rec := postgrid.NewRawRecord("rec-1")
	rec.Set("Project", postgrid.Property{Tag: postgrid.TagRelation, Relations: []string{"p1"}})
	rec.Set("Client", postgrid.Property{Tag: postgrid.TagRelation, Relations: []string{"c1"}})
	rec.Set("Brands", postgrid.Property{Tag: postgrid.TagRelation, Relations: []string{"b1", "b2"}})

	post, err := norm.Normalize(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, postgrid.AssociationRef{ID: "p1", Name: "Spring Drop"}, post.Project)
	assert.Equal(t, postgrid.AssociationRef{ID: "c1", Name: "Acme"}, post.Client)
	assert.Equal(t, []postgrid.AssociationRef{
		{ID: "b1", Name: "X"},
		{ID: "b2", Name: "Y"},
	}, post.Brands)
}

func TestNormalizerRelationIDs(t *testing.T) {
	norm := newTestNormalizer()

	rec := postgrid.NewRawRecord("rec-1")
	rec.Set("Project", postgrid.Property{Tag: postgrid.TagRelation, Relations: []string{"p1"}})
	rec.Set("Client", postgrid.Property{Tag: postgrid.TagRelation, Relations: []string{"c1"}})
	rec.Set("Brands", postgrid.Property{Tag: postgrid.TagRelation, Relations: []string{"b1", "b2"}})

	assert.Equal(t, []string{"p1", "c1", "b1", "b2"}, norm.RelationIDs(rec))
}
