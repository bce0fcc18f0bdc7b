package vectorstore

// Collection names, one per entity kind plus the embedding cache.
const (
	CollectionLegislation        = "legislation"
	CollectionLegislationSection = "legislation_section"
	CollectionAmendment          = "amendment"
	CollectionExplanatoryNote    = "explanatory_note"
	CollectionCaselaw            = "caselaw"
	CollectionCaselawSection     = "caselaw_section"
	CollectionCaselawSummary     = "caselaw_summary"
	CollectionEmbeddingCache     = "embedding_cache"
)

// Specs returns every collection's creation spec, grounded on
// original_source's per-kind qdrant_schema.py files: caselaw and its
// sections/summaries carry payload indexes and INT8 quantisation; the
// others are simpler.
func Specs() []CollectionSpec {
	return []CollectionSpec{
		{
			Name:               CollectionLegislation,
			KeywordIndexFields: []string{"id", "type", "status"},
			IntegerIndexFields: []string{"year"},
		},
		{
			Name:               CollectionLegislationSection,
			KeywordIndexFields: []string{"id", "legislation_id", "legislation_type", "provision_type"},
			IntegerIndexFields: []string{"year"},
		},
		{
			Name:               CollectionAmendment,
			KeywordIndexFields: []string{"id", "changed_legislation", "affecting_legislation"},
			IntegerIndexFields: []string{"changed_year", "affecting_year"},
		},
		{
			Name:               CollectionExplanatoryNote,
			KeywordIndexFields: []string{"id", "legislation_id", "note_type", "section_type"},
		},
		{
			Name:               CollectionCaselaw,
			Quantized:          true,
			KeywordIndexFields: []string{"id", "court", "division"},
			IntegerIndexFields: []string{"year"},
			KeywordListFields:  []string{"legislation_references", "caselaw_references"},
		},
		{
			Name:               CollectionCaselawSection,
			Quantized:          true,
			KeywordIndexFields: []string{"id", "caselaw_id", "court", "division"},
			IntegerIndexFields: []string{"year"},
		},
		{
			Name:               CollectionCaselawSummary,
			Quantized:          true,
			KeywordIndexFields: []string{"id", "caselaw_id"},
		},
	}
}

// EmbeddingCacheSpec is the dense-only cache collection (no sparse vector,
// no quantisation, no payload indexes — just point-id lookup).
func EmbeddingCacheSpec() CollectionSpec {
	return CollectionSpec{Name: CollectionEmbeddingCache, DenseOnly: true}
}
