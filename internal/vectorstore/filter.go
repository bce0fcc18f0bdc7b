package vectorstore

import "github.com/qdrant/go-client/qdrant"

// FilterOptions is the fixed, small filter surface spec.md §4.6 names:
// court/division MatchAny, year range, legislation-id match, reference-id
// match. Unlike Tangerg-lynx's general AST filter-expression converter,
// this is a direct builder — the domain doesn't need an open expression
// grammar (see DESIGN.md for why the fuller converter was not carried
// over).
type FilterOptions struct {
	Courts           []string
	Divisions        []string
	LegislationTypes []string
	NoteTypes        []string
	SectionTypes     []string
	YearMin          *int
	YearMax          *int
	LegislationID    string
	ReferenceField   string // "caselaw_references" or "legislation_references"
	ReferenceID      string
	AffectingYears   []int
}

// BuildFilter constructs a qdrant.Filter's must-clauses from FilterOptions.
func BuildFilter(opts FilterOptions) *qdrant.Filter {
	f := &qdrant.Filter{}

	if len(opts.Courts) > 0 {
		f.Must = append(f.Must, qdrant.NewMatchKeywords("court", opts.Courts...))
	}
	if len(opts.Divisions) > 0 {
		f.Must = append(f.Must, qdrant.NewMatchKeywords("division", opts.Divisions...))
	}
	if len(opts.LegislationTypes) > 0 {
		f.Must = append(f.Must, qdrant.NewMatchKeywords("legislation_type", opts.LegislationTypes...))
	}
	if len(opts.NoteTypes) > 0 {
		f.Must = append(f.Must, qdrant.NewMatchKeywords("note_type", opts.NoteTypes...))
	}
	if len(opts.SectionTypes) > 0 {
		f.Must = append(f.Must, qdrant.NewMatchKeywords("section_type", opts.SectionTypes...))
	}
	if opts.YearMin != nil || opts.YearMax != nil {
		r := &qdrant.Range{}
		if opts.YearMin != nil {
			v := float64(*opts.YearMin)
			r.Gte = &v
		}
		if opts.YearMax != nil {
			v := float64(*opts.YearMax)
			r.Lte = &v
		}
		f.Must = append(f.Must, qdrant.NewRange("year", r))
	}
	if opts.LegislationID != "" {
		f.Must = append(f.Must, qdrant.NewMatch("legislation_id", opts.LegislationID))
	}
	if opts.ReferenceField != "" && opts.ReferenceID != "" {
		f.Must = append(f.Must, qdrant.NewMatchKeywords(opts.ReferenceField, opts.ReferenceID))
	}
	if len(opts.AffectingYears) > 0 {
		years := make([]int64, len(opts.AffectingYears))
		for i, y := range opts.AffectingYears {
			years[i] = int64(y)
		}
		f.Must = append(f.Must, qdrant.NewMatchInts("affecting_year", years...))
	}

	if len(f.Must) == 0 {
		return nil
	}
	return f
}
