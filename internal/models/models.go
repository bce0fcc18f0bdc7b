// Package models defines the typed records the ingestion engine produces,
// grounded field-for-field on original_source's Pydantic models.
package models

import "time"

// SummaryTextTruncateLimit is the character cap above which a case-law
// judgment's text is truncated before summary generation, with
// source_text_truncated recorded on the resulting summary.
const SummaryTextTruncateLimit = 900_000

// SummaryMinChars is the minimum text length a record must have before
// Stage-2 will generate a summary for it at all.
const SummaryMinChars = 500

// EmbeddingDimensions is the fixed dense-vector width every collection uses.
const EmbeddingDimensions = 1024

// Base carries the fields every record shares.
type Base struct {
	CreatedAt time.Time `json:"created_at"`
}

// Embeddable is implemented by every record kind that is embedded and
// stored in the vector store.
type Embeddable interface {
	EmbeddingText() string
}

// Legislation is a piece of UK primary or secondary legislation.
type Legislation struct {
	Base
	ID                string    `json:"id"` // canonical URI
	Type              string    `json:"type"`
	Year              int       `json:"year"`
	Number            string    `json:"number"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	EnactmentDate     time.Time `json:"enactment_date,omitempty"`
	ModifiedDate      time.Time `json:"modified_date"`
	Status            string    `json:"status,omitempty"`
	Extent            []string  `json:"extent,omitempty"`
	NumberOfProvision int       `json:"number_of_provisions,omitempty"`
	Text              string    `json:"text"`
}

func (l Legislation) EmbeddingText() string { return l.Text }

// LegislationSection is one numbered provision within a Legislation body.
type LegislationSection struct {
	Base
	ID             string `json:"id"`
	LegislationID  string `json:"legislation_id"`
	LegislationType string `json:"legislation_type"`
	Year           int    `json:"year"`
	Number         string `json:"number"`
	ProvisionType  string `json:"provision_type,omitempty"`
	Title          string `json:"title,omitempty"`
	Text           string `json:"text"`
	Extent         []string `json:"extent,omitempty"`
	Order          int    `json:"order"`
}

func (s LegislationSection) EmbeddingText() string { return s.Text }

// Amendment is a bipartite edge between a changed piece of legislation and
// the legislation (or provision) that made the change.
type Amendment struct {
	Base
	ID                  string `json:"id"` // "changed-{changed_url}-affecting-{affecting_url}"
	ChangedLegislation  string `json:"changed_legislation"`
	ChangedYear         int    `json:"changed_year"`
	ChangedNumber       string `json:"changed_number"`
	ChangedURL          string `json:"changed_url"`
	ChangedProvision    string `json:"changed_provision,omitempty"`
	ChangedProvisionURL string `json:"changed_provision_url,omitempty"`
	AffectingLegislation string `json:"affecting_legislation,omitempty"`
	AffectingYear       int    `json:"affecting_year,omitempty"`
	AffectingNumber     string `json:"affecting_number,omitempty"`
	AffectingURL        string `json:"affecting_url"`
	AffectingProvision  string `json:"affecting_provision,omitempty"`
	AffectingProvisionURL string `json:"affecting_provision_url,omitempty"`
	TypeOfEffect        string `json:"type_of_effect,omitempty"`
	AIExplanation       string `json:"ai_explanation,omitempty"`
}

// EmbeddingText renders a searchable sentence describing the change, since
// an amendment has no natural-language body of its own to embed. Once an
// AI explanation has been generated (Stage 2), it is used in place of the
// bare structural description.
func (a Amendment) EmbeddingText() string {
	if a.AIExplanation != "" {
		return a.AIExplanation
	}
	desc := a.ChangedLegislation
	if a.ChangedProvision != "" {
		desc += " " + a.ChangedProvision
	}
	if a.TypeOfEffect != "" {
		desc += ": " + a.TypeOfEffect
	}
	if a.AffectingLegislation != "" {
		desc += " by " + a.AffectingLegislation
	}
	return desc
}

// ExplanatoryNoteType enumerates the sections an explanatory note can belong to.
type ExplanatoryNoteType string

const (
	NoteOverview        ExplanatoryNoteType = "overview"
	NotePolicyBackground ExplanatoryNoteType = "policy_background"
	NoteLegalBackground ExplanatoryNoteType = "legal_background"
	NoteExtent          ExplanatoryNoteType = "extent"
	NoteProvisions      ExplanatoryNoteType = "provisions"
	NoteCommencement    ExplanatoryNoteType = "commencement"
)

// ExplanatoryNoteSectionType enumerates what kind of legislative unit a
// note's section field refers to.
type ExplanatoryNoteSectionType string

const (
	NoteSectionSection  ExplanatoryNoteSectionType = "section"
	NoteSectionSchedule ExplanatoryNoteSectionType = "schedule"
	NoteSectionPart     ExplanatoryNoteSectionType = "part"
)

// ExplanatoryNote is AI/author-written commentary attached to a Legislation.
type ExplanatoryNote struct {
	Base
	ID            string                     `json:"id"`
	LegislationID string                     `json:"legislation_id"`
	NoteType      ExplanatoryNoteType        `json:"note_type"`
	Route         []string                   `json:"route"`
	SectionType   ExplanatoryNoteSectionType `json:"section_type,omitempty"`
	SectionNumber string                     `json:"section_number,omitempty"`
	Order         int                        `json:"order"`
	Text          string                     `json:"text"`
}

func (n ExplanatoryNote) EmbeddingText() string {
	content := ""
	for i, r := range n.Route {
		content += repeatHash(i+2) + " " + r + "\n"
	}
	return content + n.Text
}

func repeatHash(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '#'
	}
	return string(b)
}

// Court is one of the UK courts/tribunals the judgments archive covers.
type Court string

const (
	CourtUKSC     Court = "UKSC"
	CourtUKPC     Court = "UKPC"
	CourtEWCA     Court = "EWCA"
	CourtEWHC     Court = "EWHC"
	CourtEWCR     Court = "EWCR"
	CourtEWCC     Court = "EWCC"
	CourtEWFC     Court = "EWFC"
	CourtEWCOP    Court = "EWCOP"
	CourtUKIPTrib Court = "UKIPTRIB"
	CourtEAT      Court = "EAT"
	CourtUKUT     Court = "UKUT"
	CourtUKFTT    Court = "UKFTT"
)

// CourtDivision is the division within a Court a judgment was heard in.
type CourtDivision string

const (
	DivisionCIV        CourtDivision = "CIV"
	DivisionCRIM       CourtDivision = "CRIM"
	DivisionT3         CourtDivision = "T3"
	DivisionADMIN      CourtDivision = "ADMIN"
	DivisionADMLTY     CourtDivision = "ADMLTY"
	DivisionCH         CourtDivision = "CH"
	DivisionCOMM       CourtDivision = "COMM"
	DivisionFAM        CourtDivision = "FAM"
	DivisionIPEC       CourtDivision = "IPEC"
	DivisionKB         CourtDivision = "KB"
	DivisionMercantile CourtDivision = "MERCANTILE"
	DivisionPAT        CourtDivision = "PAT"
	DivisionSCCO       CourtDivision = "SCCO"
	DivisionTCC        CourtDivision = "TCC"
	DivisionQB         CourtDivision = "QB"
	DivisionCosts      CourtDivision = "COSTS"
	DivisionAAC        CourtDivision = "AAC"
	DivisionIAC        CourtDivision = "IAC"
	DivisionLC         CourtDivision = "LC"
	DivisionGRC        CourtDivision = "GRC"
	DivisionTC         CourtDivision = "TC"
	DivisionB          CourtDivision = "B"
	DivisionT2         CourtDivision = "T2"
)

// Caselaw is a single judgment from the judgments archive.
type Caselaw struct {
	Base
	ID                   string        `json:"id"`
	Court                Court         `json:"court"`
	Division             CourtDivision `json:"division,omitempty"`
	Year                 int           `json:"year"`
	Number               string        `json:"number"`
	Name                 string        `json:"name"`
	CiteAs               string        `json:"cite_as,omitempty"`
	Date                 time.Time     `json:"date"`
	Header               string        `json:"header,omitempty"`
	Text                 string        `json:"text"`
	CaselawReferences    []string      `json:"caselaw_references,omitempty"`
	LegislationReferences []string     `json:"legislation_references,omitempty"`
}

func (c Caselaw) EmbeddingText() string {
	if c.Header != "" {
		return c.Header + "\n\n" + c.Text
	}
	return c.Text
}

// CaselawSection is one ordered heading/section within a judgment.
type CaselawSection struct {
	Base
	ID        string        `json:"id"`
	CaselawID string        `json:"caselaw_id"`
	Court     Court         `json:"court"`
	Division  CourtDivision `json:"division,omitempty"`
	Year      int           `json:"year"`
	Number    string        `json:"number"`
	CiteAs    string        `json:"cite_as,omitempty"`
	Route     []string      `json:"route"`
	Order     int           `json:"order"`
	Text      string        `json:"text"`
}

func (s CaselawSection) EmbeddingText() string { return s.Text }

// CaselawSummary is a lazily-generated AI summary of a Caselaw, one-to-one
// keyed by ids.SummaryID(caselaw.ID).
type CaselawSummary struct {
	Base
	ID                   string        `json:"id"`
	CaselawID            string        `json:"caselaw_id"`
	Court                Court         `json:"court"`
	Division             CourtDivision `json:"division,omitempty"`
	Year                 int           `json:"year"`
	Number               string        `json:"number"`
	CiteAs               string        `json:"cite_as,omitempty"`
	Text                 string        `json:"text"`
	AIModel              string        `json:"ai_model"`
	AITimestamp          time.Time     `json:"ai_timestamp"`
	SourceTextLength     int           `json:"source_text_length"`
	SourceTextTruncated  bool          `json:"source_text_truncated"`
}

func (s CaselawSummary) EmbeddingText() string { return s.Text }
