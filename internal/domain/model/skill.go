// Package model contains domain models passed between pipeline stages.
package model

// EdgeTypePrerequisite is the only relationship type the builder emits.
const EdgeTypePrerequisite = "prerequisite"

// RitBand is a numeric difficulty band read from a "RIT Score" header.
// Min and Max are nil when the corresponding side is open or unparseable.
type RitBand struct {
	Label        string `json:"label"`
	Min          *int   `json:"min"`
	Max          *int   `json:"max"`
	MinInclusive bool   `json:"minInclusive"`
	MaxInclusive bool   `json:"maxInclusive"`
	SourceID     string `json:"sourceId"`
}

// EffectiveLower returns the lowest score the band admits.
// An open-lower band falls back to its upper bound.
func (b RitBand) EffectiveLower() (int, bool) {
	switch {
	case b.Min != nil:
		if b.MinInclusive {
			return *b.Min, true
		}
		return *b.Min + 1, true
	case b.Max != nil:
		if b.MaxInclusive {
			return *b.Max, true
		}
		return *b.Max - 1, true
	}
	return 0, false
}

// EffectiveUpper returns the highest score the band admits.
// An open-upper band falls back to its lower bound.
func (b RitBand) EffectiveUpper() (int, bool) {
	switch {
	case b.Max != nil:
		if b.MaxInclusive {
			return *b.Max, true
		}
		return *b.Max - 1, true
	case b.Min != nil:
		if b.MinInclusive {
			return *b.Min, true
		}
		return *b.Min + 1, true
	}
	return 0, false
}

// RawSkillItem is one numbered line of a source document.
type RawSkillItem struct {
	ID        string   // sourceId-<per-document counter>
	Number    int      // number printed in front of the line
	Ordinal   int      // position across every parsed document
	Text      string   // description as written
	GradeSpan string   // e.g. "K-2"
	SourceID  string   // document id
	Domain    string   // last domain header seen
	Strand    string   // last strand header seen
	Cluster   string   // last cluster header seen
	RitBand   *RitBand // nil until a "RIT Score" line is seen
}

// Range is a numeric span extracted from a skill description ("up to 120", "30-90").
type Range struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// NormalizedSkill is the canonical reading of a raw skill description.
type NormalizedSkill struct {
	Key             string
	BaseDescriptor  string
	Verb            string
	Focus           string
	Range           *Range
	Representations []string
	Contexts        []string
	Operation       string
	VerbFallback    bool
}

// Source references a document (and band) that contributed to a node.
type Source struct {
	SourceID  string `json:"sourceId"`
	GradeSpan string `json:"gradeSpan"`
	RitLabel  string `json:"ritLabel"`
}

// SkillNode is one vertex of the skill graph as written to skills.json.
type SkillNode struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Verb            string    `json:"verb"`
	Focus           string    `json:"focus"`
	Range           *Range    `json:"range"`
	Representations []string  `json:"representations"`
	Contexts        []string  `json:"contexts"`
	Operation       string    `json:"operation"`
	GradeSpans      []string  `json:"gradeSpans"`
	Domains         []string  `json:"domains"`
	Strands         []string  `json:"strands"`
	Clusters        []string  `json:"clusters"`
	RitBands        []RitBand `json:"ritBands"`
	RitAnchor       *int      `json:"ritAnchor"`
	RitStretch      *int      `json:"ritStretch"`
	UnitID          string    `json:"unitId"`
	UnitName        string    `json:"unitName"`
	Sources         []Source  `json:"sources"`
	Samples         []string  `json:"samples"`

	// SourceOrder is the smallest item ordinal that contributed to the node.
	SourceOrder int `json:"-"`
	// BaseDescriptor is the lowercased verb and focus without the range.
	BaseDescriptor string `json:"-"`
}

// Edge is a directed relationship From -> To (From is a prerequisite of To).
type Edge struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Rationale string `json:"rationale"`
}

// NewEdge builds an edge with the canonical "<type>-<from>-<to>" id.
func NewEdge(edgeType, from, to, rationale string) Edge {
	return Edge{
		ID:        edgeType + "-" + from + "-" + to,
		Type:      edgeType,
		From:      from,
		To:        to,
		Rationale: rationale,
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
