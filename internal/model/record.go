package model

// FactRecord is one groundwater assessment row: the measured water level and
// extraction stage for a block in a given year. One record per (block, year).
type FactRecord struct {
	State    string  `json:"state,omitempty"`
	District string  `json:"district,omitempty"`
	Block    string  `json:"block"`
	Year     int     `json:"year"`
	LevelM   float64 `json:"level_m"`
	Stage    Stage   `json:"stage"`
}

// Reading is the per-year slice of a record returned by store lookups.
type Reading struct {
	Year   int     `json:"year"`
	LevelM float64 `json:"level_m"`
	Stage  Stage   `json:"stage"`
}

// Stage is the categorical groundwater sustainability label assigned by the
// assessment authority.
type Stage string

const (
	StageSafe         Stage = "Safe"
	StageSemiCritical Stage = "Semi-critical"
	StageCritical     Stage = "Critical"
	StageOverExploit  Stage = "Over-exploited"
)

// Passage is one retrievable policy/glossary snippet.
type Passage struct {
	Text   string `json:"text"`
	Source string `json:"source"` // document identifier used verbatim in citations
}

// Intent classifies what a query is asking for.
type Intent string

const (
	IntentTrend       Intent = "trend"
	IntentStageLookup Intent = "stage_lookup"
	IntentCompare     Intent = "compare"
	IntentDefinition  Intent = "definition"
	IntentMixed       Intent = "mixed"
)

// QueryContext holds everything the router extracted from one raw query.
// Created per request and discarded after the response.
type QueryContext struct {
	RawText string
	Intent  Intent
	Block   string
	Years   []int // distinct 20xx tokens, order of first appearance
}

// EvidenceBundle is the intermediate product of grounding: the prose fragments
// and citations the composer turns into the final answer.
//
// TableMarkdown, when non-empty, is a two-column (year, level) markdown table
// that must appear in the final answer exactly once.
type EvidenceBundle struct {
	Fragments     []string
	TableMarkdown string
	Citations     []string
}

// HasEvidence reports whether any fragment was collected.
func (b *EvidenceBundle) HasEvidence() bool {
	return len(b.Fragments) > 0
}

// AddFragment appends a prose fragment, preserving order.
func (b *EvidenceBundle) AddFragment(s string) {
	b.Fragments = append(b.Fragments, s)
}

// AddCitation records a citation string. Duplicates are allowed here; the
// composer de-duplicates and sorts at render time.
func (b *EvidenceBundle) AddCitation(s string) {
	b.Citations = append(b.Citations, s)
}
