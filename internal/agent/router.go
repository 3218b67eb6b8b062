package agent

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/neersetu/neersetu/internal/model"
)

// Rule-based query understanding. The rules form a fixed decision table so
// routing stays reproducible; no semantic generalization is attempted.

var (
	yearRx      = regexp.MustCompile(`20\d\d`)
	blockRx     = regexp.MustCompile(`(?i)\bblock\s+([a-z0-9\-]+)`)
	forLetterRx = regexp.MustCompile(`(?i)\bfor\s+([a-z])\b`)
)

// stage keywords trigger a stage lookup when a year is present, otherwise a
// definition request
var stageKeywords = []string{"stage", "over-exploited", "critical", "safe"}

// definition keywords, English and Hindi
var definitionKeywords = []string{"what", "how", "explain", "meaning", "क्या", "कैसे"}

// Classify derives the intent, target block, and year list from a raw query.
//
// Priority order: compare beats trend beats stage/definition; anything
// unrecognized is "mixed" and handled by passage retrieval alone.
func Classify(query string) (model.Intent, string, []int) {
	ql := strings.ToLower(query)
	years := extractYears(query)
	block := extractBlock(query)

	var intent model.Intent
	switch {
	case strings.Contains(ql, "compare") || strings.Contains(ql, " vs "):
		intent = model.IntentCompare
	case strings.Contains(ql, "trend") ||
		(strings.Contains(ql, "from") && strings.Contains(ql, "to")) ||
		len(years) >= 2:
		intent = model.IntentTrend
	case containsAny(ql, stageKeywords):
		if len(years) >= 1 {
			intent = model.IntentStageLookup
		} else {
			intent = model.IntentDefinition
		}
	case containsAny(ql, definitionKeywords):
		intent = model.IntentDefinition
	default:
		intent = model.IntentMixed
	}

	return intent, block, years
}

// extractYears returns the distinct 4-digit 20xx tokens in order of first
// appearance.
func extractYears(query string) []int {
	var years []int
	seen := make(map[int]bool)
	for _, m := range yearRx.FindAllString(query, -1) {
		y, err := strconv.Atoi(m)
		if err != nil || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	return years
}

// extractBlock normalizes the target block name. Dataset identifiers follow
// the pattern "Block <X>", so the extractor is forgiving of casing and of
// the user omitting the word "Block" (writing "for A").
func extractBlock(query string) string {
	if m := blockRx.FindStringSubmatch(query); m != nil {
		token := m[1]
		if len(token) == 1 {
			return "Block " + strings.ToUpper(token)
		}
		name := "Block " + token
		// A duplicated literal "block" word collapses rather than
		// producing "Block Block <X>"
		name = strings.ReplaceAll(name, "Block block", "Block ")
		// Casers carry transform state and are not safe to share across
		// goroutines; one per call
		return strings.TrimSpace(cases.Title(language.English).String(name))
	}

	if m := forLetterRx.FindStringSubmatch(query); m != nil {
		return "Block " + strings.ToUpper(m[1])
	}

	return "Block A"
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
