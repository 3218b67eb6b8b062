package agent

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/neersetu/neersetu/internal/llm"
	"github.com/neersetu/neersetu/internal/model"
)

// systemPrompt pins the backend's behavior: grounded answers only, no inline
// citation lines (the system owns the footer), answer in the user's language.
const systemPrompt = `You are NeerSetu, an INGRES groundwater copilot.
- Use the provided tool context for facts before answering.
- Do NOT claim data was provided by the user/copilot.
- Always include 'Source' and 'Year(s)' for numeric/time-series facts.
- Do NOT put any 'Citations:' or 'Source:' lines in the body; the system appends a Citations footer.
- Answer in user's language (Hindi/English).
- Format: brief bullets + tiny table (if trend/comparison) + citations at end.
- If data is missing, say 'insufficient data' and suggest next steps.`

// Composer turns an evidence bundle into final user-facing text. With a
// backend configured it delegates phrasing to the model and sanitizes the
// result; without one (or when the backend fails) it formats deterministically.
type Composer struct {
	backend llm.Backend // nil = deterministic only
}

// NewComposer creates a composer. backend may be nil.
func NewComposer(backend llm.Backend) *Composer {
	return &Composer{backend: backend}
}

// Compose renders the final answer. It never fails: any backend error falls
// back to the deterministic strategy with the same evidence.
func (c *Composer) Compose(ctx context.Context, bundle model.EvidenceBundle, rawQuery string) string {
	if c.backend == nil {
		return c.composeFallback(bundle)
	}

	answer, err := c.backend.Generate(ctx, systemPrompt, userPrompt(bundle, rawQuery))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s generation failed, using deterministic composer: %v\n",
			c.backend.Name(), err)
		return c.composeFallback(bundle)
	}

	answer = Sanitize(answer)
	return finalize(answer, bundle)
}

// userPrompt embeds the raw query and all evidence fragments in one user turn.
func userPrompt(bundle model.EvidenceBundle, rawQuery string) string {
	context := "No tool output."
	if bundle.HasEvidence() {
		context = strings.Join(bundle.Fragments, "\n\n")
	}
	return fmt.Sprintf("User: %s\n\nContext from tools:\n%s\n\n"+
		"Compose a grounded answer. Do NOT include any 'Citations:' or 'Source:' "+
		"lines in the body; the system will append the Citations footer.",
		rawQuery, context)
}

// composeFallback is the deterministic local strategy: well-formed output with
// zero external dependencies available.
func (c *Composer) composeFallback(bundle model.EvidenceBundle) string {
	parts := []string{"**Answer**"}
	parts = append(parts, bundle.Fragments...)

	if bundle.TableMarkdown != "" && !strings.Contains(strings.Join(bundle.Fragments, "\n\n"), tableMarker) {
		parts = append(parts, "**Tiny table**\n"+bundle.TableMarkdown)
	}
	if len(bundle.Citations) > 0 {
		parts = append(parts, "**Citations:** "+renderCitations(bundle.Citations))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// finalize appends the tiny table (unless the model already rendered it) and
// exactly one citations footer to backend-produced text.
func finalize(answer string, bundle model.EvidenceBundle) string {
	if bundle.TableMarkdown != "" && !strings.Contains(answer, tableMarker) {
		answer += "\n\n**Tiny table**\n" + bundle.TableMarkdown
	}
	if len(bundle.Citations) > 0 {
		answer += "\n\n**Citations:** " + renderCitations(bundle.Citations)
	}
	return strings.TrimSpace(answer)
}

// renderCitations de-duplicates and sorts lexicographically for determinism.
func renderCitations(citations []string) string {
	seen := make(map[string]bool, len(citations))
	unique := make([]string, 0, len(citations))
	for _, c := range citations {
		if !seen[c] {
			seen[c] = true
			unique = append(unique, c)
		}
	}
	sort.Strings(unique)
	return strings.Join(unique, " | ")
}
