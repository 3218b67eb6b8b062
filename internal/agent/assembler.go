package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/neersetu/neersetu/internal/model"
	"github.com/neersetu/neersetu/internal/rag"
	"github.com/neersetu/neersetu/internal/store"
)

// tableMarker is the exact tiny-table header; the composer checks for it to
// avoid emitting the table twice.
const tableMarker = "Year | Level (m)"

const tableHeader = tableMarker + "\n-----|----------"

// Assembler gathers evidence for a classified query: structured lookups per
// intent, then passage retrieval on the raw query. It never fails; every
// miss or backend error becomes a prose fragment.
type Assembler struct {
	store store.FactStore
	index rag.Index
	topK  int
}

// NewAssembler creates an assembler over the given stores.
func NewAssembler(facts store.FactStore, index rag.Index, topK int) *Assembler {
	if topK <= 0 {
		topK = 3
	}
	return &Assembler{store: facts, index: index, topK: topK}
}

// Assemble builds the evidence bundle for one query.
func (a *Assembler) Assemble(ctx context.Context, qc model.QueryContext) model.EvidenceBundle {
	var bundle model.EvidenceBundle

	switch {
	case qc.Intent == model.IntentTrend && len(qc.Years) >= 2:
		a.assembleTrend(ctx, &bundle, qc.Block, qc.Years[0], qc.Years[1])
	case qc.Intent == model.IntentStageLookup && len(qc.Years) >= 1:
		a.assembleStage(ctx, &bundle, qc.Block, qc.Years[0])
	case qc.Intent == model.IntentCompare && len(qc.Years) >= 2:
		a.assembleCompare(ctx, &bundle, qc.Block, qc.Years[0], qc.Years[1])
		// definition, mixed, and under-parameterized requests skip
		// structured lookups entirely
	}

	a.assemblePassages(ctx, &bundle, qc.RawText)
	return bundle
}

func (a *Assembler) assembleTrend(ctx context.Context, bundle *model.EvidenceBundle, block string, startYear, endYear int) {
	rows, err := a.store.LookupRange(ctx, block, startYear, endYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: fact store lookup failed: %v\n", err)
	}
	if len(rows) == 0 {
		bundle.AddFragment(fmt.Sprintf("insufficient data for %s %d-%d", block, startYear, endYear))
		return
	}

	first, last := rows[0], rows[len(rows)-1]
	span := last.Year - first.Year
	if span < 1 {
		span = 1
	}
	slope := (last.LevelM - first.LevelM) / float64(span)

	tail := rows
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	table := renderTinyTable(tail)
	bundle.TableMarkdown = table

	bundle.AddFragment(fmt.Sprintf("Trend for %s %d–%d: Δ≈%+.2f m/yr; latest stage %s.\n%s",
		block, first.Year, last.Year, slope, last.Stage, table))
	bundle.AddCitation(fmt.Sprintf("Source: %s; Years: %d–%d", a.store.SourceLabel(), first.Year, last.Year))
}

func (a *Assembler) assembleStage(ctx context.Context, bundle *model.EvidenceBundle, block string, year int) {
	rec, err := a.store.LookupExact(ctx, block, year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: fact store lookup failed: %v\n", err)
	}
	if rec == nil {
		bundle.AddFragment(fmt.Sprintf("insufficient data for %s %d", block, year))
		return
	}

	bundle.AddFragment(fmt.Sprintf("Stage for %s in %d: %s (level %.2f m).", block, year, rec.Stage, rec.LevelM))
	bundle.AddCitation(fmt.Sprintf("Source: %s; Year: %d", a.store.SourceLabel(), year))
}

func (a *Assembler) assembleCompare(ctx context.Context, bundle *model.EvidenceBundle, block string, year1, year2 int) {
	level1, ok1 := a.lookupLevel(ctx, block, year1)
	level2, ok2 := a.lookupLevel(ctx, block, year2)

	table := tableHeader + "\n" + compareRow(year1, level1, ok1) + "\n" + compareRow(year2, level2, ok2)
	bundle.TableMarkdown = table
	bundle.AddFragment("Comparison:\n" + table)

	if ok1 {
		bundle.AddCitation(fmt.Sprintf("Source: %s; Year: %d", a.store.SourceLabel(), year1))
	}
	if ok2 {
		bundle.AddCitation(fmt.Sprintf("Source: %s; Year: %d", a.store.SourceLabel(), year2))
	}

	if ok1 && ok2 && year2 > year1 {
		slope := (level2 - level1) / float64(year2-year1)
		bundle.AddFragment(fmt.Sprintf("Estimated Δ≈%+.2f m/yr over %d–%d.", slope, year1, year2))
	}
	if !ok1 && !ok2 {
		bundle.AddFragment("insufficient data for requested years.")
	}
}

// assemblePassages always runs, regardless of intent. Retrieval failures are
// downgraded to a diagnostic fragment; the pipeline must always produce a
// usable bundle.
func (a *Assembler) assemblePassages(ctx context.Context, bundle *model.EvidenceBundle, rawQuery string) {
	hits, err := a.index.Search(ctx, rawQuery, a.topK)
	if err != nil {
		bundle.AddFragment(fmt.Sprintf("(retrieval error suppressed: %v)", err))
		return
	}
	if len(hits) == 0 {
		return
	}

	lines := make([]string, 0, len(hits))
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("- %s (source: %s)", h.Text, h.Source))
		bundle.AddCitation("Doc: " + h.Source)
	}
	bundle.AddFragment("Policy:\n" + strings.Join(lines, "\n"))
}

func (a *Assembler) lookupLevel(ctx context.Context, block string, year int) (float64, bool) {
	level, ok, err := a.store.LookupLevel(ctx, block, year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: fact store lookup failed: %v\n", err)
		return 0, false
	}
	return level, ok
}

func renderTinyTable(rows []model.Reading) string {
	var b strings.Builder
	b.WriteString(tableHeader)
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("\n%d | %.2f", r.Year, r.LevelM))
	}
	return b.String()
}

func compareRow(year int, level float64, ok bool) string {
	if !ok {
		return fmt.Sprintf("%d | —", year)
	}
	return fmt.Sprintf("%d | %.2f", year, level)
}
