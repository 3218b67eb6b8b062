package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/neersetu/neersetu/internal/model"
)

// IngestOptions control how raw assessment CSVs map onto FactRecords.
type IngestOptions struct {
	// UsePostMonsoon prefers the post-monsoon level column when both
	// pre- and post-monsoon columns are present.
	UsePostMonsoon bool
}

// DefaultIngestOptions matches official INGRES exports.
func DefaultIngestOptions() IngestOptions {
	return IngestOptions{UsePostMonsoon: true}
}

var nonAlnumRx = regexp.MustCompile(`[^a-z0-9]+`)

// canonHeader normalizes a CSV header to a lowercase underscore token so
// different official exports ("State Name", "state_name") alias to one key.
func canonHeader(s string) string {
	return strings.Trim(nonAlnumRx.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "_"), "_")
}

func firstPresent(headers map[string]int, keys ...string) (int, bool) {
	for _, k := range keys {
		if idx, ok := headers[k]; ok {
			return idx, true
		}
	}
	return 0, false
}

// pickLevelColumn chooses the water-level column: the configured monsoon
// season when available, then the other season, then any depth/level column.
func pickLevelColumn(headers map[string]int, opts IngestOptions) (int, bool) {
	var pre, post, depth []int
	for h, idx := range headers {
		switch {
		case strings.Contains(h, "pre") && strings.Contains(h, "monsoon"):
			pre = append(pre, idx)
		case strings.Contains(h, "post") && strings.Contains(h, "monsoon"):
			post = append(post, idx)
		case strings.Contains(h, "depth") || strings.Contains(h, "level"):
			depth = append(depth, idx)
		}
	}
	pick := func(xs []int) (int, bool) {
		if len(xs) == 0 {
			return 0, false
		}
		min := xs[0]
		for _, x := range xs[1:] {
			if x < min {
				min = x
			}
		}
		return min, true
	}
	if opts.UsePostMonsoon {
		if idx, ok := pick(post); ok {
			return idx, true
		}
	} else {
		if idx, ok := pick(pre); ok {
			return idx, true
		}
	}
	if idx, ok := pick(pre); ok {
		return idx, true
	}
	if idx, ok := pick(post); ok {
		return idx, true
	}
	return pick(depth)
}

// NormalizeStage maps free-form stage strings to the canonical labels.
// Unrecognized values pass through trimmed.
func NormalizeStage(s string) model.Stage {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "over"):
		return model.StageOverExploit
	case strings.Contains(l, "semi"):
		return model.StageSemiCritical
	case strings.Contains(l, "critical"):
		return model.StageCritical
	case strings.Contains(l, "safe"):
		return model.StageSafe
	}
	return model.Stage(strings.TrimSpace(s))
}

// ReadCSV parses one assessment CSV into FactRecords, skipping rows without a
// parseable year or level. Column names are aliased across the variants seen
// in official exports.
func ReadCSV(r io.Reader, opts IngestOptions) ([]model.FactRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	headers := make(map[string]int, len(header))
	for i, h := range header {
		headers[canonHeader(h)] = i
	}

	stateIdx, okState := firstPresent(headers, "state", "state_name")
	distIdx, okDist := firstPresent(headers, "district", "district_name")
	blockIdx, okBlock := firstPresent(headers, "block", "assessment_unit", "taluka", "tehsil")
	yearIdx, okYear := firstPresent(headers, "year", "assessment_year")
	if !okState || !okDist || !okBlock || !okYear {
		return nil, fmt.Errorf("missing core columns (need state, district, block, year)")
	}
	stageIdx, okStage := firstPresent(headers, "stage", "stage_of_extraction", "category")
	levelIdx, okLevel := pickLevelColumn(headers, opts)
	if !okLevel {
		return nil, fmt.Errorf("no level column found")
	}

	var records []model.FactRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		if err != nil {
			continue
		}
		level, err := strconv.ParseFloat(strings.TrimSpace(row[levelIdx]), 64)
		if err != nil {
			continue
		}

		rec := model.FactRecord{
			State:    strings.TrimSpace(row[stateIdx]),
			District: strings.TrimSpace(row[distIdx]),
			Block:    strings.TrimSpace(row[blockIdx]),
			Year:     year,
			LevelM:   level,
		}
		if okStage {
			rec.Stage = NormalizeStage(row[stageIdx])
		}
		records = append(records, rec)
	}
	return records, nil
}
