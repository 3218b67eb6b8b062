package agent

import (
	"reflect"
	"sync"
	"testing"

	"github.com/neersetu/neersetu/internal/model"
)

func TestClassify_Intent(t *testing.T) {
	cases := []struct {
		query string
		want  model.Intent
	}{
		{"2015–2024 groundwater trend for Block A?", model.IntentTrend},
		{"groundwater trend for Block A", model.IntentTrend},
		{"levels from 2018 to latest for Block B", model.IntentTrend},
		{"how did levels change 2016 2021", model.IntentTrend},
		{"Compare 2019 vs 2024 groundwater level for Block A.", model.IntentCompare},
		{"2019 vs 2024 for Block A", model.IntentCompare},
		{"compare Block A and Block B", model.IntentCompare},
		{"Stage of extraction for Block B in 2022?", model.IntentStageLookup},
		{"is Block C safe in 2023", model.IntentStageLookup},
		{"what does over-exploited stage mean", model.IntentDefinition},
		{"explain groundwater recharge", model.IntentDefinition},
		{"क्या है भूजल स्तर", model.IntentDefinition},
		{"rainfall next week", model.IntentMixed},
	}
	for _, tc := range cases {
		intent, _, _ := Classify(tc.query)
		if intent != tc.want {
			t.Errorf("Classify(%q) intent = %s, want %s", tc.query, intent, tc.want)
		}
	}
}

func TestClassify_CompareOverridesTrend(t *testing.T) {
	// Two years present and "trend"-like wording, but compare wins
	intent, _, years := Classify("compare trend 2019 vs 2024 for Block A")
	if intent != model.IntentCompare {
		t.Errorf("Expected compare, got %s", intent)
	}
	if !reflect.DeepEqual(years, []int{2019, 2024}) {
		t.Errorf("Unexpected years %v", years)
	}
}

func TestExtractYears_DistinctOrdered(t *testing.T) {
	years := extractYears("2024 then 2019 then 2024 again")
	if !reflect.DeepEqual(years, []int{2024, 2019}) {
		t.Errorf("Expected [2024 2019], got %v", years)
	}

	if years := extractYears("levels in 1999"); len(years) != 0 {
		t.Errorf("Expected no years outside 20xx, got %v", years)
	}
}

func TestExtractBlock(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"trend for Block A", "Block A"},           // canonical form is idempotent
		{"trend for block b.", "Block B"},          // case and punctuation
		{"stage for BLOCK C in 2022", "Block C"},   //
		{"recharge for a", "Block A"},              // bare single letter after "for"
		{"block kanpur stage", "Block Kanpur"},     // multi-letter token title-cased
		{"explain groundwater stages", "Block A"},  // default
		{"block ramgarh-east 2020", "Block Ramgarh-East"},
	}
	for _, tc := range cases {
		_, block, _ := Classify(tc.query)
		if block != tc.want {
			t.Errorf("Classify(%q) block = %q, want %q", tc.query, block, tc.want)
		}
	}
}

func TestClassify_Concurrent(t *testing.T) {
	// Multi-letter block names exercise the title-casing path; each request
	// must classify independently with no shared state.
	queries := []struct {
		query string
		block string
	}{
		{"trend for block ramgarh-east 2015 2024", "Block Ramgarh-East"},
		{"stage for block kanpur in 2022", "Block Kanpur"},
		{"compare 2019 vs 2024 for block jaipur-rural", "Block Jaipur-Rural"},
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tc := queries[i%len(queries)]
				_, block, _ := Classify(tc.query)
				if block != tc.block {
					t.Errorf("Classify(%q) block = %q, want %q", tc.query, block, tc.block)
				}
			}
		}()
	}
	wg.Wait()
}

func TestClassify_StageWithoutYearIsDefinition(t *testing.T) {
	intent, _, _ := Classify("what is the stage for Block A")
	if intent != model.IntentDefinition {
		t.Errorf("Expected definition without a year, got %s", intent)
	}
}
