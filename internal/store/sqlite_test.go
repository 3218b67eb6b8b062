package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/neersetu/neersetu/internal/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "neersetu.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	records := []model.FactRecord{
		{State: "Raj", District: "D1", Block: "Block A", Year: 2015, LevelM: 12.1, Stage: model.StageSafe},
		{State: "Raj", District: "D1", Block: "Block A", Year: 2019, LevelM: 14.7, Stage: model.StageSemiCritical},
		{State: "Raj", District: "D1", Block: "Block A", Year: 2024, LevelM: 18.4, Stage: model.StageCritical},
		{State: "Raj", District: "D1", Block: "Block B", Year: 2022, LevelM: 9.7, Stage: model.StageSafe},
	}
	if err := s.Replace(context.Background(), records); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	return s
}

func TestSQLiteStore_LookupRange(t *testing.T) {
	s := testStore(t)

	rows, err := s.LookupRange(context.Background(), "block a", 2015, 2024)
	if err != nil {
		t.Fatalf("LookupRange failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].Year != 2015 || rows[2].Year != 2024 {
		t.Errorf("Expected ascending year order, got %v", rows)
	}
	if rows[2].Stage != model.StageCritical {
		t.Errorf("Expected Critical stage for 2024, got %s", rows[2].Stage)
	}
}

func TestSQLiteStore_LookupRange_Empty(t *testing.T) {
	s := testStore(t)

	rows, err := s.LookupRange(context.Background(), "Block Z", 2015, 2024)
	if err != nil {
		t.Fatalf("LookupRange failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestSQLiteStore_LookupExact(t *testing.T) {
	s := testStore(t)

	r, err := s.LookupExact(context.Background(), "Block B", 2022)
	if err != nil {
		t.Fatalf("LookupExact failed: %v", err)
	}
	if r == nil {
		t.Fatal("Expected a record, got nil")
	}
	if r.Stage != model.StageSafe || r.LevelM != 9.7 {
		t.Errorf("Unexpected record %+v", r)
	}

	r, err = s.LookupExact(context.Background(), "Block B", 1999)
	if err != nil {
		t.Fatalf("LookupExact failed: %v", err)
	}
	if r != nil {
		t.Errorf("Expected nil for absent year, got %+v", r)
	}
}

func TestSQLiteStore_LookupLevel(t *testing.T) {
	s := testStore(t)

	level, ok, err := s.LookupLevel(context.Background(), "Block A", 2019)
	if err != nil {
		t.Fatalf("LookupLevel failed: %v", err)
	}
	if !ok || level != 14.7 {
		t.Errorf("Expected 14.7/true, got %v/%v", level, ok)
	}

	_, ok, err = s.LookupLevel(context.Background(), "Block A", 2000)
	if err != nil {
		t.Fatalf("LookupLevel failed: %v", err)
	}
	if ok {
		t.Error("Expected ok=false for absent year")
	}
}

func TestSQLiteStore_SourceLabel(t *testing.T) {
	s := testStore(t)
	if s.SourceLabel() != "SQLite gw_levels" {
		t.Errorf("Unexpected source label %q", s.SourceLabel())
	}
}

func TestSQLiteStore_ReplaceIsIdempotent(t *testing.T) {
	s := testStore(t)

	if err := s.Replace(context.Background(), []model.FactRecord{
		{Block: "Block C", Year: 2020, LevelM: 5.0, Stage: model.StageSafe},
	}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 row after replace, got %d", n)
	}
}
