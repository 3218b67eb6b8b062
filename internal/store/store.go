package store

import (
	"context"

	"github.com/neersetu/neersetu/internal/model"
)

// FactStore is the read-only query surface over the groundwater dataset.
//
// Absence of data is not an error: range lookups return an empty slice and
// point lookups return a nil record / false. Errors signal a failing backend
// (broken file, bad schema), which callers degrade to the insufficient-data
// path rather than aborting.
type FactStore interface {
	// LookupRange returns all readings for block within [startYear, endYear]
	// inclusive, ordered by year ascending.
	LookupRange(ctx context.Context, block string, startYear, endYear int) ([]model.Reading, error)

	// LookupExact returns the reading for (block, year), or nil if absent.
	LookupExact(ctx context.Context, block string, year int) (*model.Reading, error)

	// LookupLevel returns only the level for (block, year); ok is false
	// when no record exists.
	LookupLevel(ctx context.Context, block string, year int) (level float64, ok bool, err error)

	// SourceLabel identifies the store's provenance, used verbatim in
	// citations.
	SourceLabel() string
}
