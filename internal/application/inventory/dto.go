package inventory

import (
	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/sattrack/backend/internal/domain/shared"
	"github.com/sattrack/backend/internal/infrastructure/bulk"
)

// ValidationError carries the per-field failures of a rejected draft.
type ValidationError struct {
	Fields []satellite.FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return shared.ErrValidationFailed.Message
}

// Unwrap lets errors.Is match the validation sentinel
func (e *ValidationError) Unwrap() error {
	return shared.ErrValidationFailed
}

// SaveOutcome is the result of a create or update. Warning is non-empty
// when the record is held in memory but could not be persisted, which
// in local mode happens on a storage quota failure.
type SaveOutcome struct {
	Record  satellite.Record `json:"record"`
	Warning string           `json:"warning,omitempty"`
}

// ImportReport summarizes one bulk import run.
type ImportReport struct {
	BatchID   string          `json:"batch_id"`
	Total     int             `json:"total"`
	Imported  int             `json:"imported"`
	Skipped   int             `json:"skipped"`
	RowErrors []bulk.RowError `json:"row_errors,omitempty"`
	Warning   string          `json:"warning,omitempty"`
}

// Stats holds the aggregate counts computed from the unfiltered
// collection.
type Stats struct {
	TotalRecords int `json:"total_records"`
	TotalSensors int `json:"total_sensors"`
	Operational  int `json:"operational"`
}

// ViewState describes one projection request: an optional search term,
// at most one filter, and an optional sort column. When Order is empty
// the session's toggle behavior applies: re-sorting the current column
// flips the direction, sorting a new column starts ascending.
type ViewState struct {
	Search      string
	FilterKey   string // "status", "orbit", or empty for no filter
	FilterValue string
	SortColumn  string
	Order       string // "asc", "desc", or empty to toggle
}
