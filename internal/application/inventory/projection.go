package inventory

import (
	"sort"
	"strings"

	"github.com/sattrack/backend/internal/domain/satellite"
)

// Filter keys accepted by the projection.
const (
	FilterStatus = "status"
	FilterOrbit  = "orbit"
)

// sortKeys maps a sortable column name to its comparable value.
var sortKeys = map[string]func(satellite.Record) string{
	"title":       func(r satellite.Record) string { return strings.ToLower(r.Title) },
	"norad_id":    func(r satellite.Record) string { return padNumeric(r.NoradID) },
	"status":      func(r satellite.Record) string { return strings.ToLower(r.Status) },
	"orbit_type":  func(r satellite.Record) string { return strings.ToLower(r.OrbitType) },
	"launch_date": func(r satellite.Record) string { return r.LaunchDate },
}

// padNumeric left-pads a digit string so lexical order matches numeric
// order. Non-digit values sort after all numeric ones.
func padNumeric(s string) string {
	if s == "" {
		return "~"
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "~" + strings.ToLower(s)
		}
	}
	return strings.Repeat("0", 12-min(len(s), 12)) + s
}

// View applies the session's projection to the current collection. The
// projection is derived state: the underlying collection is never
// reordered or reduced. Sorting an already-sorted column flips the
// direction; an explicit order in the state pins it instead.
func (s *Service) View(state ViewState) []satellite.Record {
	s.mu.Lock()
	if state.SortColumn != "" {
		switch state.Order {
		case "asc":
			s.sortColumn, s.sortDesc = state.SortColumn, false
		case "desc":
			s.sortColumn, s.sortDesc = state.SortColumn, true
		default:
			if s.sortColumn == state.SortColumn {
				s.sortDesc = !s.sortDesc
			} else {
				s.sortColumn, s.sortDesc = state.SortColumn, false
			}
		}
	}
	column, desc := s.sortColumn, s.sortDesc
	records := make([]satellite.Record, len(s.records))
	copy(records, s.records)
	s.mu.Unlock()

	return Project(records, state.Search, state.FilterKey, state.FilterValue, column, desc)
}

// Project filters and orders a record slice. Search matches a
// case-insensitive substring of the title or catalog number; at most one
// filter applies. The input slice is consumed.
func Project(records []satellite.Record, search, filterKey, filterValue, sortColumn string, sortDesc bool) []satellite.Record {
	out := records[:0]
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, rec := range records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(rec.Title), needle) &&
			!strings.Contains(strings.ToLower(rec.NoradID), needle) {
			continue
		}
		if !matchesFilter(rec, filterKey, filterValue) {
			continue
		}
		out = append(out, rec)
	}

	if key, ok := sortKeys[sortColumn]; ok {
		sort.SliceStable(out, func(i, j int) bool {
			if sortDesc {
				return key(out[i]) > key(out[j])
			}
			return key(out[i]) < key(out[j])
		})
	}
	return out
}

// matchesFilter applies the single active filter, if any.
func matchesFilter(rec satellite.Record, key, value string) bool {
	switch key {
	case FilterStatus:
		return strings.EqualFold(rec.Status, value)
	case FilterOrbit:
		return strings.EqualFold(rec.OrbitType, value)
	default:
		return true
	}
}
