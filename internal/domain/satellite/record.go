package satellite

import (
	"strconv"
	"strings"
	"time"
)

// StatusOperational is the default operational status for a satellite
// whose status is not known.
const StatusOperational = "Operational"

// Record represents one satellite inventory entry. Identifiers are
// backend-assigned: the list service assigns them on create in remote
// mode, the local counter assigns them in local mode.
type Record struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	NoradID         string `json:"norad_id"`
	IntlCode        string `json:"intl_code,omitempty"`
	MissionType     string `json:"mission_type,omitempty"`
	Status          string `json:"status"`
	OrbitType       string `json:"orbit_type,omitempty"`
	LaunchDate      string `json:"launch_date,omitempty"`
	Lifetime        string `json:"lifetime,omitempty"`
	ConstellationID *int   `json:"constellation_id,omitempty"`
	SensorNames     string `json:"sensor_names,omitempty"`
	PrimarySensor   string `json:"primary_sensor,omitempty"`
}

// Draft holds raw form or import values for a record before validation.
// Every field is a string as read from the input boundary; defaults are
// resolved during validation so downstream code never re-checks absence.
type Draft struct {
	Title           string
	NoradID         string
	IntlCode        string
	MissionType     string
	Status          string
	OrbitType       string
	LaunchDate      string
	Lifetime        string
	ConstellationID string
	SensorNames     string
	PrimarySensor   string
}

// Merge applies the form-editable fields of src onto r and returns the
// result. Fields not carried on the form, notably the identifier and any
// server-assigned data, are preserved from r.
func (r Record) Merge(src Record) Record {
	merged := r
	merged.Title = src.Title
	merged.NoradID = src.NoradID
	merged.IntlCode = src.IntlCode
	merged.MissionType = src.MissionType
	merged.Status = src.Status
	merged.OrbitType = src.OrbitType
	merged.LaunchDate = src.LaunchDate
	merged.Lifetime = src.Lifetime
	merged.ConstellationID = src.ConstellationID
	merged.SensorNames = src.SensorNames
	merged.PrimarySensor = src.PrimarySensor
	return merged
}

// SensorList returns the record's sensor names split out of the
// comma-delimited field, with blanks dropped.
func (r Record) SensorList() []string {
	if strings.TrimSpace(r.SensorNames) == "" {
		return nil
	}
	parts := strings.Split(r.SensorNames, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// dateLayouts are the accepted input layouts for launch dates, tried in
// order. The stored form is always YYYY-MM-DD.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// NormalizeDate normalizes a date string to YYYY-MM-DD. An empty input
// stays empty; a value that matches no known layout is kept as-is.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// ParseConstellationID parses an optional constellation identifier.
// Blank or non-numeric input yields nil.
func ParseConstellationID(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
