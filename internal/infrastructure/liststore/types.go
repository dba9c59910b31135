package liststore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sattrack/backend/internal/domain/satellite"
)

// FlexString decodes a JSON value that may arrive as a string, a number,
// or null into text. The service is inconsistent about numeric columns,
// and identifiers are kept as text for display-width consistency.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("liststore: cannot decode %q as text or number: %w", trimmed, err)
	}
	*f = FlexString(n.String())
	return nil
}

// digestResponse is the body of a context-info call.
type digestResponse struct {
	FormDigestValue          string `json:"FormDigestValue"`
	FormDigestTimeoutSeconds int    `json:"FormDigestTimeoutSeconds"`
}

// listResponse wraps a page of list items.
type listResponse[T any] struct {
	Value []T `json:"value"`
}

// satelliteItem is the wire form of one satellite list item.
type satelliteItem struct {
	ID              int        `json:"Id,omitempty"`
	Title           string     `json:"Title"`
	NoradID         FlexString `json:"NoradId"`
	IntlCode        string     `json:"IntlCode"`
	MissionType     string     `json:"MissionType"`
	Status          string     `json:"OperationalStatus"`
	OrbitType       string     `json:"OrbitType"`
	LaunchDate      string     `json:"LaunchDate"`
	Lifetime        string     `json:"Lifetime"`
	ConstellationID *int       `json:"ConstellationId"`
	SensorNames     string     `json:"SensorNames"`
	PrimarySensor   string     `json:"PrimarySensor"`
}

// satelliteSelect is the field projection for satellite list reads.
const satelliteSelect = "Id,Title,NoradId,IntlCode,MissionType,OperationalStatus,OrbitType,LaunchDate,Lifetime,ConstellationId,SensorNames,PrimarySensor"

// toRecord converts a wire item to a domain record, resolving defaults
// at the ingestion boundary so downstream code never re-checks absence.
// pos is the item's 1-based position in the fetched page.
func (it satelliteItem) toRecord(pos int) satellite.Record {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = "Satellite " + strconv.Itoa(pos)
	}
	status := strings.TrimSpace(it.Status)
	if status == "" {
		status = satellite.StatusOperational
	}
	return satellite.Record{
		ID:              it.ID,
		Title:           title,
		NoradID:         strings.TrimSpace(string(it.NoradID)),
		IntlCode:        strings.TrimSpace(it.IntlCode),
		MissionType:     strings.TrimSpace(it.MissionType),
		Status:          status,
		OrbitType:       strings.TrimSpace(it.OrbitType),
		LaunchDate:      satellite.NormalizeDate(it.LaunchDate),
		Lifetime:        strings.TrimSpace(it.Lifetime),
		ConstellationID: it.ConstellationID,
		SensorNames:     strings.TrimSpace(it.SensorNames),
		PrimarySensor:   strings.TrimSpace(it.PrimarySensor),
	}
}

// fromRecord converts a domain record to its wire form for mutations.
// The identifier travels in the URL, not the body.
func fromRecord(rec satellite.Record) satelliteItem {
	return satelliteItem{
		Title:           rec.Title,
		NoradID:         FlexString(rec.NoradID),
		IntlCode:        rec.IntlCode,
		MissionType:     rec.MissionType,
		Status:          rec.Status,
		OrbitType:       rec.OrbitType,
		LaunchDate:      rec.LaunchDate,
		Lifetime:        rec.Lifetime,
		ConstellationID: rec.ConstellationID,
		SensorNames:     rec.SensorNames,
		PrimarySensor:   rec.PrimarySensor,
	}
}

// sensorItem is the wire form of one sensor list item.
type sensorItem struct {
	ID             int    `json:"Id"`
	Title          string `json:"Title"`
	SensorType     string `json:"SensorType"`
	Description    string `json:"Description"`
	SatelliteNames string `json:"Satellites"`
}

// sensorSelect is the field projection for sensor list reads.
const sensorSelect = "Id,Title,SensorType,Description,Satellites"

// toSensor converts a wire item to the domain sensor form.
func (it sensorItem) toSensor(pos int) satellite.Sensor {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = "Sensor " + strconv.Itoa(pos)
	}
	return satellite.Sensor{
		ID:             it.ID,
		Title:          title,
		SensorType:     strings.TrimSpace(it.SensorType),
		Description:    strings.TrimSpace(it.Description),
		SatelliteNames: strings.TrimSpace(it.SatelliteNames),
	}
}
