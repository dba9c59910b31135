package dto

import "github.com/sattrack/backend/internal/domain/satellite"

// RecordRequest is the create/update payload. Every field is a string as
// typed; defaulting and normalization happen in the domain validator.
type RecordRequest struct {
	Title           string `json:"title"`
	NoradID         string `json:"norad_id"`
	IntlCode        string `json:"intl_code"`
	MissionType     string `json:"mission_type"`
	Status          string `json:"status"`
	OrbitType       string `json:"orbit_type"`
	LaunchDate      string `json:"launch_date"`
	Lifetime        string `json:"lifetime"`
	ConstellationID string `json:"constellation_id"`
	SensorNames     string `json:"sensor_names"`
	PrimarySensor   string `json:"primary_sensor"`
}

// ToDraft converts the request payload into a domain draft
func (r RecordRequest) ToDraft() satellite.Draft {
	return satellite.Draft{
		Title:           r.Title,
		NoradID:         r.NoradID,
		IntlCode:        r.IntlCode,
		MissionType:     r.MissionType,
		Status:          r.Status,
		OrbitType:       r.OrbitType,
		LaunchDate:      r.LaunchDate,
		Lifetime:        r.Lifetime,
		ConstellationID: r.ConstellationID,
		SensorNames:     r.SensorNames,
		PrimarySensor:   r.PrimarySensor,
	}
}

// ListQuery carries the projection parameters of a list request.
type ListQuery struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Orbit  string `form:"orbit"`
	Sort   string `form:"sort"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// ImportRequest is the bulk import payload.
type ImportRequest struct {
	Text string `json:"text" binding:"required"`
}

// HealthResponse reports liveness and the selected backend.
type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}
