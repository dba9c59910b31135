package satellite

// Sensor represents one entry in the read-only sensor catalog. Sensors
// are loaded once per session from the active backend; there is no write
// path for them.
type Sensor struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	SensorType     string `json:"sensor_type,omitempty"`
	Description    string `json:"description,omitempty"`
	SatelliteNames string `json:"satellite_names,omitempty"`
}
