package bulk

import (
	"strings"

	"github.com/sattrack/backend/internal/domain/satellite"
)

// Delimiter is the field separator for import and export text.
const Delimiter = ","

// headerAliases maps normalized header names to draft field keys. The
// normalization lowercases and strips spaces, hyphens and underscores,
// so "NORAD ID", "norad_id" and "NoradId" all land on the same column.
var headerAliases = map[string]string{
	"title":             "title",
	"name":              "title",
	"satellite":         "title",
	"satellitename":     "title",
	"norad":             "norad_id",
	"noradid":           "norad_id",
	"noradcatalogid":    "norad_id",
	"catalognumber":     "norad_id",
	"intlcode":          "intl_code",
	"internationalid":   "intl_code",
	"cosparid":          "intl_code",
	"missiontype":       "mission_type",
	"mission":           "mission_type",
	"status":            "status",
	"operationalstatus": "status",
	"orbittype":         "orbit_type",
	"orbit":             "orbit_type",
	"launchdate":        "launch_date",
	"launched":          "launch_date",
	"lifetime":          "lifetime",
	"constellationid":   "constellation_id",
	"constellation":     "constellation_id",
	"sensornames":       "sensor_names",
	"sensors":           "sensor_names",
	"primarysensor":     "primary_sensor",
}

// normalizeHeader collapses a header cell to its alias lookup key.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(h)
	return h
}

// ParseResult is the outcome of parsing one import payload. Lines holds
// the 1-based source line of each accepted draft.
type ParseResult struct {
	Drafts   []satellite.Draft
	Lines    []int
	Rejected ErrorCollection
	// Total counts data rows seen, accepted or not.
	Total int
}

// Parse splits delimited text into record drafts. The first non-empty
// line is the header; unrecognized columns are ignored. Field values are
// split on the raw delimiter with no quote handling, matching the
// historical import format this feed has always used. Rows missing both
// a title and a catalog number are skipped as blanks; rows missing one
// of the two are rejected with a row error.
func Parse(text string) ParseResult {
	var result ParseResult

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var columns []string
	lineNo := 0
	for _, line := range lines {
		lineNo++
		if strings.TrimSpace(line) == "" {
			continue
		}
		if columns == nil {
			for _, h := range strings.Split(line, Delimiter) {
				columns = append(columns, headerAliases[normalizeHeader(h)])
			}
			continue
		}

		result.Total++
		cells := strings.Split(line, Delimiter)
		draft := satellite.Draft{}
		for i, cell := range cells {
			if i >= len(columns) {
				break
			}
			value := strings.TrimSpace(cell)
			switch columns[i] {
			case "title":
				draft.Title = value
			case "norad_id":
				draft.NoradID = value
			case "intl_code":
				draft.IntlCode = value
			case "mission_type":
				draft.MissionType = value
			case "status":
				draft.Status = value
			case "orbit_type":
				draft.OrbitType = value
			case "launch_date":
				draft.LaunchDate = value
			case "lifetime":
				draft.Lifetime = value
			case "constellation_id":
				draft.ConstellationID = value
			case "sensor_names":
				draft.SensorNames = value
			case "primary_sensor":
				draft.PrimarySensor = value
			}
		}

		hasTitle := strings.TrimSpace(draft.Title) != ""
		hasNorad := strings.TrimSpace(draft.NoradID) != ""
		switch {
		case !hasTitle && !hasNorad:
			result.Total--
		case !hasTitle:
			result.Rejected.Add(lineNo, "title", "satellite name is missing")
		case !hasNorad:
			result.Rejected.Add(lineNo, "norad_id", "NORAD catalog number is missing")
		default:
			result.Drafts = append(result.Drafts, draft)
			result.Lines = append(result.Lines, lineNo)
		}
	}
	return result
}
