package bulk

import (
	"strconv"
	"strings"
	"time"

	"github.com/sattrack/backend/internal/domain/satellite"
)

// exportColumns is the fixed export column order.
var exportColumns = []string{
	"Title",
	"NoradId",
	"IntlCode",
	"MissionType",
	"Status",
	"OrbitType",
	"LaunchDate",
	"Lifetime",
	"ConstellationId",
	"SensorNames",
	"PrimarySensor",
}

// Export renders the record collection as delimited text with a header
// line. Fields containing the delimiter are wrapped in double quotes so
// spreadsheet tools keep the columns aligned; the import side does not
// strip quotes, so round-tripping such a field keeps the quote marks.
func Export(records []satellite.Record) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportColumns, Delimiter))
	b.WriteString("\n")

	for _, rec := range records {
		constellation := ""
		if rec.ConstellationID != nil {
			constellation = strconv.Itoa(*rec.ConstellationID)
		}
		cells := []string{
			rec.Title,
			rec.NoradID,
			rec.IntlCode,
			rec.MissionType,
			rec.Status,
			rec.OrbitType,
			rec.LaunchDate,
			rec.Lifetime,
			constellation,
			rec.SensorNames,
			rec.PrimarySensor,
		}
		for i, cell := range cells {
			cells[i] = quoteIfNeeded(cell)
		}
		b.WriteString(strings.Join(cells, Delimiter))
		b.WriteString("\n")
	}
	return b.String()
}

// quoteIfNeeded wraps a field in double quotes when it contains the
// delimiter or a newline.
func quoteIfNeeded(s string) string {
	if strings.Contains(s, Delimiter) || strings.ContainsAny(s, "\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// ExportFilename returns the dated download name for an export.
func ExportFilename(now time.Time) string {
	return "satellite-inventory-" + now.Format("2006-01-02") + ".csv"
}
