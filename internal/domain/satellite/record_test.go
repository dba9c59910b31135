package satellite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalized", "2021-09-27", "2021-09-27"},
		{"rfc3339", "2021-09-27T14:12:00Z", "2021-09-27"},
		{"datetime without zone", "2021-09-27T14:12:00", "2021-09-27"},
		{"slash ymd", "2021/09/27", "2021-09-27"},
		{"slash mdy", "09/27/2021", "2021-09-27"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"unparseable kept as-is", "late 2021", "late 2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDate(tt.input))
		})
	}
}

func TestParseConstellationID(t *testing.T) {
	assert.Nil(t, ParseConstellationID(""))
	assert.Nil(t, ParseConstellationID("  "))
	assert.Nil(t, ParseConstellationID("starlink"))

	id := ParseConstellationID(" 42 ")
	require.NotNil(t, id)
	assert.Equal(t, 42, *id)
}

func TestMergePreservesIdentifier(t *testing.T) {
	existing := Record{
		ID:      7,
		Title:   "Old title",
		NoradID: "11111",
		Status:  "Operational",
	}
	incoming := Record{
		Title:   "New title",
		NoradID: "22222",
		Status:  "Decommissioned",
	}

	merged := existing.Merge(incoming)

	assert.Equal(t, 7, merged.ID)
	assert.Equal(t, "New title", merged.Title)
	assert.Equal(t, "22222", merged.NoradID)
	assert.Equal(t, "Decommissioned", merged.Status)
}

func TestSensorList(t *testing.T) {
	rec := Record{SensorNames: " OLI-2 , , TIRS-2 "}
	assert.Equal(t, []string{"OLI-2", "TIRS-2"}, rec.SensorList())

	assert.Nil(t, Record{}.SensorList())
	assert.Nil(t, Record{SensorNames: "  "}.SensorList())
}
