package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapsHeaderAliases(t *testing.T) {
	text := "Satellite Name,NORAD ID,Operational Status,Orbit\n" +
		"Landsat 9,49260,Operational,LEO\n"

	result := Parse(text)

	require.Len(t, result.Drafts, 1)
	assert.Equal(t, "Landsat 9", result.Drafts[0].Title)
	assert.Equal(t, "49260", result.Drafts[0].NoradID)
	assert.Equal(t, "Operational", result.Drafts[0].Status)
	assert.Equal(t, "LEO", result.Drafts[0].OrbitType)
}

func TestParseSkipsBlankRowsAndRejectsPartialOnes(t *testing.T) {
	text := "Title,NoradId,Status\n" +
		"Landsat 9,49260,Operational\n" +
		",,\n" +
		",12345,Operational\n" +
		"No Catalog,,Operational\n"

	result := Parse(text)

	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Drafts, 1)
	assert.Equal(t, "Landsat 9", result.Drafts[0].Title)

	require.Len(t, result.Rejected.Errors, 2)
	assert.Equal(t, "title", result.Rejected.Errors[0].Field)
	assert.Equal(t, 4, result.Rejected.Errors[0].Line)
	assert.Equal(t, "norad_id", result.Rejected.Errors[1].Field)
	assert.Equal(t, 5, result.Rejected.Errors[1].Line)
}

func TestParseDoesNotUnquoteFields(t *testing.T) {
	// Quoted fields split on the raw delimiter; the quote marks stay in
	// the cell values.
	text := "Title,NoradId,Status\n" +
		"\"Sentinel, 2A\",40697,Operational\n"

	result := Parse(text)

	require.Len(t, result.Drafts, 1)
	assert.Equal(t, `"Sentinel`, result.Drafts[0].Title)
	assert.Equal(t, ` 2A"`, result.Drafts[0].NoradID)
}

func TestParseIgnoresUnknownColumnsAndShortRows(t *testing.T) {
	text := "Title,Mystery,NoradId,Status\n" +
		"Terra,whatever,25994,Operational\n" +
		"Aqua,x,27424\n"

	result := Parse(text)

	require.Len(t, result.Drafts, 2)
	assert.Equal(t, "Terra", result.Drafts[0].Title)
	assert.Equal(t, "25994", result.Drafts[0].NoradID)
	assert.Equal(t, "Aqua", result.Drafts[1].Title)
	assert.Empty(t, result.Drafts[1].Status)
}

func TestParseHandlesCRLFAndBlankLines(t *testing.T) {
	text := "\r\nTitle,NoradId,Status\r\n\r\nTerra,25994,Operational\r\n"

	result := Parse(text)

	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Drafts, 1)
	assert.Equal(t, "Terra", result.Drafts[0].Title)
}

func TestParseEmptyInput(t *testing.T) {
	result := Parse("")
	assert.Zero(t, result.Total)
	assert.Empty(t, result.Drafts)
	assert.False(t, result.Rejected.HasErrors())
}
