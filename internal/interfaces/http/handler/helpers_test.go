package handler

import (
	"strconv"
	"testing"

	"github.com/sattrack/backend/internal/application/inventory"
	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/stretchr/testify/require"
)

func validTestDraft() satellite.Draft {
	return satellite.Draft{Title: "Landsat 9", NoradID: "49260", Status: "Operational"}
}

func recordPath(id int) string {
	return "/api/v1/records/" + strconv.Itoa(id)
}

func seedRecords(t *testing.T, svc *inventory.Service) {
	t.Helper()
	drafts := []satellite.Draft{
		{Title: "Landsat 9", NoradID: "49260", Status: "Operational", OrbitType: "LEO"},
		{Title: "Terra", NoradID: "25994", Status: "Operational", OrbitType: "LEO"},
		{Title: "GOES-18", NoradID: "51850", Status: "Operational", OrbitType: "GEO"},
	}
	for _, d := range drafts {
		_, err := svc.Create(t.Context(), d)
		require.NoError(t, err)
	}
}
