package liststore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/sattrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDigest = "0xABCDEF,30 Aug 2026 10:00:00 -0000"

// testService is a minimal in-memory stand-in for the list service.
type testService struct {
	digestCalls int
	failDigest  bool

	items     []map[string]any
	mutations []*http.Request
	bodies    []map[string]any
	failItems bool
}

func (s *testService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/contextinfo", func(w http.ResponseWriter, r *http.Request) {
		s.digestCalls++
		if s.failDigest {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"FormDigestValue":          testDigest,
			"FormDigestTimeoutSeconds": 1800,
		})
	})
	mux.HandleFunc("/web/lists/getbytitle('Satellites')/items", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if s.failItems {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"value": s.items})
			return
		}
		s.recordMutation(r)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/web/lists/getbytitle('Satellites')/items(7)", func(w http.ResponseWriter, r *http.Request) {
		s.recordMutation(r)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (s *testService) recordMutation(r *http.Request) {
	s.mutations = append(s.mutations, r.Clone(context.Background()))
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		s.bodies = append(s.bodies, body)
	} else {
		s.bodies = append(s.bodies, nil)
	}
}

func newTestAdapter(t *testing.T, svc *testService) *Adapter {
	t.Helper()
	server := httptest.NewServer(svc.handler())
	t.Cleanup(server.Close)

	adapter, err := New(Config{
		BaseURL:       server.URL,
		SatelliteList: "Satellites",
		SensorList:    "Sensors",
		Timeout:       5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func TestPingFetchesDigest(t *testing.T) {
	svc := &testService{}
	adapter := newTestAdapter(t, svc)

	require.NoError(t, adapter.Ping(context.Background()))
	assert.Equal(t, 1, svc.digestCalls)
}

func TestLoadAppliesIngestionDefaults(t *testing.T) {
	svc := &testService{items: []map[string]any{
		{"Id": 1, "Title": "Landsat 9", "NoradId": 49260, "OperationalStatus": "Operational", "LaunchDate": "2021-09-27T00:00:00Z"},
		{"Id": 2, "Title": "", "NoradId": "27424", "OperationalStatus": ""},
	}}
	adapter := newTestAdapter(t, svc)

	records, err := adapter.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Numeric catalog number coerced to text, date normalized.
	assert.Equal(t, "49260", records[0].NoradID)
	assert.Equal(t, "2021-09-27", records[0].LaunchDate)

	// Missing title and status resolved at the boundary.
	assert.Equal(t, "Satellite 2", records[1].Title)
	assert.Equal(t, satellite.StatusOperational, records[1].Status)
}

func TestCreateCarriesDigestHeader(t *testing.T) {
	svc := &testService{}
	adapter := newTestAdapter(t, svc)

	_, err := adapter.Create(context.Background(), satellite.Record{Title: "Terra", NoradID: "25994", Status: "Operational"})
	require.NoError(t, err)

	require.Len(t, svc.mutations, 1)
	req := svc.mutations[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, testDigest, req.Header.Get("X-RequestDigest"))
	assert.Empty(t, req.Header.Get("X-HTTP-Method"))

	// The identifier travels in the URL, never the body.
	require.Len(t, svc.bodies, 1)
	assert.NotContains(t, svc.bodies[0], "Id")
	assert.Equal(t, "Terra", svc.bodies[0]["Title"])
}

func TestUpdateUsesMergeOverride(t *testing.T) {
	svc := &testService{}
	adapter := newTestAdapter(t, svc)

	err := adapter.Update(context.Background(), satellite.Record{ID: 7, Title: "Terra", NoradID: "25994", Status: "Operational"})
	require.NoError(t, err)

	require.Len(t, svc.mutations, 1)
	req := svc.mutations[0]
	assert.Contains(t, req.URL.Path, "items(7)")
	assert.Equal(t, "MERGE", req.Header.Get("X-HTTP-Method"))
	assert.Equal(t, "*", req.Header.Get("IF-MATCH"))
	assert.Equal(t, testDigest, req.Header.Get("X-RequestDigest"))
}

func TestDeleteUsesDeleteOverride(t *testing.T) {
	svc := &testService{}
	adapter := newTestAdapter(t, svc)

	require.NoError(t, adapter.Delete(context.Background(), 7))

	require.Len(t, svc.mutations, 1)
	req := svc.mutations[0]
	assert.Equal(t, "DELETE", req.Header.Get("X-HTTP-Method"))
	assert.Equal(t, "*", req.Header.Get("IF-MATCH"))
}

func TestDigestFailureAbortsMutation(t *testing.T) {
	svc := &testService{failDigest: true}
	adapter := newTestAdapter(t, svc)

	_, err := adapter.Create(context.Background(), satellite.Record{Title: "Terra", NoradID: "25994"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrBackendUnavailable)
	assert.Empty(t, svc.mutations)
}

func TestNonSuccessStatusIsBackendUnavailable(t *testing.T) {
	svc := &testService{failItems: true}
	adapter := newTestAdapter(t, svc)

	_, err := adapter.Load(context.Background())
	assert.ErrorIs(t, err, shared.ErrBackendUnavailable)
}

func TestBulkCreateReusesOneDigest(t *testing.T) {
	svc := &testService{}
	adapter := newTestAdapter(t, svc)

	_, result, err := adapter.BulkCreate(context.Background(), []satellite.Record{
		{Title: "Terra", NoradID: "25994", Status: "Operational"},
		{Title: "Aqua", NoradID: "27424", Status: "Operational"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Accepted)
	assert.Empty(t, result.Failures)

	assert.Equal(t, 1, svc.digestCalls)
	assert.Len(t, svc.mutations, 2)
}

func TestTimeoutSurfacesAsBackendUnavailable(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	adapter, err := New(Config{
		BaseURL:       slow.URL,
		SatelliteList: "Satellites",
		SensorList:    "Sensors",
		Timeout:       20 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)

	pingErr := adapter.Ping(context.Background())
	assert.ErrorIs(t, pingErr, shared.ErrBackendUnavailable)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{BaseURL: "https://ops.example.com/_api", SatelliteList: "Satellites", SensorList: "Sensors"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)

	bad := Config{SatelliteList: "Satellites", SensorList: "Sensors"}
	assert.Error(t, bad.Validate())
}
