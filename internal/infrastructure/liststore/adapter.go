package liststore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/sattrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the list
// service (10MB).
const maxResponseSize = 10 * 1024 * 1024

const jsonMediaType = "application/json;odata=nometadata"

// Adapter implements satellite.Store against a list-service endpoint.
// Every mutation is a two-phase protocol: fetch a short-lived digest
// token from the context endpoint, then issue the mutating call carrying
// it. A failure in either phase surfaces as one error and leaves the
// caller's state untouched.
type Adapter struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

// New creates a list-service adapter with the given configuration.
func New(cfg Config, log *zap.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}, nil
}

// Mode reports the remote backend mode
func (a *Adapter) Mode() satellite.Mode {
	return satellite.ModeRemote
}

// RefreshAfterWrite reports true: the service assigns identifiers and
// server-side fields, so callers re-fetch the list after a create.
func (a *Adapter) RefreshAfterWrite() bool {
	return true
}

// Ping verifies the service is reachable by requesting a digest token.
func (a *Adapter) Ping(ctx context.Context) error {
	_, err := a.digest(ctx)
	return err
}

// digest requests a short-lived security token from the service's
// context endpoint. No mutation is attempted without a fresh token.
func (a *Adapter) digest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/contextinfo", nil)
	if err != nil {
		return "", fmt.Errorf("liststore: failed to create digest request: %w", err)
	}
	req.Header.Set("Accept", jsonMediaType)

	body, err := a.do(req)
	if err != nil {
		return "", fmt.Errorf("digest fetch failed: %w", err)
	}

	var resp digestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: malformed digest response: %v", shared.ErrBackendUnavailable, err)
	}
	if resp.FormDigestValue == "" {
		return "", fmt.Errorf("%w: digest response carried no token", shared.ErrBackendUnavailable)
	}
	return resp.FormDigestValue, nil
}

// itemsURL builds the collection endpoint for a list.
func (a *Adapter) itemsURL(list string) string {
	return fmt.Sprintf("%s/web/lists/getbytitle('%s')/items", a.cfg.BaseURL, url.PathEscape(list))
}

// itemURL builds the item endpoint for a list entry.
func (a *Adapter) itemURL(list string, id int) string {
	return fmt.Sprintf("%s(%d)", a.itemsURL(list), id)
}

// Load fetches up to one page of satellite items with an explicit field
// projection. The collection is returned only after the full page is
// received; a failure mid-read surfaces as one error with nothing
// applied.
func (a *Adapter) Load(ctx context.Context) ([]satellite.Record, error) {
	items, err := fetchList[satelliteItem](ctx, a, a.cfg.SatelliteList, satelliteSelect)
	if err != nil {
		return nil, err
	}
	records := make([]satellite.Record, 0, len(items))
	for i, it := range items {
		records = append(records, it.toRecord(i+1))
	}
	return records, nil
}

// LoadSensors fetches the read-only sensor catalog.
func (a *Adapter) LoadSensors(ctx context.Context) ([]satellite.Sensor, error) {
	items, err := fetchList[sensorItem](ctx, a, a.cfg.SensorList, sensorSelect)
	if err != nil {
		return nil, err
	}
	sensors := make([]satellite.Sensor, 0, len(items))
	for i, it := range items {
		sensors = append(sensors, it.toSensor(i+1))
	}
	return sensors, nil
}

// fetchList reads one projected page of a list.
func fetchList[T any](ctx context.Context, a *Adapter, list, selectFields string) ([]T, error) {
	u := fmt.Sprintf("%s?$select=%s&$top=%d", a.itemsURL(list), url.QueryEscape(selectFields), a.cfg.PageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("liststore: failed to create list request: %w", err)
	}
	req.Header.Set("Accept", jsonMediaType)

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var resp listResponse[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed list response: %v", shared.ErrBackendUnavailable, err)
	}
	return resp.Value, nil
}

// Create posts a new item to the collection endpoint. The returned
// record is zero: the caller re-fetches the authoritative list to pick
// up the server-assigned identifier and fields.
func (a *Adapter) Create(ctx context.Context, rec satellite.Record) (satellite.Record, error) {
	token, err := a.digest(ctx)
	if err != nil {
		return satellite.Record{}, err
	}
	return satellite.Record{}, a.createWithDigest(ctx, token, rec)
}

// createWithDigest issues the create mutation using an already-fetched
// digest token. Bulk imports reuse one token for a whole batch.
func (a *Adapter) createWithDigest(ctx context.Context, token string, rec satellite.Record) error {
	payload, err := json.Marshal(fromRecord(rec))
	if err != nil {
		return fmt.Errorf("liststore: failed to encode item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.itemsURL(a.cfg.SatelliteList), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("liststore: failed to create request: %w", err)
	}
	a.setMutationHeaders(req, token)

	_, err = a.do(req)
	return err
}

// Update posts to the item endpoint with an override header simulating a
// partial update and an unconditional match precondition.
func (a *Adapter) Update(ctx context.Context, rec satellite.Record) error {
	token, err := a.digest(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(fromRecord(rec))
	if err != nil {
		return fmt.Errorf("liststore: failed to encode item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.itemURL(a.cfg.SatelliteList, rec.ID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("liststore: failed to create request: %w", err)
	}
	a.setMutationHeaders(req, token)
	req.Header.Set("X-HTTP-Method", "MERGE")
	req.Header.Set("IF-MATCH", "*")

	_, err = a.do(req)
	return err
}

// Delete removes the item with the given identifier.
func (a *Adapter) Delete(ctx context.Context, id int) error {
	token, err := a.digest(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.itemURL(a.cfg.SatelliteList, id), nil)
	if err != nil {
		return fmt.Errorf("liststore: failed to create request: %w", err)
	}
	a.setMutationHeaders(req, token)
	req.Header.Set("X-HTTP-Method", "DELETE")
	req.Header.Set("IF-MATCH", "*")

	_, err = a.do(req)
	return err
}

// BulkCreate fetches one digest token for the whole batch and issues one
// mutation per row, strictly in input order, awaiting each completion
// before the next row is sent. Individual row failures do not abort the
// batch.
func (a *Adapter) BulkCreate(ctx context.Context, recs []satellite.Record) ([]satellite.Record, satellite.BulkResult, error) {
	token, err := a.digest(ctx)
	if err != nil {
		return nil, satellite.BulkResult{}, err
	}

	result := satellite.BulkResult{}
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return nil, result, err
		}
		if err := a.createWithDigest(ctx, token, rec); err != nil {
			a.log.Warn("bulk create row failed",
				zap.Int("row", i+1),
				zap.String("norad_id", rec.NoradID),
				zap.Error(err))
			result.Failures = append(result.Failures, satellite.BulkFailure{Index: i, Reason: err.Error()})
			continue
		}
		result.Accepted++
	}
	// Identifiers are server-assigned; the caller re-fetches the list.
	return nil, result, nil
}

// setMutationHeaders applies the headers every mutating call carries.
func (a *Adapter) setMutationHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", jsonMediaType)
	req.Header.Set("Content-Type", jsonMediaType)
	req.Header.Set("X-RequestDigest", token)
}

// do executes a request and returns the response body. Timeouts and
// transport failures, as well as any status outside 2xx, surface as
// shared.ErrBackendUnavailable with the underlying message preserved.
func (a *Adapter) do(req *http.Request) ([]byte, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request timed out: %v", shared.ErrBackendUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", shared.ErrBackendUnavailable, resp.StatusCode)
	}
	return body, nil
}
