package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/sattrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Notifier receives exactly one outcome notification per completed user
// operation. A persistence failure that leaves the record usable in
// memory produces a single Error notification and no Success.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// nopNotifier discards notifications.
type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Service is the persistence façade over the selected backend. The
// backend is chosen once at startup and never re-evaluated; the service
// holds the authoritative in-memory collection for the session and keeps
// it consistent even when a write cannot be persisted.
//
// Saves and imports are single-flight: a second mutation arriving while
// one is in progress is rejected, never queued.
type Service struct {
	store    satellite.Store
	log      *zap.Logger
	notifier Notifier

	saveBusy   atomic.Bool
	importBusy atomic.Bool

	mu      sync.RWMutex
	records []satellite.Record
	sensors []satellite.Sensor
	editing *int

	sortColumn string
	sortDesc   bool
}

// NewService creates the façade over the given backend.
func NewService(store satellite.Store, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		log:      log,
		notifier: nopNotifier{},
	}
}

// SetNotifier sets the outcome notifier
func (s *Service) SetNotifier(n Notifier) {
	if n != nil {
		s.notifier = n
	}
}

// Mode reports which backend the session runs against
func (s *Service) Mode() satellite.Mode {
	return s.store.Mode()
}

// Initialize loads the record collection and sensor catalog from the
// backend. It is called once at startup, after backend selection.
func (s *Service) Initialize(ctx context.Context) error {
	records, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load record collection: %w", err)
	}
	sensors, err := s.store.LoadSensors(ctx)
	if err != nil {
		// The catalog is auxiliary; a failed sensor load does not block
		// the session.
		s.log.Warn("sensor catalog unavailable", zap.Error(err))
		sensors = nil
	}

	s.mu.Lock()
	s.records = records
	s.sensors = sensors
	s.mu.Unlock()

	s.log.Info("inventory initialized",
		zap.String("mode", string(s.store.Mode())),
		zap.Int("records", len(records)),
		zap.Int("sensors", len(sensors)))
	return nil
}

// Records returns a copy of the unfiltered in-memory collection.
func (s *Service) Records() []satellite.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]satellite.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Sensors returns the sensor catalog loaded at startup.
func (s *Service) Sensors() []satellite.Sensor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]satellite.Sensor, len(s.sensors))
	copy(out, s.sensors)
	return out
}

// Get returns the record with the given identifier.
func (s *Service) Get(id int) (satellite.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return satellite.Record{}, shared.ErrNotFound
}

// BeginEdit marks a record as the one in edit and returns it. At most
// one record is in edit at a time; starting a new edit replaces the
// previous token.
func (s *Service) BeginEdit(id int) (satellite.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			editID := id
			s.editing = &editID
			return rec, nil
		}
	}
	return satellite.Record{}, shared.ErrNotFound
}

// ClearEdit drops the edit token
func (s *Service) ClearEdit() {
	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()
}

// Editing returns the identifier of the record in edit, if any.
func (s *Service) Editing() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.editing == nil {
		return 0, false
	}
	return *s.editing, true
}

// Create validates a draft and persists it through the backend. In
// remote mode the authoritative list is re-fetched so the outcome
// carries the server-assigned identifier; in local mode the store's
// assigned record is appended directly. A local quota failure keeps the
// record in the session with a warning instead of discarding it.
func (s *Service) Create(ctx context.Context, draft satellite.Draft) (SaveOutcome, error) {
	result := satellite.Validate(draft)
	if !result.Valid {
		return SaveOutcome{}, &ValidationError{Fields: result.Errors}
	}

	if !s.saveBusy.CompareAndSwap(false, true) {
		return SaveOutcome{}, shared.ErrSaveInFlight
	}
	defer s.saveBusy.Store(false)

	created, err := s.store.Create(ctx, result.Record)
	switch {
	case err == nil:
		// persisted
	case errors.Is(err, shared.ErrStorageQuota), errors.Is(err, shared.ErrStorageSerialization):
		outcome := SaveOutcome{
			Record:  created,
			Warning: "satellite kept in memory only: " + err.Error(),
		}
		s.appendRecord(created)
		s.notifier.Error(outcome.Warning)
		s.log.Warn("create not persisted", zap.Int("id", created.ID), zap.Error(err))
		return outcome, nil
	default:
		s.notifier.Error("failed to save satellite")
		return SaveOutcome{}, err
	}

	if s.store.RefreshAfterWrite() {
		found, ok, refreshErr := s.refreshAndFind(ctx, result.Record)
		if refreshErr != nil {
			outcome := SaveOutcome{
				Record:  result.Record,
				Warning: "satellite saved but the list could not be refreshed",
			}
			s.notifier.Error(outcome.Warning)
			s.log.Warn("post-create refresh failed", zap.Error(refreshErr))
			return outcome, nil
		}
		if !ok {
			// The refreshed collection is authoritative. The row exists
			// on the service even if we cannot pick it out, so nothing
			// without a server identifier is appended.
			s.notifier.Success("Satellite saved")
			s.log.Warn("created satellite not identified in refreshed list",
				zap.String("norad_id", result.Record.NoradID))
			return SaveOutcome{
				Record:  result.Record,
				Warning: "saved satellite could not be identified in the refreshed list",
			}, nil
		}
		created = found
	}
	s.appendRecord(created)

	s.notifier.Success("Satellite saved")
	return SaveOutcome{Record: created}, nil
}

// refreshAndFind reloads the collection from the backend and locates the
// row just created by its catalog number and title. Caller must not hold
// s.mu.
func (s *Service) refreshAndFind(ctx context.Context, want satellite.Record) (satellite.Record, bool, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return satellite.Record{}, false, err
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	for i := len(records) - 1; i >= 0; i-- {
		if records[i].NoradID == want.NoradID && records[i].Title == want.Title {
			return records[i], true, nil
		}
	}
	return satellite.Record{}, false, nil
}

// appendRecord adds a record to the in-memory collection unless the
// collection was just replaced by a refresh that already contains it.
func (s *Service) appendRecord(rec satellite.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.ID == rec.ID {
			return
		}
	}
	s.records = append(s.records, rec)
}

// Update validates a draft and merges it onto the stored record with the
// given identifier. Server-assigned fields are preserved from the
// existing record; a successful update clears the edit token.
func (s *Service) Update(ctx context.Context, id int, draft satellite.Draft) (SaveOutcome, error) {
	result := satellite.Validate(draft)
	if !result.Valid {
		return SaveOutcome{}, &ValidationError{Fields: result.Errors}
	}

	if !s.saveBusy.CompareAndSwap(false, true) {
		return SaveOutcome{}, shared.ErrSaveInFlight
	}
	defer s.saveBusy.Store(false)

	existing, err := s.Get(id)
	if err != nil {
		return SaveOutcome{}, err
	}
	merged := existing.Merge(result.Record)

	err = s.store.Update(ctx, merged)
	switch {
	case err == nil:
		// persisted
	case errors.Is(err, shared.ErrStorageQuota), errors.Is(err, shared.ErrStorageSerialization):
		s.replaceRecord(merged)
		s.ClearEdit()
		outcome := SaveOutcome{
			Record:  merged,
			Warning: "change kept in memory only: " + err.Error(),
		}
		s.notifier.Error(outcome.Warning)
		s.log.Warn("update not persisted", zap.Int("id", id), zap.Error(err))
		return outcome, nil
	default:
		s.notifier.Error("failed to save satellite")
		return SaveOutcome{}, err
	}

	s.replaceRecord(merged)
	s.ClearEdit()
	s.notifier.Success("Satellite updated")
	return SaveOutcome{Record: merged}, nil
}

// replaceRecord swaps the in-memory record matching rec.ID.
func (s *Service) replaceRecord(rec satellite.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return
		}
	}
}

// Delete removes a record. The caller's confirmation is required; an
// unconfirmed delete is rejected before the backend is touched.
func (s *Service) Delete(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return shared.ErrDeleteNotConfirmed
	}

	if !s.saveBusy.CompareAndSwap(false, true) {
		return shared.ErrSaveInFlight
	}
	defer s.saveBusy.Store(false)

	if _, err := s.Get(id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrStorageQuota) || errors.Is(err, shared.ErrStorageSerialization) {
			s.removeRecord(id)
			s.notifier.Error("satellite removed from the session but local storage could not be updated")
			s.log.Warn("delete not persisted", zap.Int("id", id), zap.Error(err))
			return nil
		}
		s.notifier.Error("failed to delete satellite")
		return err
	}

	s.removeRecord(id)
	s.notifier.Success("Satellite deleted")
	return nil
}

// removeRecord drops the record with the given identifier from the
// in-memory collection and clears a matching edit token.
func (s *Service) removeRecord(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	if s.editing != nil && *s.editing == id {
		s.editing = nil
	}
}

// ComputeStats derives the aggregate counts from the unfiltered
// collection, never from a projected view.
func (s *Service) ComputeStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalRecords: len(s.records),
		TotalSensors: len(s.sensors),
	}
	for _, rec := range s.records {
		if rec.Status == satellite.StatusOperational {
			stats.Operational++
		}
	}
	return stats
}
