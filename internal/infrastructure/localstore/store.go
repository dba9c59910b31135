package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/sattrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Storage keys within the key-value namespace.
const (
	recordsKey = "sattrack.records"
	counterKey = "sattrack.next_id"
	sensorsKey = "sattrack.sensors"
)

// counterFloor keeps locally assigned identifiers clear of any
// identifier range the remote service might have handed out before the
// collection was restored without its counter.
const counterFloor = 1000

// Store implements satellite.Store on top of a string-keyed get/set
// namespace. It mirrors the record collection in memory; the mirror is
// authoritative when persistence fails, so callers keep their state even
// on a quota error.
type Store struct {
	kv  KeyValueStore
	log *zap.Logger

	mu      sync.Mutex
	records []satellite.Record
	nextID  int
}

// New creates a local store and restores any persisted collection. A
// missing or corrupt stored value yields an empty collection rather than
// an error.
func New(kv KeyValueStore, log *zap.Logger) (*Store, error) {
	s := &Store{kv: kv, log: log}
	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

// restore loads records and the identifier counter from the namespace.
func (s *Store) restore() error {
	raw, ok, err := s.kv.Get(recordsKey)
	if err != nil {
		return fmt.Errorf("failed to read local records: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.records); err != nil {
			// Corrupt payload: start over with an empty collection.
			s.log.Warn("discarding corrupt local record collection", zap.Error(err))
			s.records = nil
		}
	}

	maxID := 0
	for _, rec := range s.records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}

	s.nextID = 0
	if rawCounter, ok, err := s.kv.Get(counterKey); err == nil && ok {
		if n, convErr := strconv.Atoi(rawCounter); convErr == nil {
			s.nextID = n
		}
	}
	// The counter must stay strictly greater than every identifier in
	// the collection, even if it was lost or rolled back.
	if s.nextID <= maxID {
		floor := counterFloor
		if maxID > floor {
			floor = maxID
		}
		s.nextID = floor + 1
	}
	return nil
}

// Mode reports the local backend mode
func (s *Store) Mode() satellite.Mode {
	return satellite.ModeLocal
}

// RefreshAfterWrite reports false: local creates return the stored record
func (s *Store) RefreshAfterWrite() bool {
	return false
}

// Load returns a copy of the record collection
func (s *Store) Load(ctx context.Context) ([]satellite.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]satellite.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// LoadSensors returns the persisted sensor catalog, or an empty catalog
// when none was seeded.
func (s *Store) LoadSensors(ctx context.Context) ([]satellite.Sensor, error) {
	raw, ok, err := s.kv.Get(sensorsKey)
	if err != nil || !ok {
		return nil, err
	}
	var sensors []satellite.Sensor
	if err := json.Unmarshal([]byte(raw), &sensors); err != nil {
		s.log.Warn("discarding corrupt local sensor catalog", zap.Error(err))
		return nil, nil
	}
	return sensors, nil
}

// SeedSensors stores a sensor catalog for subsequent sessions.
func (s *Store) SeedSensors(sensors []satellite.Sensor) error {
	payload, err := json.Marshal(sensors)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageSerialization, err)
	}
	return s.kv.Set(sensorsKey, string(payload))
}

// degraded reports whether a persist error leaves the in-memory
// collection authoritative. Quota and serialization failures do; any
// other error means the mutation must be rolled back so a later
// successful persist cannot write state the caller was told failed.
func degraded(err error) bool {
	return errors.Is(err, shared.ErrStorageQuota) || errors.Is(err, shared.ErrStorageSerialization)
}

// Create assigns the next counter value and persists the collection. On
// a quota or serialization failure the assigned record is still returned
// alongside the error: the in-memory collection stays authoritative and
// the caller decides how to warn the user. Any other persist failure
// rolls the mirror and counter back.
func (s *Store) Create(ctx context.Context, rec satellite.Record) (satellite.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, rec)

	if err := s.persist(); err != nil {
		if degraded(err) {
			return rec, err
		}
		s.records = s.records[:len(s.records)-1]
		s.nextID--
		return satellite.Record{}, err
	}
	return rec, nil
}

// Update replaces the stored record matching rec.ID.
func (s *Store) Update(ctx context.Context, rec satellite.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == rec.ID {
			prev := s.records[i]
			s.records[i] = rec
			if err := s.persist(); err != nil {
				if !degraded(err) {
					s.records[i] = prev
				}
				return err
			}
			return nil
		}
	}
	return shared.ErrNotFound
}

// Delete removes the record with the given identifier.
func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			removed := s.records[i]
			s.records = append(s.records[:i], s.records[i+1:]...)
			if err := s.persist(); err != nil {
				if !degraded(err) {
					s.records = append(s.records, satellite.Record{})
					copy(s.records[i+1:], s.records[i:])
					s.records[i] = removed
				}
				return err
			}
			return nil
		}
	}
	return shared.ErrNotFound
}

// BulkCreate appends all rows in a single pass, advancing the counter by
// the number of rows accepted, then persists once.
func (s *Store) BulkCreate(ctx context.Context, recs []satellite.Record) ([]satellite.Record, satellite.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevLen := len(s.records)
	prevNext := s.nextID
	created := make([]satellite.Record, 0, len(recs))
	for _, rec := range recs {
		rec.ID = s.nextID
		s.nextID++
		s.records = append(s.records, rec)
		created = append(created, rec)
	}

	if err := s.persist(); err != nil {
		if degraded(err) {
			return created, satellite.BulkResult{Accepted: len(created)}, err
		}
		s.records = s.records[:prevLen]
		s.nextID = prevNext
		return nil, satellite.BulkResult{}, err
	}
	return created, satellite.BulkResult{Accepted: len(created)}, nil
}

// persist writes the collection and counter back to the namespace.
// Caller holds s.mu.
func (s *Store) persist() error {
	payload, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageSerialization, err)
	}
	if err := s.kv.Set(recordsKey, string(payload)); err != nil {
		return err
	}
	return s.kv.Set(counterKey, strconv.Itoa(s.nextID))
}
