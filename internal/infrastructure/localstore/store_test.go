package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/sattrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingKV wraps a KeyValueStore and fails the next n Set calls with a
// generic error outside the degraded taxonomy.
type failingKV struct {
	KeyValueStore
	failures int
}

func (f *failingKV) Set(key, value string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("database is locked")
	}
	return f.KeyValueStore.Set(key, value)
}

func newTestStore(t *testing.T, kv KeyValueStore) *Store {
	t.Helper()
	store, err := New(kv, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestEmptyStoreStartsAboveCounterFloor(t *testing.T) {
	store := newTestStore(t, NewMemoryKV(0))

	rec, err := store.Create(context.Background(), satellite.Record{Title: "Terra", NoradID: "25994"})
	require.NoError(t, err)
	assert.Equal(t, counterFloor+1, rec.ID)
}

func TestCounterSurvivesRestart(t *testing.T) {
	kv := NewMemoryKV(0)
	store := newTestStore(t, kv)

	_, err := store.Create(context.Background(), satellite.Record{Title: "Terra", NoradID: "25994"})
	require.NoError(t, err)

	reopened := newTestStore(t, kv)
	rec, err := reopened.Create(context.Background(), satellite.Record{Title: "Aqua", NoradID: "27424"})
	require.NoError(t, err)
	assert.Equal(t, counterFloor+2, rec.ID)
}

func TestLostCounterRederivedFromRecords(t *testing.T) {
	kv := NewMemoryKV(0)
	records := []satellite.Record{{ID: 2040, Title: "Terra", NoradID: "25994"}}
	payload, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, kv.Set(recordsKey, string(payload)))
	// No counter key: the store must re-derive one past the highest
	// identifier in the collection.

	store := newTestStore(t, kv)
	rec, err := store.Create(context.Background(), satellite.Record{Title: "Aqua", NoradID: "27424"})
	require.NoError(t, err)
	assert.Equal(t, 2041, rec.ID)
}

func TestCorruptPayloadYieldsEmptyCollection(t *testing.T) {
	kv := NewMemoryKV(0)
	require.NoError(t, kv.Set(recordsKey, "{not json"))

	store := newTestStore(t, kv)
	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreateOnQuotaFailureStillReturnsRecord(t *testing.T) {
	store := newTestStore(t, NewMemoryKV(10))

	rec, err := store.Create(context.Background(), satellite.Record{Title: "Terra", NoradID: "25994"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrStorageQuota)
	assert.Equal(t, counterFloor+1, rec.ID)

	// The in-memory collection keeps the record.
	records, loadErr := store.Load(context.Background())
	require.NoError(t, loadErr)
	require.Len(t, records, 1)
	assert.Equal(t, "Terra", records[0].Title)
}

func TestCreateHardPersistFailureRollsBack(t *testing.T) {
	kv := &failingKV{KeyValueStore: NewMemoryKV(0), failures: 1}
	store := newTestStore(t, kv)

	_, err := store.Create(context.Background(), satellite.Record{Title: "Ghost", NoradID: "11111"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrStorageQuota)

	// The mirror and counter are rolled back: nothing is visible and the
	// next create reuses the identifier.
	records, loadErr := store.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Empty(t, records)

	rec, err := store.Create(context.Background(), satellite.Record{Title: "Real", NoradID: "25994"})
	require.NoError(t, err)
	assert.Equal(t, counterFloor+1, rec.ID)
}

func TestFailedCreateDoesNotSurviveRestart(t *testing.T) {
	kv := NewMemoryKV(0)
	flaky := &failingKV{KeyValueStore: kv, failures: 1}
	store := newTestStore(t, flaky)

	_, err := store.Create(context.Background(), satellite.Record{Title: "Ghost", NoradID: "11111"})
	require.Error(t, err)

	_, err = store.Create(context.Background(), satellite.Record{Title: "Real", NoradID: "25994"})
	require.NoError(t, err)

	// A record the caller was told failed to save must not ride along
	// with the next successful persist.
	reopened := newTestStore(t, kv)
	records, err := reopened.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Real", records[0].Title)
}

func TestUpdateHardPersistFailureRestoresPrevious(t *testing.T) {
	kv := &failingKV{KeyValueStore: NewMemoryKV(0)}
	store := newTestStore(t, kv)

	rec, err := store.Create(context.Background(), satellite.Record{Title: "Terra", NoradID: "25994"})
	require.NoError(t, err)

	kv.failures = 1
	changed := rec
	changed.Title = "Terra Prime"
	require.Error(t, store.Update(context.Background(), changed))

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Terra", records[0].Title)
}

func TestDeleteHardPersistFailureRestoresRecord(t *testing.T) {
	kv := &failingKV{KeyValueStore: NewMemoryKV(0)}
	store := newTestStore(t, kv)

	rec, err := store.Create(context.Background(), satellite.Record{Title: "Terra", NoradID: "25994"})
	require.NoError(t, err)

	kv.failures = 1
	require.Error(t, store.Delete(context.Background(), rec.ID))

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
}

func TestBulkCreateHardPersistFailureRollsBack(t *testing.T) {
	kv := &failingKV{KeyValueStore: NewMemoryKV(0), failures: 1}
	store := newTestStore(t, kv)

	created, result, err := store.BulkCreate(context.Background(), []satellite.Record{
		{Title: "Terra", NoradID: "25994"},
		{Title: "Aqua", NoradID: "27424"},
	})
	require.Error(t, err)
	assert.Empty(t, created)
	assert.Zero(t, result.Accepted)

	records, loadErr := store.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Empty(t, records)

	rec, err := store.Create(context.Background(), satellite.Record{Title: "Real", NoradID: "33333"})
	require.NoError(t, err)
	assert.Equal(t, counterFloor+1, rec.ID)
}

func TestUpdateMissingRecord(t *testing.T) {
	store := newTestStore(t, NewMemoryKV(0))
	err := store.Update(context.Background(), satellite.Record{ID: 7, Title: "Ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteTwice(t *testing.T) {
	store := newTestStore(t, NewMemoryKV(0))

	rec, err := store.Create(context.Background(), satellite.Record{Title: "Terra", NoradID: "25994"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), rec.ID))
	assert.ErrorIs(t, store.Delete(context.Background(), rec.ID), shared.ErrNotFound)
}

func TestBulkCreateAssignsSequentialIDs(t *testing.T) {
	store := newTestStore(t, NewMemoryKV(0))

	created, result, err := store.BulkCreate(context.Background(), []satellite.Record{
		{Title: "Terra", NoradID: "25994"},
		{Title: "Aqua", NoradID: "27424"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Accepted)
	require.Len(t, created, 2)
	assert.Equal(t, created[0].ID+1, created[1].ID)
}

func TestSensorCatalogRoundTrip(t *testing.T) {
	kv := NewMemoryKV(0)
	store := newTestStore(t, kv)

	require.NoError(t, store.SeedSensors([]satellite.Sensor{{ID: 1, Title: "OLI-2"}}))

	sensors, err := store.LoadSensors(context.Background())
	require.NoError(t, err)
	require.Len(t, sensors, 1)
	assert.Equal(t, "OLI-2", sensors[0].Title)
}

func TestGormKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	kv, err := OpenGormKV(path, 0)
	require.NoError(t, err)
	require.NoError(t, kv.Set("k", "v"))
	require.NoError(t, kv.Close())

	kv, err = OpenGormKV(path, 0)
	require.NoError(t, err)
	defer kv.Close()

	value, ok, err := kv.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	_, ok, err = kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormKVQuota(t *testing.T) {
	kv, err := OpenGormKV(filepath.Join(t.TempDir(), "kv.db"), 4)
	require.NoError(t, err)
	defer kv.Close()

	assert.ErrorIs(t, kv.Set("k", "too large"), shared.ErrStorageQuota)
	require.NoError(t, kv.Set("k", "ok"))
}
