package localstore

import (
	"fmt"
	"sync"

	"github.com/sattrack/backend/internal/domain/shared"
)

// KeyValueStore is the string-keyed get/set namespace the local record
// store persists into. Implementations must distinguish a missing key
// from an error.
type KeyValueStore interface {
	// Get returns the value for key and whether the key was present.
	Get(key string) (string, bool, error)

	// Set stores value under key. Implementations with bounded capacity
	// return shared.ErrStorageQuota (wrapped) when the value does not fit.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// MemoryKV is an in-memory KeyValueStore with an optional per-value byte
// quota, used in tests and as a last-resort fallback when no database
// file can be opened.
type MemoryKV struct {
	mu         sync.RWMutex
	data       map[string]string
	quotaBytes int
}

// NewMemoryKV creates an in-memory store. quotaBytes <= 0 disables the
// quota.
func NewMemoryKV(quotaBytes int) *MemoryKV {
	return &MemoryKV{
		data:       make(map[string]string),
		quotaBytes: quotaBytes,
	}
}

// Get returns the value for key
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key, enforcing the quota
func (m *MemoryKV) Set(key, value string) error {
	if m.quotaBytes > 0 && len(value) > m.quotaBytes {
		return fmt.Errorf("%w: value of %d bytes exceeds quota of %d bytes", shared.ErrStorageQuota, len(value), m.quotaBytes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete removes key
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
