package satellite

import "context"

// Mode identifies which persistence backend is active.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// BulkFailure records one rejected row of a bulk create, by its index in
// the submitted batch.
type BulkFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BulkResult summarizes a bulk create against the backend.
type BulkResult struct {
	Accepted int           `json:"accepted"`
	Failures []BulkFailure `json:"failures,omitempty"`
}

// Store is the persistence backend for satellite records. Two
// implementations exist: a remote list-service adapter and a local
// key-value store adapter. The façade selects one at startup and never
// re-evaluates the choice.
type Store interface {
	// Mode reports which backend this store talks to.
	Mode() Mode

	// RefreshAfterWrite reports whether the caller must re-fetch the
	// authoritative list after a create instead of trusting the local
	// echo. True for the remote backend, which assigns server-side
	// fields the echo does not carry.
	RefreshAfterWrite() bool

	// Load fetches the full record collection with ingestion defaults
	// applied.
	Load(ctx context.Context) ([]Record, error)

	// LoadSensors fetches the read-only sensor catalog.
	LoadSensors(ctx context.Context) ([]Sensor, error)

	// Create persists a new record. The local backend assigns the next
	// counter value and returns the stored record; the remote backend
	// returns a zero record and the caller re-fetches via Load.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update persists changes to an existing record, matched by ID.
	Update(ctx context.Context, rec Record) error

	// Delete removes a record by ID.
	Delete(ctx context.Context, id int) error

	// BulkCreate persists a batch of records, tolerating individual row
	// failures. The remote backend fetches one digest token for the
	// whole batch and issues one mutation per row in input order; the
	// local backend appends all rows in a single pass. Returned records
	// carry assigned identifiers where the backend can provide them.
	BulkCreate(ctx context.Context, recs []Record) ([]Record, BulkResult, error)
}
