// Package runstore persists completed benchmark runs to an embedded
// Pebble store, keyed by KSUID, so a run can be listed and replayed
// later. It stores finished run summaries only, never the live index
// state the core explicitly declines to make durable.
package runstore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/hcidx/pkg/config"
	"github.com/ssargent/hcidx/pkg/storage"
	"github.com/ssargent/hcidx/pkg/tiered"
)

// ErrNotFound is returned by Get when no run exists for the given id.
var ErrNotFound = errors.New("runstore: run not found")

// runEnvelopeHeaderSize is CRC32(4) + PayloadSize(4) + Timestamp(8).
const runEnvelopeHeaderSize = 16

// RunRecord is a completed benchmark run: the configuration it ran
// with, the stats it produced, and how long it took.
type RunRecord struct {
	ID        ksuid.KSUID   `json:"id"`
	Config    config.Config `json:"config"`
	Stats     tiered.Stats  `json:"stats"`
	ElapsedNS int64         `json:"elapsed_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

// Elapsed returns the run's wall-clock duration.
func (r RunRecord) Elapsed() time.Duration {
	return time.Duration(r.ElapsedNS)
}

// Store persists RunRecords in an embedded Pebble database.
type Store struct {
	backend *storage.DefaultStorage
}

// Open opens (or creates) a run store at dir.
func Open(dir string) (*Store, error) {
	backend, err := storage.NewDefaultStorage(dir)
	if err != nil {
		return nil, fmt.Errorf("runstore: open %s: %w", dir, err)
	}
	return &Store{backend: backend}, nil
}

// Put persists rec under a freshly minted KSUID — the id becomes both
// the record's identity and the Pebble key it is stored under — and
// returns that id.
func (s *Store) Put(rec RunRecord) (ksuid.KSUID, error) {
	id := ksuid.New()
	rec.ID = id
	rec.CreatedAt = id.Time()

	payload, err := json.Marshal(rec)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("runstore: marshal run: %w", err)
	}

	envelope := encodeEnvelope(payload)

	// Update (a plain upsert under Pebble) rather than Create, since the
	// id minted above must match the key the record is filed under.
	if err := s.backend.Update(&id, envelope); err != nil {
		return ksuid.Nil, fmt.Errorf("runstore: put run %s: %w", id, err)
	}

	return id, nil
}

// Get loads the run stored under id.
func (s *Store) Get(id ksuid.KSUID) (RunRecord, error) {
	data, err := s.backend.Read(&id)
	if err != nil {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	payload, err := decodeEnvelope(data)
	if err != nil {
		return RunRecord{}, fmt.Errorf("runstore: decode run %s: %w", id, err)
	}

	var rec RunRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return RunRecord{}, fmt.Errorf("runstore: unmarshal run %s: %w", id, err)
	}
	return rec, nil
}

// List returns every run id currently persisted, oldest first (KSUIDs
// sort lexicographically by creation time).
func (s *Store) List() ([]ksuid.KSUID, error) {
	var ids []ksuid.KSUID
	err := s.backend.Iterate(func(id ksuid.KSUID, _ []byte) error {
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("runstore: list runs: %w", err)
	}
	return ids, nil
}

// Close releases the underlying Pebble handle.
func (s *Store) Close() error {
	return s.backend.Close()
}

// encodeEnvelope wraps payload in a CRC32-checked binary envelope:
// [CRC32(4)][PayloadSize(4)][Timestamp(8)][payload].
func encodeEnvelope(payload []byte) []byte {
	buf := make([]byte, runEnvelopeHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(time.Now().UnixNano()))
	copy(buf[runEnvelopeHeaderSize:], payload)

	crc := crc32.ChecksumIEEE(buf[4:])
	binary.LittleEndian.PutUint32(buf[0:4], crc)

	return buf
}

// decodeEnvelope validates and unwraps an envelope produced by
// encodeEnvelope.
func decodeEnvelope(data []byte) ([]byte, error) {
	if len(data) < runEnvelopeHeaderSize {
		return nil, fmt.Errorf("envelope too short: got %d bytes, need at least %d", len(data), runEnvelopeHeaderSize)
	}

	wantCRC := binary.LittleEndian.Uint32(data[0:4])
	payloadSize := binary.LittleEndian.Uint32(data[4:8])

	if want := runEnvelopeHeaderSize + int(payloadSize); len(data) != want {
		return nil, fmt.Errorf("envelope size mismatch: header declares %d bytes, got %d", want, len(data))
	}

	if got := crc32.ChecksumIEEE(data[4:]); got != wantCRC {
		return nil, fmt.Errorf("envelope CRC32 mismatch: computed %08x, stored %08x", got, wantCRC)
	}

	return data[runEnvelopeHeaderSize:], nil
}
