// Package stationmap implements the specialized open-addressed map that
// backs each worker's and the merger's view of per-station aggregates.
//
// Two schemes are offered, matching the two hashing strategies a fixed-key,
// short-string workload admits: a robust general byte-sequence hash
// (NewHashMap, xxhash-backed) and a fast fingerprint hash that packs the
// first and last three bytes of the key into six bytes (NewFingerprintMap,
// maphash-backed). Both fall back to a full key-byte comparison on hash
// match by default — the fingerprint scheme's hash is lossy enough that
// skipping that comparison is only safe for a dataset known in advance to
// have no fingerprint collisions, so that shortcut is opt-in and off unless
// explicitly requested.
package stationmap

import (
	"bytes"
	"errors"

	"github.com/asg0451/1brc/internal/aggregate"
)

// ErrCapacityExceeded is returned when inserting a new station would push
// the table's distinct-key count past its fixed capacity. The table never
// resizes; per spec, this is fatal to the caller.
var ErrCapacityExceeded = errors.New("stationmap: capacity exceeded")

// DefaultCapacity sizes the table for up to ~10,000 distinct stations at a
// load factor comfortably under 0.6.
const DefaultCapacity = 16384

// maxLoadFactor bounds how many distinct keys the table accepts, as a
// fraction of its backing capacity, before Upsert and MergeValue refuse new
// keys.
const maxLoadFactor = 0.6

// Map is a thread-local (single-writer) station-name -> aggregate table.
// There is no delete and no defined iteration order.
type Map interface {
	// GetMut returns a pointer to the live aggregate for key, if present.
	// The pointer is valid until the next Upsert/MergeValue call.
	GetMut(key []byte) (*aggregate.Temperature, bool)
	// Upsert folds a single sample into key's aggregate, creating it if
	// key is new.
	Upsert(key []byte, tenths int32) error
	// MergeValue folds a whole aggregate (typically from another worker's
	// table) into key's aggregate, creating it if key is new.
	MergeValue(key []byte, value aggregate.Temperature) error
	// Len returns the number of distinct live entries.
	Len() int
	// All visits every live entry in unspecified order. Returning false
	// from fn stops iteration early.
	All(fn func(key []byte, value aggregate.Temperature) bool)
}

// entry is one station's slot: the owned key bytes plus its aggregate. A
// bucket is a small slice of entries sharing one hash value; in practice
// almost every bucket holds exactly one entry, and it only grows past that
// on an actual hash collision between two distinct station names.
type entry struct {
	key   []byte
	value aggregate.Temperature
}

// bucketStore abstracts the uint64-keyed open-addressed container a table
// is built on (kamstrup/intmap for the general-hash scheme, dolthub/swiss
// for the fingerprint scheme) behind the three operations a table needs.
type bucketStore interface {
	get(hash uint64) ([]entry, bool)
	put(hash uint64, bucket []entry)
	forEach(fn func(hash uint64, bucket []entry))
	buckets() int
}

// table is the shared implementation behind both hashing schemes: a
// bucketStore keyed by a caller-supplied hash function, with correctness
// guaranteed by a full key-byte comparison within the (almost always
// singleton) bucket for a given hash — unless skipKeyCompare is set, which
// documents and opts into the unsafe "fast map" shortcut of trusting hash
// equality alone.
type table struct {
	store          bucketStore
	hash           func(key []byte) uint64
	maxEntries     int
	entries        int
	skipKeyCompare bool
}

func (t *table) GetMut(key []byte) (*aggregate.Temperature, bool) {
	h := t.hash(key)
	bucket, ok := t.store.get(h)
	if !ok {
		return nil, false
	}
	if t.skipKeyCompare {
		return &bucket[0].value, true
	}
	for i := range bucket {
		if bytes.Equal(bucket[i].key, key) {
			return &bucket[i].value, true
		}
	}
	return nil, false
}

func (t *table) Upsert(key []byte, tenths int32) error {
	if v, ok := t.GetMut(key); ok {
		v.UpdateSingle(tenths)
		return nil
	}
	if t.entries >= t.maxEntries {
		return ErrCapacityExceeded
	}
	h := t.hash(key)
	bucket, _ := t.store.get(h)
	owned := append([]byte(nil), key...)
	bucket = append(bucket, entry{key: owned, value: aggregate.New(tenths)})
	t.store.put(h, bucket)
	t.entries++
	return nil
}

func (t *table) MergeValue(key []byte, value aggregate.Temperature) error {
	if v, ok := t.GetMut(key); ok {
		v.Merge(value)
		return nil
	}
	if t.entries >= t.maxEntries {
		return ErrCapacityExceeded
	}
	h := t.hash(key)
	bucket, _ := t.store.get(h)
	owned := append([]byte(nil), key...)
	bucket = append(bucket, entry{key: owned, value: value})
	t.store.put(h, bucket)
	t.entries++
	return nil
}

func (t *table) Len() int { return t.entries }

func (t *table) All(fn func(key []byte, value aggregate.Temperature) bool) {
	stop := false
	t.store.forEach(func(_ uint64, bucket []entry) {
		if stop {
			return
		}
		for i := range bucket {
			if !fn(bucket[i].key, bucket[i].value) {
				stop = true
				return
			}
		}
	})
}

func capacityFor(expectedKeys int) int {
	if expectedKeys <= 0 {
		expectedKeys = DefaultCapacity
	}
	// round up a little so the backing store itself has slack beyond our
	// own maxEntries cap.
	return expectedKeys * 2
}

func maxEntriesFor(capacity int) int {
	return int(float64(capacity) * maxLoadFactor)
}
