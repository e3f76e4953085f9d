package stationmap

import (
	"github.com/cespare/xxhash/v2"
	"github.com/kamstrup/intmap"
)

// intmapStore adapts kamstrup/intmap.Map (an open-addressed, int-keyed map
// with no automatic resize below its configured capacity — the same
// container the teacher codebase used directly, keyed by station hash) to
// the bucketStore interface.
type intmapStore struct {
	m *intmap.Map[uint64, []entry]
}

func (s intmapStore) get(h uint64) ([]entry, bool)         { return s.m.Get(h) }
func (s intmapStore) put(h uint64, bucket []entry)         { s.m.Put(h, bucket) }
func (s intmapStore) forEach(fn func(uint64, []entry))     { s.m.ForEach(fn) }
func (s intmapStore) buckets() int                         { return s.m.Len() }

// NewHashMap builds the "scheme (a)" table from spec: a robust
// general-purpose byte-sequence hash (xxhash) over the full key, with
// mandatory full key comparison on every lookup. expectedKeys sizes the
// backing intmap; pass 0 for the default (10,000-station) sizing.
func NewHashMap(expectedKeys int) Map {
	cap := capacityFor(expectedKeys)
	return &table{
		store:      intmapStore{m: intmap.New[uint64, []entry](cap)},
		hash:       func(key []byte) uint64 { return xxhash.Sum64(key) },
		maxEntries: maxEntriesFor(cap),
	}
}
