package stationmap

import (
	"github.com/dolthub/maphash"
	"github.com/dolthub/swiss"
)

// swissStore adapts dolthub/swiss.Map (a SwissTable-style open-addressed
// map) to the bucketStore interface, for the fingerprint hashing scheme.
type swissStore struct {
	m *swiss.Map[uint64, []entry]
}

func (s swissStore) get(h uint64) ([]entry, bool) {
	return s.m.Get(h)
}

func (s swissStore) put(h uint64, bucket []entry) {
	s.m.Put(h, bucket)
}

func (s swissStore) forEach(fn func(uint64, []entry)) {
	s.m.Iter(func(h uint64, bucket []entry) bool {
		fn(h, bucket)
		return true
	})
}

func (s swissStore) buckets() int { return s.m.Count() }

// fingerprint packs the first and last three bytes of key into a fixed
// 6-byte array, per spec's "tiny fingerprint hash". Keys shorter than six
// bytes degrade gracefully: the two halves overlap rather than reading out
// of bounds.
func fingerprint(key []byte) [6]byte {
	var fp [6]byte
	n := len(key)
	if n >= 3 {
		copy(fp[0:3], key[0:3])
		copy(fp[3:6], key[n-3:n])
	} else {
		copy(fp[0:n], key)
		copy(fp[3:3+n], key)
	}
	return fp
}

// FingerprintMapOption configures NewFingerprintMap.
type FingerprintMapOption func(*table)

// WithUnsafeShortcut opts into the original source's unsafe behavior of
// treating a fingerprint-hash match as key equality without a byte
// comparison. Per spec §9, this is only correct when the caller has
// validated offline that no two station names in the dataset collide on
// their fingerprint; it is off by default.
func WithUnsafeShortcut() FingerprintMapOption {
	return func(t *table) { t.skipKeyCompare = true }
}

// NewFingerprintMap builds the "scheme (b)" table from spec: a fast hash
// over a lossy 6-byte fingerprint of the key, hashed via dolthub/maphash.
// By default it still performs a full key-byte comparison on hash match
// (the spec-mandated fallback); pass WithUnsafeShortcut to opt into the
// faster-but-unsafe original behavior.
func NewFingerprintMap(expectedKeys int, opts ...FingerprintMapOption) Map {
	cap := capacityFor(expectedKeys)
	hasher := maphash.NewHasher[[6]byte]()
	t := &table{
		store:      swissStore{m: swiss.NewMap[uint64, []entry](uint32(cap))},
		hash:       func(key []byte) uint64 { return hasher.Hash(fingerprint(key)) },
		maxEntries: maxEntriesFor(cap),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
