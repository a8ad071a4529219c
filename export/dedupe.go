package export

import (
	"encoding/binary"
	"encoding/json"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Deduper drops records already seen in earlier snapshots. A Bloom filter
// keeps the memory footprint flat across large exports. A false positive
// drops a unique record at the rate configured in NewDeduper.
type Deduper struct {
	filter *bloom.BloomFilter
}

// NewDeduper creates a Deduper sized for n expected records with the
// given false positive rate.
func NewDeduper(n uint, fpRate float64) *Deduper {
	return &Deduper{filter: bloom.NewWithEstimates(n, fpRate)}
}

// Seen reports whether the record was observed before and marks it as
// observed. Records hash by their canonical field ordering, so key order
// in the source JSON does not matter.
func (d *Deduper) Seen(rec Record) bool {
	var digest [8]byte
	binary.BigEndian.PutUint64(digest[:], recordDigest(rec))
	return d.filter.TestOrAdd(digest[:])
}

// Filter returns the records not seen before, preserving order.
func (d *Deduper) Filter(records []Record) []Record {
	out := records[:0:0]
	for _, rec := range records {
		if !d.Seen(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// recordDigest computes a canonical xxhash digest of a record.
func recordDigest(rec Record) uint64 {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		if data, err := json.Marshal(rec[k]); err == nil {
			b.Write(data)
		}
		b.WriteByte(';')
	}
	return xxhash.Sum64String(b.String())
}
