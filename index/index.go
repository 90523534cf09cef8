// Package index builds and holds the file-indexed reader's offset index:
// an ordered sequence of entries mapping a CID to the byte range of its
// payload within a CAR, plus a key-to-entry map for O(1) lookup. Kept
// separate from the root car package so that both car (the file-indexed
// reader) and this package's own Scanner (the standalone lazy indexer,
// reached externally through the root package's Indexer/IndexerFile) can
// share the low-level frame parsing in internal/frame without either
// depending on the other. Grounded on the teacher's vendored
// github.com/ipld/go-car/v2/index.Index and blockstore/readonly.go's
// generateIndex/readBlock offset bookkeeping.
package index

import (
	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58"
)

// Entry locates one block's payload within a CAR. BlockOffset and
// BlockLength describe the frame's payload range only, not the outer
// varint or CID prefix.
type Entry struct {
	Key         string
	CID         cid.Cid
	BlockOffset int64
	BlockLength int
}

func keyOf(c cid.Cid) string {
	return base58.Encode(c.Bytes())
}

// Index is an ordered sequence of entries (for query replay in archive
// order) plus a key-to-entry map keeping the last-seen entry per key, so
// that duplicate CIDs within an archive are shadowed the same way the
// buffer reader shadows them.
type Index struct {
	entries []Entry
	lastOf  map[string]int
}

// New returns an empty index ready for Add.
func New() *Index {
	return &Index{lastOf: make(map[string]int)}
}

// Add appends e to the index, recording it as the last-seen entry for
// its key.
func (ix *Index) Add(e Entry) {
	ix.lastOf[e.Key] = len(ix.entries)
	ix.entries = append(ix.entries, e)
}

// Get returns the last-seen entry for key, and whether one exists.
func (ix *Index) Get(key string) (Entry, bool) {
	i, ok := ix.lastOf[key]
	if !ok {
		return Entry{}, false
	}
	return ix.entries[i], true
}

// GetCid is a convenience wrapper over Get for a cid.Cid key.
func (ix *Index) GetCid(c cid.Cid) (Entry, bool) {
	return ix.Get(keyOf(c))
}

// Entries returns the full ordered sequence of entries, including
// shadowed duplicates, for query replay.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// Len reports the number of entries, including shadowed duplicates.
func (ix *Index) Len() int {
	return len(ix.entries)
}
