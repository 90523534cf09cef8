package car

import (
	"github.com/ipfs/go-cid"
)

// Reader is the capability surface every access mode's decode side
// implements (spec §4.4). A variant that does not support an operation
// returns carerr.ErrUnsupportedOperation.
type Reader interface {
	// Roots returns the archive's root CIDs.
	Roots() ([]cid.Cid, error)

	// Has reports whether the archive carries a block for c.
	Has(c cid.Cid) (bool, error)

	// Get returns the payload for c, or carerr.ErrNotFound.
	Get(c cid.Cid) ([]byte, error)

	// Query returns a lazy, forward-only sequence of the archive's
	// (CID, payload) pairs in archive order.
	Query() (BlockIterator, error)

	// Close releases the reader's underlying source. Further operations
	// fail with carerr.ErrAlreadyClosed.
	Close() error
}

// BlockIterator is a single-pass, forward-only sequence of blocks, the
// idiomatic-Go rendering of spec §9's "lazy sequence" requirement (the
// same shape as bufio.Scanner / sql.Rows: call Next until it returns
// false, then check Err).
type BlockIterator interface {
	// Next advances the iterator and reports whether a block is
	// available. It returns false at the end of the sequence or after
	// an error, which Err then reports.
	Next() bool

	// CID returns the current block's identifier. Valid only after a
	// call to Next that returned true.
	CID() cid.Cid

	// Payload returns the current block's payload. Valid only after a
	// call to Next that returned true.
	Payload() []byte

	// Err returns the first error encountered by Next, if any.
	Err() error
}

// sliceIterator implements BlockIterator over an already-materialised,
// ordered list of blocks (used by the buffer and stream-complete readers,
// whose query replays archive order from memory; the file reader uses
// fileIterator instead).
type sliceIterator struct {
	blocks []decodedBlock
	pos    int
	prefix string
}

type decodedBlock struct {
	cid     cid.Cid
	key     string
	payload []byte
}

func newSliceIterator(blocks []decodedBlock, prefix string) *sliceIterator {
	return &sliceIterator{blocks: blocks, pos: -1, prefix: prefix}
}

func (it *sliceIterator) Next() bool {
	for {
		it.pos++
		if it.pos >= len(it.blocks) {
			return false
		}
		if it.prefix == "" || hasPrefix(it.blocks[it.pos].key, it.prefix) {
			return true
		}
	}
}

func (it *sliceIterator) CID() cid.Cid    { return it.blocks[it.pos].cid }
func (it *sliceIterator) Payload() []byte { return it.blocks[it.pos].payload }
func (it *sliceIterator) Err() error      { return nil }

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
