package car

import (
	"sync"

	"github.com/ipfs/go-cid"

	"github.com/distribution/car/carerr"
)

// Datastore is the facade of spec §4.6: it composes exactly one Reader
// and one Writer and dispatches every operation to whichever of the two
// is real for the given Mode, consulting capabilityMatrix rather than
// re-implementing per-mode policy. Grounded on the teacher's vendored
// blockstore.ReadWrite, which embeds a ReadOnly and layers write methods
// over it; here the split is made explicit as two collaborators instead
// of embedding, since a pure write-mode Datastore has no real reader at
// all.
type Datastore struct {
	mode   Mode
	caps   capabilities
	reader Reader
	writer Writer

	mu     sync.Mutex
	closed bool
}

func newDatastore(mode Mode, r Reader, w Writer) *Datastore {
	return &Datastore{mode: mode, caps: capabilityMatrix[mode], reader: r, writer: w}
}

// Mode reports which access mode this Datastore was constructed in.
func (d *Datastore) Mode() Mode { return d.mode }

func (d *Datastore) GetRoots() ([]cid.Cid, error) {
	if !d.caps.getRoots {
		return nil, carerr.ErrUnsupportedOperation
	}
	return d.reader.Roots()
}

func (d *Datastore) Get(c cid.Cid) ([]byte, error) {
	if !d.caps.get {
		return nil, carerr.ErrUnsupportedOperation
	}
	return d.reader.Get(c)
}

func (d *Datastore) Has(c cid.Cid) (bool, error) {
	if !d.caps.has {
		return false, carerr.ErrUnsupportedOperation
	}
	return d.reader.Has(c)
}

// Query returns the archive's (or stream's) blocks in order. prefix, if
// non-empty, restricts the yielded sequence to keys sharing that
// base58btc prefix (spec §4.6); the filter is applied to the stream, not
// pushed into any index.
func (d *Datastore) Query(prefix string) (BlockIterator, error) {
	if !d.caps.query {
		return nil, carerr.ErrUnsupportedOperation
	}
	it, err := d.reader.Query()
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		return it, nil
	}
	return &prefixIterator{inner: it, prefix: prefix}, nil
}

func (d *Datastore) SetRoots(roots []cid.Cid) error {
	if !d.caps.setRoots {
		return carerr.ErrUnsupportedOperation
	}
	return d.writer.SetRoots(roots)
}

func (d *Datastore) Put(c cid.Cid, payload []byte) error {
	if !d.caps.put {
		return carerr.ErrUnsupportedOperation
	}
	return d.writer.Put(c, payload)
}

func (d *Datastore) Delete(c cid.Cid) error {
	if !d.caps.delete {
		return carerr.ErrUnsupportedOperation
	}
	return d.writer.Delete(c)
}

// Close closes whichever of the reader/writer is real; the inert half is
// a no-op. Further calls fail with carerr.ErrAlreadyClosed.
func (d *Datastore) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return carerr.ErrAlreadyClosed
	}
	d.closed = true

	werr := d.writer.Close()
	if werr != nil && werr != carerr.ErrAlreadyClosed {
		return werr
	}
	return d.reader.Close()
}

// noopReader pairs with the write-only facade (spec §4.6): every read
// fails with carerr.ErrUnsupportedOperation.
type noopReader struct{}

func (noopReader) Roots() ([]cid.Cid, error)     { return nil, carerr.ErrUnsupportedOperation }
func (noopReader) Has(cid.Cid) (bool, error)     { return false, carerr.ErrUnsupportedOperation }
func (noopReader) Get(cid.Cid) ([]byte, error)   { return nil, carerr.ErrUnsupportedOperation }
func (noopReader) Query() (BlockIterator, error) { return nil, carerr.ErrUnsupportedOperation }
func (noopReader) Close() error                  { return nil }

var _ Reader = noopReader{}

// prefixIterator wraps a BlockIterator, skipping entries whose key does
// not share prefix (spec §4.6 query filtering).
type prefixIterator struct {
	inner  BlockIterator
	prefix string
	cur    cid.Cid
}

func (it *prefixIterator) Next() bool {
	for it.inner.Next() {
		c := it.inner.CID()
		if hasPrefix(keyOf(c), it.prefix) {
			it.cur = c
			return true
		}
	}
	return false
}

func (it *prefixIterator) CID() cid.Cid    { return it.cur }
func (it *prefixIterator) Payload() []byte { return it.inner.Payload() }
func (it *prefixIterator) Err() error      { return it.inner.Err() }
