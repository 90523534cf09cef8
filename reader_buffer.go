package car

import (
	"io"

	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"

	"github.com/distribution/car/carerr"
	"github.com/distribution/car/internal/bytesrc"
)

// bufferReader implements the buffer-complete and stream-complete reader
// variants (spec §4.4): decode the header, then iterate frames to build
// an ordered in-memory list of blocks plus a key→last-index map for O(1)
// get/has, keeping the last-seen payload per key (spec §3, duplicate
// shadowing). Grounded on internal/carv1/car.go's loadCarSlow drain loop.
type bufferReader struct {
	roots  []cid.Cid
	blocks []decodedBlock
	lastOf map[string]int
	closed bool
	log    *logrus.Entry
}

// newBufferReader fully drains src, which the caller has already wired to
// either an in-memory slice or a buffered stream cursor, decoding every
// frame into memory before returning.
func newBufferReader(src bytesrc.Source, log *logrus.Entry) (*bufferReader, error) {
	defer src.Close()

	roots, err := decodeHeader(src)
	if err != nil {
		return nil, err
	}

	br := &bufferReader{roots: roots, lastOf: make(map[string]int), log: log}
	for {
		// Detect end of archive: no more bytes to read at all.
		if _, err := src.Peek(1); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		c, payload, err := decodeBlock(src)
		if err != nil {
			return nil, err
		}
		key := keyOf(c)
		br.lastOf[key] = len(br.blocks)
		br.blocks = append(br.blocks, decodedBlock{cid: c, key: key, payload: payload})
	}
	log.Debugf("car: buffered %d blocks, %d roots", len(br.blocks), len(roots))
	return br, nil
}

func (r *bufferReader) Roots() ([]cid.Cid, error) {
	if r.closed {
		return nil, carerr.ErrAlreadyClosed
	}
	return r.roots, nil
}

func (r *bufferReader) Has(c cid.Cid) (bool, error) {
	if r.closed {
		return false, carerr.ErrAlreadyClosed
	}
	_, ok := r.lastOf[keyOf(c)]
	return ok, nil
}

func (r *bufferReader) Get(c cid.Cid) ([]byte, error) {
	if r.closed {
		return nil, carerr.ErrAlreadyClosed
	}
	idx, ok := r.lastOf[keyOf(c)]
	if !ok {
		return nil, carerr.ErrNotFound
	}
	return r.blocks[idx].payload, nil
}

func (r *bufferReader) Query() (BlockIterator, error) {
	if r.closed {
		return nil, carerr.ErrAlreadyClosed
	}
	return newSliceIterator(r.blocks, ""), nil
}

func (r *bufferReader) Close() error {
	if r.closed {
		return carerr.ErrAlreadyClosed
	}
	r.closed = true
	r.log.Debug("car: buffer reader closed")
	return nil
}
