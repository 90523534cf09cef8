package car

import (
	"io"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"

	"github.com/distribution/car/carerr"
	"github.com/distribution/car/internal/bytesrc"
)

// streamingReader implements the stream-incremental reader variant (spec
// §4.4): only the header is read eagerly; query consumes the stream
// frame-by-frame and yields a lazy, single-pass sequence. get/has are
// unsupported. Grounded on go-car/v2's BlockReader.Next forward-only
// iteration shape, minus the content-hash verification spec.md excludes.
type streamingReader struct {
	src   bytesrc.Source
	roots []cid.Cid
	log   *logrus.Entry

	mu       sync.Mutex
	closed   bool
	querying bool
}

func newStreamingReader(src bytesrc.Source, log *logrus.Entry) (*streamingReader, error) {
	roots, err := decodeHeader(src)
	if err != nil {
		src.Close()
		return nil, err
	}
	log.Debugf("car: streaming reader ready, %d roots", len(roots))
	return &streamingReader{src: src, roots: roots, log: log}, nil
}

func (r *streamingReader) Roots() ([]cid.Cid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, carerr.ErrAlreadyClosed
	}
	return r.roots, nil
}

func (r *streamingReader) Has(cid.Cid) (bool, error) {
	return false, carerr.ErrUnsupportedOperation
}

func (r *streamingReader) Get(cid.Cid) ([]byte, error) {
	return nil, carerr.ErrUnsupportedOperation
}

func (r *streamingReader) Query() (BlockIterator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, carerr.ErrAlreadyClosed
	}
	if r.querying {
		return nil, carerr.ErrConcurrentIteration
	}
	r.querying = true
	return &streamIterator{r: r}, nil
}

func (r *streamingReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return carerr.ErrAlreadyClosed
	}
	r.closed = true
	r.log.Debug("car: streaming reader closed")
	return r.src.Close()
}

// streamIterator is the single active query permitted over a
// streamingReader at a time (spec §4.4).
type streamIterator struct {
	r       *streamingReader
	cur     decodedBlock
	err     error
	done    bool
	started bool
}

func (it *streamIterator) Next() bool {
	if it.done {
		return false
	}
	it.r.mu.Lock()
	defer it.r.mu.Unlock()

	if it.r.closed {
		it.err = carerr.ErrAlreadyClosed
		it.finish()
		return false
	}

	if _, err := it.r.src.Peek(1); err != nil {
		if err == io.EOF {
			it.finish()
			return false
		}
		it.err = err
		it.finish()
		return false
	}

	c, payload, err := decodeBlock(it.r.src)
	if err != nil {
		it.err = err
		it.finish()
		return false
	}
	it.cur = decodedBlock{cid: c, key: keyOf(c), payload: payload}
	it.started = true
	return true
}

func (it *streamIterator) finish() {
	it.done = true
	it.r.querying = false
}

func (it *streamIterator) CID() cid.Cid    { return it.cur.cid }
func (it *streamIterator) Payload() []byte { return it.cur.payload }
func (it *streamIterator) Err() error      { return it.err }
