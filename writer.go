package car

import (
	"io"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"

	"github.com/distribution/car/carerr"
)

// writerState tracks the state machine from spec §4.5: pre-header,
// post-header (setRoots or an implicit empty-roots header has been
// written), closed.
type writerState int

const (
	statePreHeader writerState = iota
	statePostHeader
	stateClosed
)

// Writer is the encode side of every access mode (spec §4.5). Only the
// write-mode datastore exposes a real one; read-mode facades pair with a
// noopWriter instead.
type Writer interface {
	// SetRoots writes the header with the given roots. Legal only
	// pre-header; later calls fail with carerr.ErrHeaderAlreadyWritten.
	SetRoots(roots []cid.Cid) error

	// Put writes one block frame, auto-writing an empty-roots header
	// first if called pre-header.
	Put(c cid.Cid, payload []byte) error

	// Delete always fails with carerr.ErrUnsupportedOperation.
	Delete(c cid.Cid) error

	// Close flushes and closes the sink. Further calls fail with
	// carerr.ErrAlreadyClosed.
	Close() error
}

// streamWriter is a streaming append-only encoder: setRoots then a
// sequence of puts, each written directly to the sink as it arrives
// (spec §4.5). Grounded on the teacher's vendored blockstore.ReadWrite,
// whose ronly.mu guards a single state (open/closed) that every write
// method checks; here the mutex additionally guards the pre/post-header
// transition so that the "no-await put" pattern serialises correctly.
type streamWriter struct {
	w     io.WriteCloser
	mu    sync.Mutex
	state writerState
	log   *logrus.Entry
	puts  int
}

func newStreamWriter(w io.WriteCloser, log *logrus.Entry) *streamWriter {
	return &streamWriter{w: w, state: statePreHeader, log: log}
}

func (wr *streamWriter) SetRoots(roots []cid.Cid) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	switch wr.state {
	case stateClosed:
		return carerr.ErrAlreadyClosed
	case statePostHeader:
		return carerr.ErrHeaderAlreadyWritten
	}
	if err := validateRoots(roots); err != nil {
		return err
	}
	if err := encodeHeader(wr.w, roots); err != nil {
		return err
	}
	wr.state = statePostHeader
	if n, err := headerSize(roots); err == nil {
		wr.log.Debugf("car: wrote header, %d roots, %d bytes", len(roots), n)
	} else {
		wr.log.Debugf("car: wrote header, %d roots", len(roots))
	}
	return nil
}

func (wr *streamWriter) Put(c cid.Cid, payload []byte) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if wr.state == stateClosed {
		return carerr.ErrAlreadyClosed
	}
	if !c.Defined() {
		return carerr.ErrInvalidBlock
	}
	if err := checkCidVersion(c); err != nil {
		return err
	}
	if wr.state == statePreHeader {
		if err := encodeHeader(wr.w, nil); err != nil {
			return err
		}
		wr.state = statePostHeader
		if n, err := headerSize(nil); err == nil {
			wr.log.Debugf("car: auto-wrote empty-roots header on first put, %d bytes", n)
		} else {
			wr.log.Debug("car: auto-wrote empty-roots header on first put")
		}
	}
	if err := encodeBlock(wr.w, c, payload); err != nil {
		return err
	}
	wr.puts++
	return nil
}

func (wr *streamWriter) Delete(cid.Cid) error {
	return carerr.ErrUnsupportedOperation
}

func (wr *streamWriter) Close() error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if wr.state == stateClosed {
		return carerr.ErrAlreadyClosed
	}
	wr.state = stateClosed
	wr.log.Debugf("car: closed after %d puts", wr.puts)
	return wr.w.Close()
}

func validateRoots(roots []cid.Cid) error {
	for _, r := range roots {
		if !r.Defined() {
			return carerr.ErrInvalidRoots
		}
		if err := checkCidVersion(r); err != nil {
			return err
		}
	}
	return nil
}

// noopWriter pairs with every read-mode facade: every mutation fails
// with carerr.ErrUnsupportedOperation, matching the capability matrix
// in spec §4.6 without re-implementing per-mode policy.
type noopWriter struct{}

func (noopWriter) SetRoots([]cid.Cid) error  { return carerr.ErrUnsupportedOperation }
func (noopWriter) Put(cid.Cid, []byte) error { return carerr.ErrUnsupportedOperation }
func (noopWriter) Delete(cid.Cid) error      { return carerr.ErrUnsupportedOperation }
func (noopWriter) Close() error              { return nil }

var _ Writer = noopWriter{}
var _ Writer = (*streamWriter)(nil)
