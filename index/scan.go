package index

import (
	"io"

	"github.com/ipfs/go-cid"

	"github.com/distribution/car/internal/bytesrc"
	"github.com/distribution/car/internal/frame"
	"github.com/distribution/car/internal/headercodec"
)

// Build performs the one-pass sequential scan described for the
// file-indexed reader: decode the header, then walk every frame
// recording its payload's byte range, using a sliding window over src
// (src is expected to be a bytesrc.Source backed by a bufio reader, so
// "sliding window" bookkeeping is delegated to that buffering rather
// than reimplemented here).
func Build(src bytesrc.Source) (roots []cid.Cid, idx *Index, err error) {
	roots, err = headercodec.Decode(src)
	if err != nil {
		return nil, nil, err
	}
	idx = New()
	for {
		e, done, err := scanOne(src)
		if err != nil {
			return nil, nil, err
		}
		if done {
			return roots, idx, nil
		}
		idx.Add(e)
	}
}

// scanOne reads one frame from src and reports its Entry, or done=true
// once src is exhausted at a frame boundary.
func scanOne(src bytesrc.Source) (e Entry, done bool, err error) {
	if _, err := src.Peek(1); err != nil {
		if err == io.EOF {
			return Entry{}, true, nil
		}
		return Entry{}, false, err
	}

	l, err := frame.ReadVarint(src)
	if err != nil {
		return Entry{}, false, err
	}
	if l == 0 {
		return Entry{}, false, frame.ErrMalformedFrame
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(src, buf); err != nil {
		return Entry{}, false, frame.ErrUnexpectedEnd
	}
	c, payload, err := frame.SplitFrame(buf)
	if err != nil {
		return Entry{}, false, err
	}
	blockOffset := src.Position() - int64(len(payload))
	return Entry{
		Key:         keyOf(c),
		CID:         c,
		BlockOffset: blockOffset,
		BlockLength: len(payload),
	}, false, nil
}

// Scanner is the standalone lazy indexer (spec: indexer(path|stream)):
// it exposes the same one-pass walk as Build, entry by entry, without
// materialising a full Index. Shaped like the car package's
// BlockIterator so both follow the same Go-idiomatic Next/Err pattern.
type Scanner struct {
	src   bytesrc.Source
	roots []cid.Cid
	cur   Entry
	err   error
	done  bool
}

// NewScanner decodes src's header and returns a Scanner positioned at
// the first frame.
func NewScanner(src bytesrc.Source) (*Scanner, error) {
	roots, err := headercodec.Decode(src)
	if err != nil {
		return nil, err
	}
	return &Scanner{src: src, roots: roots}, nil
}

// Roots returns the roots decoded from the header.
func (s *Scanner) Roots() []cid.Cid {
	return s.roots
}

// Next advances to the next entry, returning false at EOF or on error.
func (s *Scanner) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	e, done, err := scanOne(s.src)
	if err != nil {
		s.err = err
		return false
	}
	if done {
		s.done = true
		return false
	}
	s.cur = e
	return true
}

// Entry returns the entry Next just advanced to.
func (s *Scanner) Entry() Entry {
	return s.cur
}

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Close releases the underlying source.
func (s *Scanner) Close() error {
	return s.src.Close()
}
