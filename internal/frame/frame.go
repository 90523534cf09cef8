// Package frame implements the low-level varint and CID-prefix parsing
// shared by the car package's codec and the index package's scanner, so
// neither has to depend on the other. Grounded on the teacher's vendored
// github.com/ipld/go-car/v2/internal/carv1/util.LdRead/LdWrite/ReadNode.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-varint"
)

// Sentinel errors mirror car/carerr's taxonomy without importing it, to
// keep this package free of a dependency back on the car module root.
var (
	ErrUnexpectedEnd  = errors.New("car: unexpected end of input")
	ErrVarintOverflow = errors.New("car: varint exceeds maximum of 9 bytes")
	ErrMalformedFrame = errors.New("car: malformed frame")
)

// ErrCidVersion0 signals a CID version 0 rejected in a frame's prefix.
var ErrCidVersion0 = errors.New("car: cid version 0 is not supported")

// ByteReader is the minimal capability frame parsing needs: byte-at-a-time
// reads for varints, bulk reads for frame bodies.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// ReadVarint reads one bounded unsigned LEB128 varint.
func ReadVarint(br io.ByteReader) (uint64, error) {
	v, err := varint.ReadUvarint(br)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrUnexpectedEnd
		}
		if err == varint.ErrOverflow {
			return 0, ErrVarintOverflow
		}
		return 0, err
	}
	return v, nil
}

// WriteVarint writes v as a length-minimal unsigned LEB128 varint.
func WriteVarint(w io.Writer, v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := varint.PutUvarint(buf, v)
	_, err := w.Write(buf[:n])
	return err
}

// VarintSize reports the encoded length of v in bytes.
func VarintSize(v uint64) int {
	return varint.UvarintSize(v)
}

// CheckCidVersion rejects CID version 0 (spec §9, Open Question 1: the
// same error in both header roots and block frames).
func CheckCidVersion(c cid.Cid) error {
	if c.Version() == 0 {
		return ErrCidVersion0
	}
	return nil
}

// SplitFrame parses the CID prefix out of a fully-read frame buffer and
// returns the CID together with the remaining payload bytes.
func SplitFrame(buf []byte) (c cid.Cid, payload []byte, err error) {
	n, parsed, err := cid.CidFromBytes(buf)
	if err != nil {
		return cid.Undef, nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if n <= 0 || n > len(buf) {
		return cid.Undef, nil, fmt.Errorf("%w: cid consumed %d of %d bytes", ErrMalformedFrame, n, len(buf))
	}
	if err := CheckCidVersion(parsed); err != nil {
		return cid.Undef, nil, err
	}
	return parsed, buf[n:], nil
}

// ReadFrame reads one varint-prefixed frame from r and splits it into a
// CID and payload (spec §4.3). A zero-length frame is malformed.
func ReadFrame(r ByteReader) (c cid.Cid, payload []byte, err error) {
	l, err := ReadVarint(r)
	if err != nil {
		return cid.Undef, nil, err
	}
	if l == 0 {
		return cid.Undef, nil, fmt.Errorf("%w: zero-length frame", ErrMalformedFrame)
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(r, buf); err != nil {
		return cid.Undef, nil, ErrUnexpectedEnd
	}
	return SplitFrame(buf)
}

// WriteFrame writes varint(len(cidBytes)+len(payload)) ‖ cidBytes ‖ payload.
func WriteFrame(w io.Writer, c cid.Cid, payload []byte) error {
	cb := c.Bytes()
	if err := WriteVarint(w, uint64(len(cb)+len(payload))); err != nil {
		return err
	}
	if _, err := w.Write(cb); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// FrameSize reports the on-wire byte length of one block frame.
func FrameSize(c cid.Cid, payload []byte) int {
	l := uint64(len(c.Bytes()) + len(payload))
	return VarintSize(l) + int(l)
}
