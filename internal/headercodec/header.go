// Package headercodec implements the CAR header's CBOR map {version,
// roots}, factored out of the car package so that both car and
// car/index (which needs to skip the header while scanning without
// importing its sibling) can decode it. Grounded on the teacher's
// vendored github.com/ipld/go-car/v2/internal/carv1.CarHeader.
package headercodec

import (
	"errors"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	cbor "github.com/ipfs/go-ipld-cbor"

	"github.com/distribution/car/internal/frame"
)

// Version is the only header version this codec accepts, on either
// encode or decode (spec §3).
const Version = 1

// ErrMalformed signals a header that is not a CBOR map with the expected
// keys and types.
var ErrMalformed = errors.New("car: malformed header")

// ErrUnsupportedVersion signals a header whose version is not Version.
type ErrUnsupportedVersion struct{ Got uint64 }

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("car: unsupported header version %d", e.Got)
}

// Header mirrors the on-wire CBOR map. go-ipld-cbor's atlas builder
// lower-cases exported field names by default, which is what produces
// the wire keys "roots" and "version" without needing struct tags —
// exactly as in the teacher's own CarHeader.
type Header struct {
	Roots   []cid.Cid
	Version uint64
}

func init() {
	cbor.RegisterCborType(Header{})
}

// Encode writes varint(len) ‖ cbor({version, roots}) to w.
func Encode(w io.Writer, roots []cid.Cid) error {
	h := Header{Roots: roots, Version: Version}
	hb, err := cbor.DumpObject(&h)
	if err != nil {
		return fmt.Errorf("car: encode header: %w", err)
	}
	if err := frame.WriteVarint(w, uint64(len(hb))); err != nil {
		return err
	}
	_, err = w.Write(hb)
	return err
}

// Size reports the on-wire byte length of the header for the given roots.
func Size(roots []cid.Cid) (int, error) {
	h := Header{Roots: roots, Version: Version}
	hb, err := cbor.DumpObject(&h)
	if err != nil {
		return 0, fmt.Errorf("car: measure header: %w", err)
	}
	return frame.VarintSize(uint64(len(hb))) + len(hb), nil
}

// Decode reads one varint-prefixed CBOR header from r, validates its
// version and root CIDs (rejecting CID version 0, spec §9 Open Question
// 1), and returns the parsed roots.
func Decode(r frame.ByteReader) ([]cid.Cid, error) {
	l, err := frame.ReadVarint(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, frame.ErrUnexpectedEnd
	}

	var h Header
	if err := cbor.DecodeInto(buf, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if h.Version != Version {
		return nil, &ErrUnsupportedVersion{Got: h.Version}
	}
	for _, root := range h.Roots {
		if err := frame.CheckCidVersion(root); err != nil {
			return nil, err
		}
	}
	return h.Roots, nil
}
