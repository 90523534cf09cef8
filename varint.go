package car

import (
	"errors"
	"fmt"
	"io"

	"github.com/distribution/car/carerr"
	"github.com/distribution/car/internal/frame"
)

// byteReader is the minimal capability the varint and header decoders
// need: byte-at-a-time reads for the varint, bulk reads for the payload.
// Mirrors the teacher's own internal/carv1/util.BytesReader.
type byteReader = frame.ByteReader

// readVarint reads one bounded unsigned LEB128 varint, translating
// internal/frame's sentinel errors into car/carerr's public taxonomy.
func readVarint(br io.ByteReader) (uint64, error) {
	v, err := frame.ReadVarint(br)
	if err != nil {
		return 0, translateFrameErr(err)
	}
	return v, nil
}

// writeVarint writes v to w as a length-minimal unsigned LEB128 varint.
func writeVarint(w io.Writer, v uint64) error {
	return frame.WriteVarint(w, v)
}

// varintSize reports the encoded length of v in bytes.
func varintSize(v uint64) int {
	return frame.VarintSize(v)
}

// translateFrameErr maps internal/frame's package-local sentinels onto
// car/carerr's public ones so callers only ever see one taxonomy.
func translateFrameErr(err error) error {
	switch {
	case errors.Is(err, frame.ErrUnexpectedEnd):
		return carerr.ErrUnexpectedEnd
	case errors.Is(err, frame.ErrVarintOverflow):
		return carerr.ErrVarintOverflow
	case errors.Is(err, frame.ErrCidVersion0):
		return carerr.NewUnsupportedCidVersion(0)
	case errors.Is(err, frame.ErrMalformedFrame):
		return fmt.Errorf("%w: %v", carerr.ErrMalformedFrame, err)
	default:
		return err
	}
}
