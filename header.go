package car

import (
	"errors"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"

	"github.com/distribution/car/carerr"
	"github.com/distribution/car/internal/headercodec"
)

// encodeHeader writes varint(len) ‖ cbor({version:1, roots}) to w.
func encodeHeader(w io.Writer, roots []cid.Cid) error {
	return headercodec.Encode(w, roots)
}

// headerSize reports the on-wire byte length of the header for the given
// roots, without writing anything.
func headerSize(roots []cid.Cid) (int, error) {
	return headercodec.Size(roots)
}

// decodeHeader reads one varint-prefixed CBOR header from r, translating
// internal/headercodec's errors into car/carerr's public taxonomy.
func decodeHeader(r byteReader) ([]cid.Cid, error) {
	roots, err := headercodec.Decode(r)
	if err != nil {
		return nil, translateHeaderErr(err)
	}
	return roots, nil
}

func translateHeaderErr(err error) error {
	var uv *headercodec.ErrUnsupportedVersion
	if errors.As(err, &uv) {
		return carerr.NewUnsupportedVersion(uv.Got)
	}
	if errors.Is(err, headercodec.ErrMalformed) {
		return fmt.Errorf("%w: %v", carerr.ErrMalformedHeader, err)
	}
	return translateFrameErr(err)
}
