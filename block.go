package car

import (
	"io"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"

	"github.com/distribution/car/internal/frame"
)

// encodeBlock writes varint(len(cid)+len(payload)) ‖ cidBytes ‖ payload to w.
func encodeBlock(w io.Writer, c cid.Cid, payload []byte) error {
	return frame.WriteFrame(w, c, payload)
}

// blockFrameSize reports the on-wire byte length of one block frame.
func blockFrameSize(c cid.Cid, payload []byte) int {
	return frame.FrameSize(c, payload)
}

// decodeBlock reads one varint-prefixed frame from r and splits it into a
// CID (prefix-parsed) and the remaining payload, per spec §4.3.
func decodeBlock(r byteReader) (cid.Cid, []byte, error) {
	c, payload, err := frame.ReadFrame(r)
	if err != nil {
		return cid.Undef, nil, translateFrameErr(err)
	}
	return c, payload, nil
}

// newBlock wraps a (cid, payload) pair as a go-block-format Block, the
// return type shared with the graph walker's link enumerator.
func newBlock(c cid.Cid, payload []byte) (blocks.Block, error) {
	return blocks.NewBlockWithCid(payload, c)
}
