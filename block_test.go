package car

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/distribution/car/carerr"
)

func TestBlockRoundTrip(t *testing.T) {
	c := genCid(t, "hello")
	payload := []byte("hello world")

	var buf bytes.Buffer
	if err := encodeBlock(&buf, c, payload); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := buf.Len(); got != blockFrameSize(c, payload) {
		t.Fatalf("blockFrameSize = %d, wrote %d", blockFrameSize(c, payload), got)
	}

	gotCid, gotPayload, err := decodeBlock(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !gotCid.Equals(c) {
		t.Fatalf("cid mismatch: got %s want %s", gotCid, c)
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Fatalf("payload mismatch: got %q want %q", gotPayload, payload)
	}
}

func TestBlockRejectsCidVersion0(t *testing.T) {
	mh, err := multihash.Sum([]byte("x"), multihash.SHA2_256, -1)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	c := cid.NewCidV0(mh)

	var buf bytes.Buffer
	if err := encodeBlock(&buf, c, []byte("payload")); err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, _, err = decodeBlock(&buf)
	if !errors.Is(err, carerr.NewUnsupportedCidVersion(0)) {
		t.Fatalf("expected UnsupportedCidVersion, got %v", err)
	}
}
