package car

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/distribution/car/carerr"
	"github.com/distribution/car/internal/bytesrc"
)

func TestStreamingReaderExhaustionThenUnsupported(t *testing.T) {
	var blocks []testBlock
	for i := 0; i < 100; i++ {
		c := genCid(t, fmt.Sprintf("block-%d", i))
		blocks = append(blocks, testBlock{c: c, payload: []byte(fmt.Sprintf("payload-%d", i))})
	}
	data := buildArchive(t, nil, blocks)

	r, err := newStreamingReader(bytesrc.NewStream(bytes.NewReader(data), 0), silentEntry())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	it, err := r.Query()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var seen []cid.Cid
	for it.Next() {
		seen = append(seen, it.CID())
	}
	if it.Err() != nil {
		t.Fatalf("query err: %v", it.Err())
	}
	if len(seen) != len(blocks) {
		t.Fatalf("got %d blocks, want %d", len(seen), len(blocks))
	}

	if _, err := r.Get(blocks[0].c); !errors.Is(err, carerr.ErrUnsupportedOperation) {
		t.Fatalf("get after exhaustion: got %v", err)
	}
}

func TestStreamingReaderConcurrentIteration(t *testing.T) {
	blocks := []testBlock{
		{c: genCid(t, "a"), payload: []byte("A")},
		{c: genCid(t, "b"), payload: []byte("B")},
	}
	data := buildArchive(t, nil, blocks)

	r, err := newStreamingReader(bytesrc.NewStream(bytes.NewReader(data), 0), silentEntry())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := r.Query(); err != nil {
		t.Fatalf("first query: %v", err)
	}
	if _, err := r.Query(); !errors.Is(err, carerr.ErrConcurrentIteration) {
		t.Fatalf("second query: got %v, want ErrConcurrentIteration", err)
	}
}
