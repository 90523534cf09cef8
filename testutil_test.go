package car

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/sirupsen/logrus"
)

// silentEntry returns a *logrus.Entry backed by the package's own
// no-op logger, for tests that construct readers/writers directly
// without going through the Option-based constructors.
func silentEntry() *logrus.Entry {
	return logrus.NewEntry(silentLogger)
}

// genCid returns a deterministic CIDv1(raw) over data, for use as test
// fixture identifiers throughout this package's tests.
func genCid(t *testing.T, data string) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte(data), multihash.SHA2_256, -1)
	if err != nil {
		t.Fatalf("hash %q: %v", data, err)
	}
	return cid.NewCidV1(cid.Raw, mh)
}

type testBlock struct {
	c       cid.Cid
	payload []byte
}

// buildArchive writes roots and blocks in order using the same
// encodeHeader/encodeBlock the writer uses, giving tests a
// known-good archive to decode without going through streamWriter.
func buildArchive(t *testing.T, roots []cid.Cid, blocks []testBlock) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := encodeHeader(&buf, roots); err != nil {
		t.Fatalf("encode header: %v", err)
	}
	for _, b := range blocks {
		if err := encodeBlock(&buf, b.c, b.payload); err != nil {
			t.Fatalf("encode block %s: %v", b.c, err)
		}
	}
	return buf.Bytes()
}
