package index

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func genCid(t *testing.T, data string) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte(data), multihash.SHA2_256, -1)
	if err != nil {
		t.Fatalf("hash %q: %v", data, err)
	}
	return cid.NewCidV1(cid.Raw, mh)
}

func TestIndexAddAndGet(t *testing.T) {
	ix := New()
	a := genCid(t, "a")
	b := genCid(t, "b")

	ix.Add(Entry{Key: keyOf(a), CID: a, BlockOffset: 10, BlockLength: 4})
	ix.Add(Entry{Key: keyOf(b), CID: b, BlockOffset: 20, BlockLength: 8})

	e, ok := ix.GetCid(a)
	if !ok || e.BlockOffset != 10 || e.BlockLength != 4 {
		t.Fatalf("GetCid(a) = %+v, %v", e, ok)
	}
	if ix.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ix.Len())
	}
	if len(ix.Entries()) != 2 {
		t.Fatalf("Entries() length = %d, want 2", len(ix.Entries()))
	}
}

func TestIndexShadowsEarlierEntry(t *testing.T) {
	ix := New()
	c := genCid(t, "dup")

	ix.Add(Entry{Key: keyOf(c), CID: c, BlockOffset: 0, BlockLength: 3})
	ix.Add(Entry{Key: keyOf(c), CID: c, BlockOffset: 100, BlockLength: 3})

	e, ok := ix.GetCid(c)
	if !ok {
		t.Fatalf("GetCid(dup) not found")
	}
	if e.BlockOffset != 100 {
		t.Fatalf("GetCid(dup) offset = %d, want 100 (last write wins)", e.BlockOffset)
	}
	if ix.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (both physical entries retained)", ix.Len())
	}
}

func TestIndexGetMissing(t *testing.T) {
	ix := New()
	if _, ok := ix.Get("nonexistent"); ok {
		t.Fatalf("Get(nonexistent) = true, want false")
	}
}
