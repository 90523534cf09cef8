package car

import (
	"os"
	"testing"

	"github.com/ipfs/go-cid"
)

func openTempArchive(t *testing.T, data []byte) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.car")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	return f
}

func TestFileReaderRoundTrip(t *testing.T) {
	a, b, c := genCid(t, "a"), genCid(t, "b"), genCid(t, "c")
	blocks := []testBlock{
		{c: a, payload: []byte("A")},
		{c: b, payload: []byte("B")},
		{c: c, payload: []byte("C")},
	}
	data := buildArchive(t, []cid.Cid{a}, blocks)
	f := openTempArchive(t, data)

	r, err := newFileReader(f, defaultOptions())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer r.Close()

	roots, err := r.Roots()
	if err != nil || len(roots) != 1 || !roots[0].Equals(a) {
		t.Fatalf("roots = %v, %v", roots, err)
	}

	got, err := r.Get(c)
	if err != nil || string(got) != "C" {
		t.Fatalf("get(c) = %q, %v", got, err)
	}

	if ok, _ := r.Has(genCid(t, "missing")); ok {
		t.Fatalf("has(missing) = true, want false")
	}

	it, err := r.Query()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	n := 0
	for it.Next() {
		n++
	}
	if it.Err() != nil {
		t.Fatalf("query err: %v", it.Err())
	}
	if n != 3 {
		t.Fatalf("query yielded %d blocks, want 3", n)
	}
}

// TestFileReaderIndexSoundness checks that every index entry, read back
// directly at its recorded offset and length, reproduces exactly the
// payload the reader returns through Get.
func TestFileReaderIndexSoundness(t *testing.T) {
	blocks := []testBlock{
		{c: genCid(t, "x"), payload: []byte("payload-x")},
		{c: genCid(t, "y"), payload: []byte("a slightly longer payload for y")},
	}
	data := buildArchive(t, nil, blocks)
	f := openTempArchive(t, data)

	r, err := newFileReader(f, defaultOptions())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer r.Close()

	for _, e := range r.idx.Entries() {
		raw, err := ReadRaw(r.f, e)
		if err != nil {
			t.Fatalf("read raw for %s: %v", e.CID, err)
		}
		want, err := r.Get(e.CID)
		if err != nil {
			t.Fatalf("get %s: %v", e.CID, err)
		}
		if string(raw) != string(want) {
			t.Fatalf("index entry for %s mismatched payload: %q != %q", e.CID, raw, want)
		}
	}
}
