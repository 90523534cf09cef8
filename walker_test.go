package car

import (
	"bytes"
	"context"
	"errors"
	"testing"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
)

// fakeGraph is a tiny in-memory link graph used to drive CompleteGraph
// without needing real dag-cbor encoding: node identity is the string
// name hashed into a CID, and links are declared explicitly.
type fakeGraph struct {
	nodes map[string][]string // name -> linked names
	cids  map[string]cid.Cid
}

func newFakeGraph(t *testing.T) *fakeGraph {
	t.Helper()
	g := &fakeGraph{nodes: map[string][]string{}, cids: map[string]cid.Cid{}}
	return g
}

func (g *fakeGraph) add(t *testing.T, name string, links ...string) cid.Cid {
	t.Helper()
	c := genCid(t, name)
	g.nodes[name] = links
	g.cids[name] = c
	return c
}

func (g *fakeGraph) nameOf(c cid.Cid) string {
	for name, id := range g.cids {
		if id.Equals(c) {
			return name
		}
	}
	return ""
}

func (g *fakeGraph) get(ctx context.Context, c cid.Cid) (blocks.Block, error) {
	name := g.nameOf(c)
	if name == "" {
		return nil, errors.New("unknown cid")
	}
	return blocks.NewBlockWithCid([]byte(name), c)
}

type fakeEnumerator struct{ g *fakeGraph }

func (e fakeEnumerator) Links(c cid.Cid, payload []byte) ([]cid.Cid, error) {
	name := string(payload)
	links := e.g.nodes[name]
	out := make([]cid.Cid, len(links))
	for i, l := range links {
		out[i] = e.g.cids[l]
	}
	return out, nil
}

func TestCompleteGraphVisitsEachNodeOnce(t *testing.T) {
	g := newFakeGraph(t)
	// diamond: root -> {left, right} -> shared
	shared := g.add(t, "shared")
	left := g.add(t, "left", "shared")
	right := g.add(t, "right", "shared")
	root := g.add(t, "root", "left", "right")
	_ = shared
	_ = left
	_ = right

	var buf bytes.Buffer
	ds := WriteStream(nopWriteCloser{&buf})

	err := CompleteGraph(context.Background(), root, g.get, fakeEnumerator{g}, ds)
	if err != nil {
		t.Fatalf("CompleteGraph: %v", err)
	}

	rd, err := ReadBuffer(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadBuffer: %v", err)
	}
	defer rd.Close()

	roots, err := rd.GetRoots()
	if err != nil || len(roots) != 1 || !roots[0].Equals(root) {
		t.Fatalf("roots = %v, %v", roots, err)
	}

	it, err := rd.Query("")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	seen := map[string]int{}
	for it.Next() {
		seen[g.nameOf(it.CID())]++
	}
	if it.Err() != nil {
		t.Fatalf("query err: %v", it.Err())
	}
	for _, name := range []string{"root", "left", "right", "shared"} {
		if seen[name] != 1 {
			t.Fatalf("node %q visited %d times, want 1 (seen=%v)", name, seen[name], seen)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("visited %d distinct nodes, want 4: %v", len(seen), seen)
	}
}

func TestCompleteGraphSingleRootNoLinks(t *testing.T) {
	g := newFakeGraph(t)
	root := g.add(t, "lonely")

	var buf bytes.Buffer
	ds := WriteStream(nopWriteCloser{&buf})
	if err := CompleteGraph(context.Background(), root, g.get, fakeEnumerator{g}, ds); err != nil {
		t.Fatalf("CompleteGraph: %v", err)
	}

	rd, err := ReadBuffer(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadBuffer: %v", err)
	}
	defer rd.Close()

	it, err := rd.Query("")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	n := 0
	for it.Next() {
		n++
	}
	if n != 1 {
		t.Fatalf("got %d blocks, want 1", n)
	}
}

func TestCborLinkEnumeratorSkipsRawCodecLinks(t *testing.T) {
	// CborLinkEnumerator reports no links for a raw-codec CID, without
	// trying to decode the payload as dag-cbor.
	payload := []byte("raw payload")
	raw := cidFromRawPayload(t, payload)

	var enum CborLinkEnumerator
	links, err := enum.Links(raw, payload)
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("raw block reported %d links, want 0", len(links))
	}
}

func cidFromRawPayload(t *testing.T, payload []byte) cid.Cid {
	t.Helper()
	return genCid(t, string(payload))
}
