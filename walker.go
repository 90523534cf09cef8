package car

import (
	"context"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	cbor "github.com/ipfs/go-ipld-cbor"
	format "github.com/ipfs/go-ipld-format"
	"golang.org/x/sync/errgroup"
)

// GetFunc is the walker's sole external collaborator (spec §1's
// "get" capability): resolve a CID to its block from whatever backs the
// source graph (a blockstore, a network client, another archive).
type GetFunc func(ctx context.Context, c cid.Cid) (blocks.Block, error)

// LinkEnumerator is the walker's other external collaborator (spec §1):
// given a block's CID (which carries its codec tag) and payload, list
// the CIDs it links to. raw-codec blocks have no links.
type LinkEnumerator interface {
	Links(c cid.Cid, payload []byte) ([]cid.Cid, error)
}

// CborLinkEnumerator extracts links from dag-cbor blocks via go-ipld-cbor,
// and reports no links for raw blocks (spec §4.7). It is the concrete
// wiring CompleteGraph uses when the caller has none of their own; any
// other codec is left to a caller-supplied LinkEnumerator.
type CborLinkEnumerator struct{}

func (CborLinkEnumerator) Links(c cid.Cid, payload []byte) ([]cid.Cid, error) {
	if c.Prefix().Codec == cid.Raw {
		return nil, nil
	}
	blk, err := newBlock(c, payload)
	if err != nil {
		return nil, err
	}
	var node format.Node
	node, err = cbor.DecodeBlock(blk)
	if err != nil {
		return nil, err
	}
	links := node.Links()
	out := make([]cid.Cid, len(links))
	for i, l := range links {
		out[i] = l.Cid
	}
	return out, nil
}

// walker holds one CompleteGraph run's shared state: the seen set that
// enforces spec §4.7's "each CID appears at most once" invariant, and
// the collaborators driving fetch and link enumeration.
type walker struct {
	get         GetFunc
	enum        LinkEnumerator
	ds          *Datastore
	concurrency int
	seen        map[string]bool
}

// CompleteGraph writes root and its full reachable subtree to ds, a
// fresh write-mode Datastore (spec §4.7). Links are fetched in chunks of
// WithConcurrency (default 1); within a chunk, get is issued for every
// link in parallel via golang.org/x/sync/errgroup, then, in chunk order,
// each resolved block is written and recursed into before the next
// chunk starts — depth-first, deterministic given root and get.
func CompleteGraph(ctx context.Context, root cid.Cid, get GetFunc, enum LinkEnumerator, ds *Datastore, opts ...WalkOption) error {
	o := applyWalkOptions(opts...)
	if enum == nil {
		enum = CborLinkEnumerator{}
	}

	if err := ds.SetRoots([]cid.Cid{root}); err != nil {
		return err
	}

	w := &walker{get: get, enum: enum, ds: ds, concurrency: o.concurrency, seen: make(map[string]bool)}

	rootBlock, err := get(ctx, root)
	if err != nil {
		return err
	}
	if err := ds.Put(root, rootBlock.RawData()); err != nil {
		return err
	}
	w.seen[keyOf(root)] = true
	o.log.Debugf("car: walk root %s", root)

	if err := w.walk(ctx, root, rootBlock.RawData()); err != nil {
		return err
	}
	o.log.Debugf("car: walk complete, %d blocks written", len(w.seen))
	return ds.Close()
}

func (w *walker) walk(ctx context.Context, parent cid.Cid, payload []byte) error {
	links, err := w.enum.Links(parent, payload)
	if err != nil {
		return err
	}

	var fresh []cid.Cid
	for _, l := range links {
		key := keyOf(l)
		if !w.seen[key] {
			fresh = append(fresh, l)
		}
	}

	for i := 0; i < len(fresh); i += w.concurrency {
		end := i + w.concurrency
		if end > len(fresh) {
			end = len(fresh)
		}
		chunk := fresh[i:end]

		resolved := make([]blocks.Block, len(chunk))
		g, gctx := errgroup.WithContext(ctx)
		for j, c := range chunk {
			j, c := j, c
			g.Go(func() error {
				b, err := w.get(gctx, c)
				if err != nil {
					return err
				}
				resolved[j] = b
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, b := range resolved {
			key := keyOf(b.Cid())
			if w.seen[key] {
				continue
			}
			w.seen[key] = true
			if err := w.ds.Put(b.Cid(), b.RawData()); err != nil {
				return err
			}
			if err := w.walk(ctx, b.Cid(), b.RawData()); err != nil {
				return err
			}
		}
	}
	return nil
}
