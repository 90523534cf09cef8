// Package carstore adapts a car.Datastore facade onto the
// github.com/ipfs/go-datastore Datastore interface, so a CAR archive can
// be dropped in anywhere the ipfs ecosystem expects a generic key-value
// store. Grounded on the teacher's own use of go-datastore
// (github.com/ipfs/go-datastore) in its vendored ipfs storage driver,
// and on go-datastore's own basic_ds.go MapDatastore for the interface
// shape being adapted to.
package carstore

import (
	"context"
	"errors"
	"strings"

	"github.com/ipfs/go-cid"
	ds "github.com/ipfs/go-datastore"
	dsq "github.com/ipfs/go-datastore/query"

	"github.com/distribution/car"
	"github.com/distribution/car/carerr"
)

// Adapter implements ds.Datastore over a *car.Datastore, encoding keys
// as CIDs the way the CAR facade already expects. Keys that don't parse
// as a CID are rejected with an error rather than silently ignored.
type Adapter struct {
	inner *car.Datastore
}

// New wraps a *car.Datastore as a ds.Datastore.
func New(inner *car.Datastore) *Adapter {
	return &Adapter{inner: inner}
}

func keyToCid(k ds.Key) (cid.Cid, error) {
	return cid.Decode(strings.TrimPrefix(k.String(), "/"))
}

func cidToKey(c cid.Cid) ds.Key {
	return ds.NewKey(c.String())
}

func (a *Adapter) Get(_ context.Context, key ds.Key) ([]byte, error) {
	c, err := keyToCid(key)
	if err != nil {
		return nil, err
	}
	v, err := a.inner.Get(c)
	if errors.Is(err, carerr.ErrNotFound) {
		return nil, ds.ErrNotFound
	}
	return v, err
}

func (a *Adapter) Has(_ context.Context, key ds.Key) (bool, error) {
	c, err := keyToCid(key)
	if err != nil {
		return false, err
	}
	return a.inner.Has(c)
}

func (a *Adapter) GetSize(ctx context.Context, key ds.Key) (int, error) {
	v, err := a.Get(ctx, key)
	if err != nil {
		return -1, err
	}
	return len(v), nil
}

// Query always asks the facade for the unfiltered sequence and filters by
// prefix here instead: the facade's own prefix filter matches against the
// base58btc key it indexes CIDs under (car/index's keyOf), but the keys
// this method emits are ds.Key's base32 CID string (cidToKey). Pushing
// q.Prefix into inner.Query would filter one alphabet against the other
// and silently drop entries.
func (a *Adapter) Query(_ context.Context, q dsq.Query) (dsq.Results, error) {
	it, err := a.inner.Query("")
	if err != nil {
		return nil, err
	}
	var entries []dsq.Entry
	for it.Next() {
		key := cidToKey(it.CID()).String()
		if !strings.HasPrefix(key, q.Prefix) {
			continue
		}
		e := dsq.Entry{Key: key}
		if !q.KeysOnly {
			e.Value = it.Payload()
		}
		entries = append(entries, e)
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	return dsq.ResultsWithEntries(q, entries), nil
}

func (a *Adapter) Put(_ context.Context, key ds.Key, value []byte) error {
	c, err := keyToCid(key)
	if err != nil {
		return err
	}
	return a.inner.Put(c, value)
}

func (a *Adapter) Delete(_ context.Context, key ds.Key) error {
	c, err := keyToCid(key)
	if err != nil {
		return err
	}
	return a.inner.Delete(c)
}

func (a *Adapter) Sync(context.Context, ds.Key) error {
	return nil
}

func (a *Adapter) Close() error {
	return a.inner.Close()
}

// SetRoots exposes the CAR-specific root list, which has no equivalent
// in the generic ds.Datastore interface.
func (a *Adapter) SetRoots(roots []cid.Cid) error {
	return a.inner.SetRoots(roots)
}

// Roots exposes the CAR-specific root list, which has no equivalent in
// the generic ds.Datastore interface.
func (a *Adapter) Roots() ([]cid.Cid, error) {
	return a.inner.GetRoots()
}

var _ ds.Datastore = (*Adapter)(nil)
