// Package car implements a reader and writer for the Content ARchive
// (CAR) format: a self-describing header followed by a concatenation of
// length-prefixed (CID, payload) frames.
//
// Five access modes are exposed as top-level constructors — ReadBuffer,
// ReadFileComplete, ReadStreamComplete, ReadStreaming and WriteStream —
// each returning a Datastore that restricts which of Get, Has, Query,
// SetRoots and Put are legal for that mode. CompleteGraph walks an
// arbitrary linked graph into a fresh write-mode Datastore.
//
// Indexer and IndexerFile expose a standalone lazy scan over an archive's
// entries without building a full Datastore, and ReadRaw resolves one
// such entry's payload directly against an open file.
package car
