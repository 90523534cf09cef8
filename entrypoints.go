package car

import (
	"io"
	"os"

	"github.com/distribution/car/index"
	"github.com/distribution/car/internal/bytesrc"
)

// ReadBuffer opens the buffer-complete access mode over an in-memory
// archive (spec §4.4, §6): the whole archive is already resident, so
// construction only needs to walk it once to build the block list.
func ReadBuffer(data []byte, opts ...Option) (*Datastore, error) {
	o := applyOptions(opts...)
	r, err := newBufferReader(bytesrc.NewSlice(data), o.log)
	if err != nil {
		return nil, err
	}
	return newDatastore(ModeReadBuffer, r, noopWriter{}), nil
}

// ReadFileComplete opens the file-indexed access mode: one sequential
// scan builds an offset index, after which Get/Has are direct reads at
// the indexed offset (spec §4.4).
func ReadFileComplete(f *os.File, opts ...Option) (*Datastore, error) {
	o := applyOptions(opts...)
	r, err := newFileReader(f, o)
	if err != nil {
		return nil, err
	}
	return newDatastore(ModeReadFileComplete, r, noopWriter{}), nil
}

// ReadStreamComplete opens the stream-complete access mode: r is drained
// fully into memory before Roots/Get/Has/Query become usable, giving the
// same random-access surface as ReadBuffer but sourced from a stream
// (spec §4.4).
func ReadStreamComplete(r io.Reader, opts ...Option) (*Datastore, error) {
	o := applyOptions(opts...)
	rd, err := newBufferReader(bytesrc.NewStream(r, o.bufferSize), o.log)
	if err != nil {
		return nil, err
	}
	return newDatastore(ModeReadStreamComplete, rd, noopWriter{}), nil
}

// ReadStreaming opens the stream-incremental access mode: only the
// header is read eagerly; the archive is otherwise consumed lazily and
// exactly once via Query (spec §4.4). Get and Has are unsupported.
func ReadStreaming(r io.Reader, opts ...Option) (*Datastore, error) {
	o := applyOptions(opts...)
	rd, err := newStreamingReader(bytesrc.NewStream(r, o.bufferSize), o.log)
	if err != nil {
		return nil, err
	}
	return newDatastore(ModeReadStreaming, rd, noopWriter{}), nil
}

// Indexer opens the standalone lazy indexer over a stream (spec §6,
// indexer(path|stream) -> lazy sequence of IndexEntry): it decodes the
// header eagerly and then walks r one frame at a time via *index.Scanner,
// without ever holding the whole archive in memory. car/index.Scanner's
// backing bytesrc.Source is an internal type, so this is the entry point
// external callers use to build one.
func Indexer(r io.Reader, opts ...Option) (*index.Scanner, error) {
	o := applyOptions(opts...)
	return index.NewScanner(bytesrc.NewStream(r, o.bufferSize))
}

// IndexerFile opens the standalone lazy indexer over an already-open file,
// the same capability as Indexer but backed by chunked ReadAt calls
// instead of a forward-only stream (spec §6).
func IndexerFile(f *os.File, opts ...Option) (*index.Scanner, error) {
	o := applyOptions(opts...)
	return index.NewScanner(bytesrc.NewFile(f, o.bufferSize))
}

// ReadRaw reads the payload bytes an index.Entry describes directly out
// of f, without going through a Datastore (spec §6, readRaw(fileHandle,
// IndexEntry) -> payload bytes). It is the counterpart to Indexer/
// IndexerFile for a caller that wants to resolve entries itself instead
// of driving a full Datastore.
func ReadRaw(f *os.File, e index.Entry) ([]byte, error) {
	return bytesrc.ReadRangeAt(f, e.BlockOffset, e.BlockLength)
}

// WriteStream opens the write-only access mode over sink: SetRoots is
// legal once before the first Put, after which every Put is appended
// directly to sink (spec §4.5).
func WriteStream(sink io.WriteCloser, opts ...Option) *Datastore {
	o := applyOptions(opts...)
	w := newStreamWriter(sink, o.log)
	return newDatastore(ModeWriteStream, noopReader{}, w)
}
