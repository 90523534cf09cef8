package car

import (
	"github.com/sirupsen/logrus"

	"github.com/distribution/car/internal/bytesrc"
)

// Option configures a reader or writer constructor.
type Option func(*options)

type options struct {
	bufferSize int
	log        *logrus.Entry
}

func defaultOptions() options {
	return options{
		bufferSize: bytesrc.DefaultBufferSize,
		log:        logrus.NewEntry(silentLogger),
	}
}

// silentLogger backs the default no-op *logrus.Entry so that readers and
// writers built without WithLogger never allocate a real handler.
var silentLogger = newSilentLogger()

func newSilentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func applyOptions(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBufferSize sets the chunk size used by the file-indexed reader's
// scan and by stream cursors. Values less than 1 fall back to the
// default of 64 KiB (spec §6, Configuration).
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = bytesrc.DefaultBufferSize
		}
		o.bufferSize = n
	}
}

// WithLogger attaches structured debug logging to a reader or writer.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WalkOption configures CompleteGraph.
type WalkOption func(*walkOptions)

type walkOptions struct {
	concurrency int
	log         *logrus.Entry
}

func defaultWalkOptions() walkOptions {
	return walkOptions{concurrency: 1, log: logrus.NewEntry(silentLogger)}
}

// WithConcurrency sets how many outstanding link fetches CompleteGraph
// issues per chunk. Values less than 1 fall back to the default of 1
// (spec §6, Configuration).
func WithConcurrency(n int) WalkOption {
	return func(o *walkOptions) {
		if n < 1 {
			n = 1
		}
		o.concurrency = n
	}
}

// WithWalkLogger attaches structured debug logging to CompleteGraph.
func WithWalkLogger(log *logrus.Entry) WalkOption {
	return func(o *walkOptions) {
		if log != nil {
			o.log = log
		}
	}
}

func applyWalkOptions(opts ...WalkOption) walkOptions {
	o := defaultWalkOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
