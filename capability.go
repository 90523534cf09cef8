package car

// Mode identifies one of the five access modes a Datastore can be
// constructed in (spec §4.6).
type Mode int

const (
	ModeReadBuffer Mode = iota
	ModeReadFileComplete
	ModeReadStreamComplete
	ModeReadStreaming
	ModeWriteStream
)

func (m Mode) String() string {
	switch m {
	case ModeReadBuffer:
		return "readBuffer"
	case ModeReadFileComplete:
		return "readFileComplete"
	case ModeReadStreamComplete:
		return "readStreamComplete"
	case ModeReadStreaming:
		return "readStreaming"
	case ModeWriteStream:
		return "writeStream"
	default:
		return "unknown"
	}
}

// capabilities is the data-driven form of spec §4.6's capability matrix:
// which operations a mode permits. The facade consults this table
// instead of re-implementing per-mode policy in each dispatch method.
type capabilities struct {
	getRoots bool
	get      bool
	has      bool
	query    bool
	setRoots bool
	put      bool
	delete   bool
}

var capabilityMatrix = map[Mode]capabilities{
	ModeReadFileComplete:   {getRoots: true, get: true, has: true, query: true},
	ModeReadStreamComplete: {getRoots: true, get: true, has: true, query: true},
	ModeReadStreaming:      {getRoots: true, query: true},
	ModeWriteStream:        {setRoots: true, put: true},
	ModeReadBuffer:         {getRoots: true, get: true, has: true, query: true},
}
