package car

import (
	"bytes"
	"errors"
	"testing"

	"github.com/distribution/car/carerr"
)

func TestVarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40} {
		var buf bytes.Buffer
		if err := writeVarint(&buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		if got := buf.Len(); got != varintSize(v) {
			t.Fatalf("varintSize(%d) = %d, wrote %d bytes", v, varintSize(v), got)
		}
		got, err := readVarint(&buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestVarintUnexpectedEnd(t *testing.T) {
	buf := bytes.NewReader([]byte{0x80}) // continuation bit set, no more bytes
	_, err := readVarint(buf)
	if !errors.Is(err, carerr.ErrUnexpectedEnd) {
		t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
	}
}
