package car

import (
	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58"

	"github.com/distribution/car/carerr"
)

// keyOf renders c as the canonical base58btc string used as a datastore
// query key and as the map key backing get/has (spec §3).
func keyOf(c cid.Cid) string {
	return base58.Encode(c.Bytes())
}

// checkCidVersion rejects CID version 0 in CIDs handed in by callers: the
// writer's roots and blocks, and the file reader's Get/Has arguments.
// Decoded header roots and block frames are checked by
// internal/frame.CheckCidVersion, which translateFrameErr maps onto the
// same error.
func checkCidVersion(c cid.Cid) error {
	if c.Version() == 0 {
		return carerr.NewUnsupportedCidVersion(0)
	}
	return nil
}
