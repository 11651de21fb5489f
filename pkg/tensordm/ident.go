package tensordm

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/mr-tron/base58"
)

// Ident returns a short, human-typeable content identifier for ts: an
// FNV-1a hash of its wire encoding, base58-rendered the way
// content-addressed systems (IPFS CIDs, git's own base58-adjacent
// conventions) present hashes for humans to read and compare at a
// glance. Returns "" if ts fails to encode.
//
// mr-tron/base58 is the teacher's own choice for this encoding (it
// backed peer/content identifiers in the dndm transport this module
// drops); here it is repurposed to label a TensorSet rather than a
// network peer.
func Ident(ts *TensorSet) string {
	wire, err := EncodeTensorSet(ts)
	if err != nil {
		return ""
	}
	h := fnv.New64a()
	_, _ = h.Write(wire)
	sum := make([]byte, 8)
	binary.BigEndian.PutUint64(sum, h.Sum64())
	return base58.Encode(sum)
}
