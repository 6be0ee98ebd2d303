package symtab

import (
	"fmt"

	"github.com/minio/highwayhash"
)

// idKey is a fixed 32-byte key for the HighwayHash scope/identifier ID
// hash. It need not be secret — scope IDs are a collision-resistance aid,
// not a security boundary — so a constant key (mirroring the teacher's own
// fixed key in inspector/graph/hash.go) is sufficient.
var idKey = []byte("deobfjs-scope-id-0123456789ABCDE")

// HashID derives a short, stable, collision-resistant scope or identifier
// ID from an arbitrary seed string (e.g. "<parentID>.block@<discriminator>").
// Used instead of the raw seed so IDs stay bounded in length even under
// deeply nested obfuscated closures, and so the same subtree re-analysed
// later gets the same ID.
func HashID(seed string) string {
	h, err := highwayhash.New64(idKey)
	if err != nil {
		// idKey is a fixed 32-byte constant; New64 only fails on key
		// length, so this is unreachable in practice. Fall back to the
		// raw seed rather than panicking.
		return seed
	}
	_, _ = h.Write([]byte(seed))
	return fmt.Sprintf("%016x", h.Sum64())
}
