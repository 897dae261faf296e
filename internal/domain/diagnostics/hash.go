package diagnostics

import (
	"fmt"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// InputHash computes a stable rolling hash over the fields that determine
// whether a diagnosis is stale: the profile ID, the financial snapshot's
// last-modified timestamp, the document count, and the behavior record's
// last-modified timestamp.  The hash exists for idempotency and audit only;
// it has no cryptographic strength.
func InputHash(in *dg.Input) string {
	var finMod, behMod int64
	if in.Financial != nil {
		finMod = in.Financial.LastModified.UnixNano()
	}
	if in.Behavior != nil {
		behMod = in.Behavior.LastModified.UnixNano()
	}
	key := fmt.Sprintf("%s|%d|%d|%d", in.Profile.ID, finMod, len(in.Documents), behMod)

	// FNV-1a over the composed key.
	var h uint64 = 14695981039346656037
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= 1099511628211
	}
	return fmt.Sprintf("%016x", h)
}

//Personal.AI order the ending
