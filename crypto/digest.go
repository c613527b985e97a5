package crypto

import (
	"encoding/binary"
	"strconv"

	"golang.org/x/crypto/sha3"
)

// Domain separation for the solution digest.
const solutionKeyDomain = "sciencegame-solution-v1"

// SolutionKey derives the canonical result key for a solution's
// content: a deterministic, collision-resistant digest used by the
// result ledger for deduplication. Keys are rendered as decimal uint64
// strings to match the format of ledger entries in the session
// initialization payload.
func SolutionKey(content string) string {
	h := sha3.New256()
	h.Write([]byte(solutionKeyDomain))
	h.Write([]byte(content))
	sum := h.Sum(nil)
	return strconv.FormatUint(binary.BigEndian.Uint64(sum[:8]), 10)
}
