package game

// SolutionLedger is the authoritative mapping from canonical solution
// key to the claiming participant's identity. Insert is the only
// mutation; a key, once present, is never overwritten or removed.
type SolutionLedger struct {
	entries map[string]string
}

// NewSolutionLedger creates a ledger seeded with the given entries.
func NewSolutionLedger(initial map[string]string) *SolutionLedger {
	return &SolutionLedger{entries: cloneSolutions(initial)}
}

// Contains reports whether a solution key has already been claimed.
func (l *SolutionLedger) Contains(key string) bool {
	_, ok := l.entries[key]
	return ok
}

// Insert records a solution key for a participant. Inserting an
// existing key mutates nothing and reports false.
func (l *SolutionLedger) Insert(key, addr string) bool {
	if _, ok := l.entries[key]; ok {
		return false
	}
	l.entries[key] = addr
	return true
}

// Snapshot returns a copy of the ledger contents.
func (l *SolutionLedger) Snapshot() map[string]string {
	return cloneSolutions(l.entries)
}

// Len reports the number of accepted solutions.
func (l *SolutionLedger) Len() int {
	return len(l.entries)
}
