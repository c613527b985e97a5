package game

// Player is one registered participant: an opaque identity, a balance
// credited by accepted evaluations, and a locally cached view of the
// accepted-solution ledger.
type Player struct {
	Addr           string            `json:"addr"`
	Balance        uint64            `json:"balance"`
	LocalSolutions map[string]string `json:"local_solutions"`
}

func clonePlayer(p Player) Player {
	return Player{
		Addr:           p.Addr,
		Balance:        p.Balance,
		LocalSolutions: cloneSolutions(p.LocalSolutions),
	}
}

func cloneSolutions(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
