package automaton

import (
	"sync"
)

// ll1Table caches per-decision LL(1) lookahead sets: for each decision
// state, one rule-local follow set per alternative, in alternative
// order.  The table is scoped to one automaton and discarded by
// ResetCaches together with the DFA slots.
type ll1Table struct {
	mu   sync.RWMutex
	sets map[int][]*SymbolSet
}

func newLL1Table() *ll1Table {
	return &ll1Table{sets: make(map[int][]*SymbolSet)}
}

func (t *ll1Table) get(decision int) ([]*SymbolSet, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sets, has := t.sets[decision]
	return sets, has
}

func (t *ll1Table) put(decision int, sets []*SymbolSet) []*SymbolSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, has := t.sets[decision]; has { // First writer wins; results
		return prev // are identical anyway.
	}
	t.sets[decision] = sets
	return sets
}
