package automaton

import (
	"sync"
)

// DFA is the cache slot for one decision's (or one lexer mode's)
// lazily built prediction automaton.  The slot itself is owned by the
// Automaton, which allocates one per decision and per mode and discards
// them wholesale on ResetCaches; the contents are built and read by the
// external predictor under the slot's lock.
type DFA struct {
	decisionState *State
	decision      int

	mu      sync.RWMutex
	payload interface{}
}

func NewDFA(decisionState *State, decision int) *DFA {
	return &DFA{
		decisionState: decisionState,
		decision:      decision,
	}
}

func (d *DFA) Decision() int {
	return d.decision
}

func (d *DFA) DecisionState() *State {
	return d.decisionState
}

// Load returns the prediction automaton stored in the slot, or nil if
// the decision has not been exercised yet.
func (d *DFA) Load() interface{} {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.payload
}

// Store publishes a built prediction automaton into the slot.
func (d *DFA) Store(v interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payload = v
}

// LoadOrStore keeps the first value published to the slot and returns
// it, so racing builders converge on one automaton per decision.
func (d *DFA) LoadOrStore(v interface{}) interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.payload != nil {
		return d.payload
	}
	d.payload = v
	return v
}
