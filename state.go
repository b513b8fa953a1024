package automaton

import (
	"strconv"
	"sync/atomic"
)

// StateKind discriminates the closed set of state variants.  Dispatch is
// by switch on the tag; there is no behavior attached to the variants
// themselves beyond identity and connectivity.
type StateKind int

const (
	StateBasic StateKind = iota
	StateRuleStart
	StateRuleStop
	StateBlockStart
	StateBlockEnd
	StatePlusBlockStart
	StatePlusLoopBack
	StateStarBlockStart
	StateStarLoopEntry
	StateStarLoopBack
	StateTokensStart
	StateLoopEnd
)

var stateKindNames = []string{
	"basic", "rule-start", "rule-stop", "block-start", "block-end",
	"plus-block-start", "plus-loop-back", "star-block-start",
	"star-loop-entry", "star-loop-back", "tokens-start", "loop-end",
}

func (k StateKind) String() string {
	if k < 0 || int(k) >= len(stateKindNames) {
		return "state-kind-" + strconv.Itoa(int(k))
	}
	return stateKindNames[k]
}

// Decidable reports whether states of this kind participate in
// choice-making and therefore receive a decision index.
func (k StateKind) Decidable() bool {
	switch k {
	case StateBlockStart, StatePlusBlockStart, StateStarBlockStart,
		StatePlusLoopBack, StateStarLoopEntry, StateStarLoopBack,
		StateTokensStart:
		return true
	}
	return false
}

// State is a node in the automaton graph.  A state is owned by exactly
// one Automaton and never outlives it; the back reference is non-owning.
// Outgoing transitions are ordered, since alternative order breaks ties
// during prediction.
type State struct {
	owner       *Automaton
	index       int
	kind        StateKind
	ruleIndex   int
	decision    int
	transitions []*Transition

	// Rule-local follow set, memoized on first query.  Pure function of
	// the frozen graph, so a benign first-computation race is tolerated;
	// the pointer is published atomically and never cleared.
	nextWithinRule atomic.Pointer[SymbolSet]
}

// NewState creates a detached state.  The index and owner are assigned
// when the state is added to an Automaton.
func NewState(kind StateKind, ruleIndex int) *State {
	return &State{
		index:     -1,
		kind:      kind,
		ruleIndex: ruleIndex,
		decision:  -1,
	}
}

func (s *State) Automaton() *Automaton {
	return s.owner
}

func (s *State) Index() int {
	return s.index
}

func (s *State) Kind() StateKind {
	return s.kind
}

func (s *State) RuleIndex() int {
	return s.ruleIndex
}

// Decision returns the decision index assigned by DefineDecisionState,
// or -1 if the state is not registered as a decision.
func (s *State) Decision() int {
	return s.decision
}

func (s *State) NumTransitions() int {
	return len(s.transitions)
}

func (s *State) Transition(idx int) *Transition {
	if idx < 0 || idx >= len(s.transitions) {
		panic("transition index out of range")
	}
	return s.transitions[idx]
}

func (s *State) AddTransition(t *Transition) {
	s.transitions = append(s.transitions, t)
}

// EpsilonOnly reports whether every outgoing transition is
// non-consuming.
func (s *State) EpsilonOnly() bool {
	for _, t := range s.transitions {
		if !t.IsEpsilon() {
			return false
		}
	}
	return len(s.transitions) > 0
}

func (s *State) String() string {
	return "(" + strconv.Itoa(s.index) + " " + s.kind.String() + ")"
}
