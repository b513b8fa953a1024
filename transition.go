package automaton

// TransitionKind discriminates the closed set of edge variants.  Epsilon
// and Rule edges consume no input; Atom, Range, Set and Wildcard edges
// consume the symbol they are labeled with.
type TransitionKind int

const (
	TransitionEpsilon TransitionKind = iota
	TransitionRule
	TransitionAtom
	TransitionRange
	TransitionSet
	TransitionWildcard
)

// Transition is a directed edge owned by its source state.  Transitions
// are immutable once constructed.
type Transition struct {
	kind        TransitionKind
	target      *State
	label       *SymbolSet // consuming kinds only; frozen at construction
	ruleIndex   int        // TransitionRule only
	followState *State     // TransitionRule only; resume point in the caller
}

func NewEpsilonTransition(target *State) *Transition {
	return &Transition{kind: TransitionEpsilon, target: target, ruleIndex: -1}
}

// NewRuleTransition builds the edge representing a call into another
// rule: ruleStart is the callee's entry state (and the edge target),
// follow is the state the caller resumes at once the callee's stop
// state is reached.
func NewRuleTransition(ruleStart *State, ruleIndex int, follow *State) *Transition {
	return &Transition{
		kind:        TransitionRule,
		target:      ruleStart,
		ruleIndex:   ruleIndex,
		followState: follow,
	}
}

func NewAtomTransition(target *State, symbol int) *Transition {
	label := NewSymbolSetOf(symbol)
	label.SetReadOnly(true)
	return &Transition{kind: TransitionAtom, target: target, label: label, ruleIndex: -1}
}

func NewRangeTransition(target *State, first, last int) *Transition {
	label := NewSymbolSet()
	label.AddRange(first, last)
	label.SetReadOnly(true)
	return &Transition{kind: TransitionRange, target: target, label: label, ruleIndex: -1}
}

func NewSetTransition(target *State, set *SymbolSet) *Transition {
	label := set.Copy()
	label.SetReadOnly(true)
	return &Transition{kind: TransitionSet, target: target, label: label, ruleIndex: -1}
}

func NewWildcardTransition(target *State) *Transition {
	return &Transition{kind: TransitionWildcard, target: target, ruleIndex: -1}
}

func (t *Transition) Kind() TransitionKind {
	return t.kind
}

func (t *Transition) Target() *State {
	return t.target
}

// Label returns the frozen symbol set a consuming transition matches,
// or nil for epsilon, rule and wildcard transitions.
func (t *Transition) Label() *SymbolSet {
	return t.label
}

func (t *Transition) RuleIndex() int {
	return t.ruleIndex
}

func (t *Transition) FollowState() *State {
	return t.followState
}

func (t *Transition) IsEpsilon() bool {
	return t.kind == TransitionEpsilon || t.kind == TransitionRule
}

// Matches reports whether a consuming transition accepts the symbol.
// Wildcard edges accept any user token up to the automaton's maximum
// token type, supplied by the caller.
func (t *Transition) Matches(symbol, maxTokenType int) bool {
	switch t.kind {
	case TransitionAtom, TransitionRange, TransitionSet:
		return t.label.Contains(symbol)
	case TransitionWildcard:
		return symbol >= SymbolMinToken && symbol <= maxTokenType
	}
	return false
}
