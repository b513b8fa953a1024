// Package automaton is the shared runtime graph behind adaptive
// lexing and parsing: states and transitions for every rule and
// decision point of a grammar, interned rule-invocation contexts, and
// the follow-set computations prediction is built on.
package automaton

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Kind distinguishes automata built from lexer grammars, which carry
// token-type and action tables, from parser automata, which do not.
type Kind int

const (
	KindLexer Kind = iota
	KindParser
)

// Automaton is the shared runtime graph for one grammar: every state,
// transition, decision point, rule boundary and lexer mode, plus the
// prediction-side caches (interned call contexts, per-decision and
// per-mode DFA slots, LL(1) table).
//
// The graph is populated once by a construction collaborator and is
// read-only afterwards; mutating it while predictions are in flight is
// a caller contract violation and is not guarded internally.  The
// caches are the only parts written during prediction.
type Automaton struct {
	kind Kind

	states []*State // nil entries are tombstones; indices never shift

	decisionToState []*State

	ruleToStartState  []*State
	ruleToStopState   []*State
	ruleToTokenType   []int
	ruleToActionIndex []int

	modeNames        []string
	modeToStartState []*State
	modeNameToStart  map[string]*State

	decisionToDFA []*DFA
	modeToDFA     []*DFA

	contextCache *ContextCache
	ll1          *ll1Table

	maxTokenType int

	log *zap.Logger
}

func New(kind Kind) *Automaton {
	return &Automaton{
		kind:            kind,
		modeNameToStart: make(map[string]*State),
		contextCache:    NewContextCache(),
		ll1:             newLL1Table(),
		log:             zap.NewNop(),
	}
}

// SetLogger installs a diagnostic logger; construction milestones and
// cache resets are reported at Debug level.  The default is a no-op
// logger.
func (a *Automaton) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	a.log = log
}

func (a *Automaton) Kind() Kind {
	return a.kind
}

// SetMaxTokenType records the largest token type the grammar defines;
// wildcard transitions match the range [SymbolMinToken, max].
func (a *Automaton) SetMaxTokenType(max int) {
	a.maxTokenType = max
}

func (a *Automaton) MaxTokenType() int {
	return a.maxTokenType
}

// AddState appends a state, assigning it the next index and binding
// its back reference.  A nil state is appended as a tombstone so the
// index sequence stays aligned with an external builder's bookkeeping.
func (a *Automaton) AddState(s *State) {
	if s != nil {
		s.owner = a
		s.index = len(a.states)
	}
	a.states = append(a.states, s)
}

// RemoveState clears the state's slot.  Later indices do not shift;
// references by index held elsewhere stay valid.
func (a *Automaton) RemoveState(s *State) {
	a.states[s.index] = nil
}

func (a *Automaton) NumStates() int {
	return len(a.states)
}

// State returns the state at idx, or nil for a tombstoned slot.
func (a *Automaton) State(idx int) *State {
	if idx < 0 || idx >= len(a.states) {
		panic("state index out of range")
	}
	return a.states[idx]
}

// DefineDecisionState registers s as a decision and returns the
// assigned decision index.  Indices are dense, assigned in
// registration order and never reused.
func (a *Automaton) DefineDecisionState(s *State) int {
	d := len(a.decisionToState)
	s.decision = d
	a.decisionToState = append(a.decisionToState, s)
	a.decisionToDFA = append(a.decisionToDFA, NewDFA(s, d))
	return d
}

// DecisionState returns the decision state at the index, or nil when
// no decisions are registered.  An out-of-range index against a
// non-empty decision list is a caller defect and panics.
func (a *Automaton) DecisionState(decision int) *State {
	if len(a.decisionToState) == 0 {
		return nil
	}
	if decision < 0 || decision >= len(a.decisionToState) {
		panic("decision index out of range")
	}
	return a.decisionToState[decision]
}

func (a *Automaton) NumDecisions() int {
	return len(a.decisionToState)
}

// DecisionDFA returns the cache slot for a decision.
func (a *Automaton) DecisionDFA(decision int) *DFA {
	if decision < 0 || decision >= len(a.decisionToDFA) {
		panic("decision index out of range")
	}
	return a.decisionToDFA[decision]
}

// DefineMode registers a lexical mode: a unique name mapped to its
// tokens-start state.  The state is also registered as a decision, and
// a fresh per-mode DFA slot is allocated.
func (a *Automaton) DefineMode(name string, tokensStart *State) error {
	if _, has := a.modeNameToStart[name]; has {
		return errors.Wrapf(ErrDuplicateMode, "mode %q", name)
	}
	a.modeNameToStart[name] = tokensStart
	a.modeNames = append(a.modeNames, name)
	a.modeToStartState = append(a.modeToStartState, tokensStart)
	a.modeToDFA = append(a.modeToDFA, NewDFA(tokensStart, len(a.modeToDFA)))
	a.DefineDecisionState(tokensStart)
	a.log.Debug("mode defined",
		zap.String("name", name),
		zap.Int("tokensStart", tokensStart.index))
	return nil
}

func (a *Automaton) NumModes() int {
	return len(a.modeToStartState)
}

func (a *Automaton) ModeName(mode int) string {
	if mode < 0 || mode >= len(a.modeNames) {
		panic("mode index out of range")
	}
	return a.modeNames[mode]
}

func (a *Automaton) ModeStartState(mode int) *State {
	if mode < 0 || mode >= len(a.modeToStartState) {
		panic("mode index out of range")
	}
	return a.modeToStartState[mode]
}

func (a *Automaton) ModeStartStateByName(name string) (*State, bool) {
	s, has := a.modeNameToStart[name]
	return s, has
}

// ModeDFA returns the cache slot for a mode.
func (a *Automaton) ModeDFA(mode int) *DFA {
	if mode < 0 || mode >= len(a.modeToDFA) {
		panic("mode index out of range")
	}
	return a.modeToDFA[mode]
}

// DefineRule records the start and stop states bracketing a rule body.
// The boundary tables grow as needed; for lexer automata the parallel
// token-type and action tables grow with them, defaulting to the -1
// sentinel.
func (a *Automaton) DefineRule(ruleIndex int, start, stop *State) {
	if ruleIndex < 0 {
		panic("rule index out of range")
	}
	for len(a.ruleToStartState) <= ruleIndex {
		a.ruleToStartState = append(a.ruleToStartState, nil)
		a.ruleToStopState = append(a.ruleToStopState, nil)
		if a.kind == KindLexer {
			a.ruleToTokenType = append(a.ruleToTokenType, -1)
			a.ruleToActionIndex = append(a.ruleToActionIndex, -1)
		}
	}
	a.ruleToStartState[ruleIndex] = start
	a.ruleToStopState[ruleIndex] = stop
}

func (a *Automaton) NumRules() int {
	return len(a.ruleToStartState)
}

func (a *Automaton) RuleStartState(ruleIndex int) *State {
	if ruleIndex < 0 || ruleIndex >= len(a.ruleToStartState) {
		panic("rule index out of range")
	}
	return a.ruleToStartState[ruleIndex]
}

func (a *Automaton) RuleStopState(ruleIndex int) *State {
	if ruleIndex < 0 || ruleIndex >= len(a.ruleToStopState) {
		panic("rule index out of range")
	}
	return a.ruleToStopState[ruleIndex]
}

// SetRuleTokenType records the token type a lexer rule produces.
func (a *Automaton) SetRuleTokenType(ruleIndex, tokenType int) {
	if a.kind != KindLexer {
		panic("token types only apply to lexer automata")
	}
	if ruleIndex < 0 || ruleIndex >= len(a.ruleToTokenType) {
		panic("rule index out of range")
	}
	a.ruleToTokenType[ruleIndex] = tokenType
}

// RuleTokenType returns the token type for a lexer rule, or -1 when
// none was recorded.
func (a *Automaton) RuleTokenType(ruleIndex int) int {
	if ruleIndex < 0 || ruleIndex >= len(a.ruleToTokenType) {
		panic("rule index out of range")
	}
	return a.ruleToTokenType[ruleIndex]
}

// SetRuleAction records the action executed when a lexer rule matches.
func (a *Automaton) SetRuleAction(ruleIndex, actionIndex int) {
	if a.kind != KindLexer {
		panic("actions only apply to lexer automata")
	}
	if ruleIndex < 0 || ruleIndex >= len(a.ruleToActionIndex) {
		panic("rule index out of range")
	}
	a.ruleToActionIndex[ruleIndex] = actionIndex
}

// RuleActionIndex returns the action for a lexer rule, or -1 when none
// was recorded.
func (a *Automaton) RuleActionIndex(ruleIndex int) int {
	if ruleIndex < 0 || ruleIndex >= len(a.ruleToActionIndex) {
		panic("rule index out of range")
	}
	return a.ruleToActionIndex[ruleIndex]
}

// InternContext returns the canonical instance structurally equal to
// ctx.  Safe for concurrent use by every prediction thread sharing the
// automaton.
func (a *Automaton) InternContext(ctx *PredictionContext) *PredictionContext {
	return a.contextCache.Intern(ctx)
}

// ContextCacheSize reports the number of distinct interned contexts,
// for diagnostics and memory accounting.
func (a *Automaton) ContextCacheSize() int {
	return a.contextCache.Size()
}

// ResetCaches rebuilds every prediction-side cache from scratch: fresh
// DFA slots sized to the current decision and mode counts, an empty
// context cache and an empty LL(1) table.  The graph itself is
// untouched.  Not safe to race against in-flight predictions; callers
// must quiesce first.
func (a *Automaton) ResetCaches() {
	decisionToDFA := make([]*DFA, len(a.decisionToState))
	for d, s := range a.decisionToState {
		decisionToDFA[d] = NewDFA(s, d)
	}
	modeToDFA := make([]*DFA, len(a.modeToStartState))
	for m, s := range a.modeToStartState {
		modeToDFA[m] = NewDFA(s, m)
	}
	a.decisionToDFA = decisionToDFA
	a.modeToDFA = modeToDFA
	a.contextCache = NewContextCache()
	a.ll1 = newLL1Table()
	a.log.Debug("prediction caches reset",
		zap.Int("decisions", len(decisionToDFA)),
		zap.Int("modes", len(modeToDFA)))
}

// NextTokens returns the rule-local follow set of s: every symbol
// consumable without leaving the enclosing rule, with SymbolEpsilon
// included when the rule can end at s.  The result is context
// independent and stable for the automaton's lifetime, so it is
// memoized on the state and returned read-only.
func (a *Automaton) NextTokens(s *State) *SymbolSet {
	if cached := s.nextWithinRule.Load(); cached != nil {
		return cached
	}
	set := a.Look(s, nil)
	set.SetReadOnly(true)
	if !s.nextWithinRule.CompareAndSwap(nil, set) {
		return s.nextWithinRule.Load() // Lost a benign race; both
	} // results are identical.
	return set
}

// NextTokensInContext computes the follow set of s under an explicit
// calling context.  Context-sensitive results are never cached: the
// space of contexts is unbounded.
func (a *Automaton) NextTokensInContext(s *State, ctx *PredictionContext) *SymbolSet {
	return a.Look(s, ctx)
}

// DecisionLookahead returns, for each alternative of the decision in
// alternative order, the rule-local follow set of that alternative's
// target.  Results are memoized in the LL(1) table until the next
// ResetCaches.
func (a *Automaton) DecisionLookahead(decision int) []*SymbolSet {
	s := a.DecisionState(decision)
	if s == nil {
		return nil
	}
	if sets, has := a.ll1.get(decision); has {
		return sets
	}
	sets := make([]*SymbolSet, len(s.transitions))
	for i, t := range s.transitions {
		sets[i] = a.Look(t.target, nil)
		sets[i].SetReadOnly(true)
	}
	return a.ll1.put(decision, sets)
}

// ExpectedTokens computes the symbols that can legally follow the
// state, unwinding the caller chain while the position can finish its
// rule: finishing the current rule resumes the caller at the recorded
// follow state, whose own position may finish its rule in turn, up to
// top level, where finishing means end of input.
func (a *Automaton) ExpectedTokens(stateIndex int, ctx *PredictionContext) (*SymbolSet, error) {
	if stateIndex < 0 || stateIndex >= len(a.states) {
		return nil, errors.Wrapf(ErrStateIndexRange, "state %d of %d", stateIndex, len(a.states))
	}
	s := a.states[stateIndex]
	following := a.NextTokens(s)
	if !following.Contains(SymbolEpsilon) {
		// Not at a rule boundary reachable without consuming input;
		// no caller unwinding applies.
		return following, nil
	}
	expected := NewSymbolSet()
	expected.AddSet(following)
	expected.Remove(SymbolEpsilon)
	for ctx != nil && !ctx.IsEmpty() && following.Contains(SymbolEpsilon) {
		invoking := a.states[ctx.invokingState]
		rt := ruleTransitionFrom(invoking)
		following = a.NextTokens(rt.followState)
		expected.AddSet(following)
		expected.Remove(SymbolEpsilon)
		ctx = ctx.parent
	}
	if following.Contains(SymbolEpsilon) {
		expected.Add(SymbolEOF)
	}
	return expected, nil
}
