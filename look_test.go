package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Token types used by the test grammars.
const (
	tokSemi = 5
	tokX    = 7
	tokY    = 9
	tokA    = 3
)

// addStates is shorthand for registering a batch of states.
func addStates(a *Automaton, states ...*State) {
	for _, s := range states {
		a.AddState(s)
	}
}

// singleRuleFixture builds one rule with a mandatory trailing literal:
//
//	rule 0:  start -> s1 -';'-> s2 -eps-> stop
func singleRuleFixture(t *testing.T) (a *Automaton, s1, s2 *State) {
	t.Helper()
	a = New(KindParser)
	start := NewState(StateRuleStart, 0)
	s1 = NewState(StateBasic, 0)
	s2 = NewState(StateBasic, 0)
	stop := NewState(StateRuleStop, 0)
	addStates(a, start, s1, s2, stop)
	a.DefineRule(0, start, stop)
	start.AddTransition(NewEpsilonTransition(s1))
	s1.AddTransition(NewAtomTransition(s2, tokSemi))
	s2.AddTransition(NewEpsilonTransition(stop))
	return a, s1, s2
}

// callChainFixture builds rule A calling rule B calling rule C, where
// C can end immediately, B's call site is followed by literal X and
// A's call site by literal Y:
//
//	rule A(0):  startA -> sA1 -rule B-> [follow sA2] -'Y'-> sA3 -> stopA
//	rule B(1):  startB -> sB1 -rule C-> [follow sB2] -'X'-> sB3 -> stopB
//	rule C(2):  startC -eps-> stopC
func callChainFixture(t *testing.T) (a *Automaton, sA1, sB1 *State, stopC *State) {
	t.Helper()
	a = New(KindParser)

	startA := NewState(StateRuleStart, 0)
	sA1 = NewState(StateBasic, 0)
	sA2 := NewState(StateBasic, 0)
	sA3 := NewState(StateBasic, 0)
	stopA := NewState(StateRuleStop, 0)

	startB := NewState(StateRuleStart, 1)
	sB1 = NewState(StateBasic, 1)
	sB2 := NewState(StateBasic, 1)
	sB3 := NewState(StateBasic, 1)
	stopB := NewState(StateRuleStop, 1)

	startC := NewState(StateRuleStart, 2)
	stopC = NewState(StateRuleStop, 2)

	addStates(a, startA, sA1, sA2, sA3, stopA,
		startB, sB1, sB2, sB3, stopB, startC, stopC)
	a.DefineRule(0, startA, stopA)
	a.DefineRule(1, startB, stopB)
	a.DefineRule(2, startC, stopC)

	startA.AddTransition(NewEpsilonTransition(sA1))
	sA1.AddTransition(NewRuleTransition(startB, 1, sA2))
	sA2.AddTransition(NewAtomTransition(sA3, tokY))
	sA3.AddTransition(NewEpsilonTransition(stopA))

	startB.AddTransition(NewEpsilonTransition(sB1))
	sB1.AddTransition(NewRuleTransition(startC, 2, sB2))
	sB2.AddTransition(NewAtomTransition(sB3, tokX))
	sB3.AddTransition(NewEpsilonTransition(stopB))

	startC.AddTransition(NewEpsilonTransition(stopC))
	return a, sA1, sB1, stopC
}

func TestLookStopsAtConsumingTransition(t *testing.T) {
	a, s1, _ := singleRuleFixture(t)
	assert.Equal(t, []int{tokSemi}, a.Look(s1, nil).Symbols())
}

func TestLookRuleBoundaryEpsilon(t *testing.T) {
	a, _, s2 := singleRuleFixture(t)
	// The rule can end at s2, so the local follow set carries the
	// epsilon marker and nothing else.
	assert.Equal(t, []int{SymbolEpsilon}, a.Look(s2, nil).Symbols())
}

func TestLookFollowsRuleCall(t *testing.T) {
	a, sA1, sB1, _ := callChainFixture(t)
	// From A's call site the walk enters B, enters C, C ends
	// immediately, control resumes in B before the X literal.
	assert.Equal(t, []int{tokX}, a.Look(sA1, nil).Symbols())
	assert.Equal(t, []int{tokX}, a.Look(sB1, nil).Symbols())
}

func TestLookUnwindsContextChain(t *testing.T) {
	a, sA1, sB1, stopC := callChainFixture(t)

	ctx := NewPredictionContext(NewPredictionContext(EmptyContext, sA1.Index()), sB1.Index())
	// At C's stop under the full chain: C returns into B, where X must
	// follow; B has not finished, so A's followers are not reachable.
	assert.Equal(t, []int{tokX}, a.NextTokensInContext(stopC, ctx).Symbols())

	// Under the unbounded top-level context the boundary itself is
	// epsilon-reachable.
	assert.Equal(t, []int{SymbolEpsilon}, a.NextTokensInContext(stopC, EmptyContext).Symbols())
}

func TestLookEpsilonCycleTerminates(t *testing.T) {
	a := New(KindParser)
	start := NewState(StateRuleStart, 0)
	s1 := NewState(StateBasic, 0)
	s2 := NewState(StateBasic, 0)
	stop := NewState(StateRuleStop, 0)
	addStates(a, start, s1, s2, stop)
	a.DefineRule(0, start, stop)
	// Pure epsilon cycle with no way out.
	s1.AddTransition(NewEpsilonTransition(s2))
	s2.AddTransition(NewEpsilonTransition(s1))

	assert.Empty(t, a.Look(s1, nil).Symbols())
}

func TestLookLeftRecursionTerminates(t *testing.T) {
	// rule 0:  start -> s1;  s1 -rule 0-> [follow s2];  s1 -'a'-> s2;
	//          s2 -eps-> stop
	a := New(KindParser)
	start := NewState(StateRuleStart, 0)
	s1 := NewState(StateBasic, 0)
	s2 := NewState(StateBasic, 0)
	stop := NewState(StateRuleStop, 0)
	addStates(a, start, s1, s2, stop)
	a.DefineRule(0, start, stop)
	start.AddTransition(NewEpsilonTransition(s1))
	s1.AddTransition(NewRuleTransition(start, 0, s2))
	s1.AddTransition(NewAtomTransition(s2, tokA))
	s2.AddTransition(NewEpsilonTransition(stop))

	set := a.Look(start, nil)
	assert.Equal(t, []int{tokA}, set.Symbols())
}

func TestLookDeadState(t *testing.T) {
	a := New(KindParser)
	start := NewState(StateRuleStart, 0)
	dead := NewState(StateBasic, 0)
	stop := NewState(StateRuleStop, 0)
	addStates(a, start, dead, stop)
	a.DefineRule(0, start, stop)
	// No outgoing transitions and not a rule stop: empty follow set,
	// not an error.
	assert.Empty(t, a.Look(dead, nil).Symbols())
}

func TestLookWildcard(t *testing.T) {
	a := New(KindLexer)
	a.SetMaxTokenType(4)
	start := NewState(StateRuleStart, 0)
	s1 := NewState(StateBasic, 0)
	stop := NewState(StateRuleStop, 0)
	addStates(a, start, s1, stop)
	a.DefineRule(0, start, stop)
	start.AddTransition(NewWildcardTransition(s1))
	s1.AddTransition(NewEpsilonTransition(stop))

	assert.Equal(t, []SymbolRange{{SymbolMinToken, 4}}, a.Look(start, nil).Ranges())
}

func TestLookSetAndRangeTransitions(t *testing.T) {
	a := New(KindParser)
	start := NewState(StateRuleStart, 0)
	s1 := NewState(StateBasic, 0)
	s2 := NewState(StateBasic, 0)
	stop := NewState(StateRuleStop, 0)
	addStates(a, start, s1, s2, stop)
	a.DefineRule(0, start, stop)
	start.AddTransition(NewSetTransition(s1, NewSymbolSetOf(2, 4)))
	start.AddTransition(NewRangeTransition(s2, 10, 12))

	require.Equal(t, 2, start.NumTransitions())
	assert.Equal(t, []int{2, 4, 10, 11, 12}, a.Look(start, nil).Symbols())
}
