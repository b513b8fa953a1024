package automaton

// Follow-set computation: the epsilon closure from a state, collecting
// every symbol a consuming transition can accept before any input is
// consumed.  Rule transitions are followed into the callee; reaching
// the callee's stop state resumes the walk at the call's recorded
// follow state.  SymbolEpsilon enters the result exactly when the walk
// reaches a rule boundary it is not allowed to cross: the enclosing
// rule's stop state under a nil ("local only") context, or top level
// under an exhausted caller chain.

// lookKey identifies one (state, context-frame) pair visited within a
// single closure computation.  Re-reaching a pair terminates that
// branch; this is what bounds the walk on epsilon cycles.
type lookKey struct {
	state int
	ctx   *PredictionContext
}

// Look computes the follow set of s under ctx.  A nil ctx stops at the
// enclosing rule's boundary; EmptyContext (or any chain ending there)
// unwinds callers all the way to top level.  The result is freshly
// allocated and mutable.
func (a *Automaton) Look(s *State, ctx *PredictionContext) *SymbolSet {
	out := NewSymbolSet()
	a.look(s, ctx, out, make(map[lookKey]bool), make(map[int]bool))
	return out
}

func (a *Automaton) look(s *State, ctx *PredictionContext, out *SymbolSet,
	busy map[lookKey]bool, calledRules map[int]bool) {

	key := lookKey{state: s.index, ctx: ctx}
	if busy[key] {
		return
	}
	busy[key] = true

	if s.kind == StateRuleStop {
		if ctx == nil || ctx.IsEmpty() {
			out.Add(SymbolEpsilon)
			return
		}
		// Unwind one caller frame: the invoking state's rule transition
		// names the state the caller resumes at.
		invoking := a.states[ctx.invokingState]
		if invoking == nil {
			return
		}
		rt := ruleTransitionFrom(invoking)
		if rt == nil {
			return
		}
		// The callee's rule leaves the active call set while the walk
		// continues in the caller, so a later re-entry is explored.
		removed := calledRules[s.ruleIndex]
		delete(calledRules, s.ruleIndex)
		a.look(rt.followState, ctx.parent, out, busy, calledRules)
		if removed {
			calledRules[s.ruleIndex] = true
		}
		return
	}

	for _, t := range s.transitions {
		switch t.kind {
		case TransitionRule:
			if calledRules[t.ruleIndex] { // Already on the simulated call
				continue // stack: left recursion guard.
			}
			frame := newLookFrame(ctx, s.index)
			calledRules[t.ruleIndex] = true
			a.look(t.target, frame, out, busy, calledRules)
			delete(calledRules, t.ruleIndex)
		case TransitionEpsilon:
			a.look(t.target, ctx, out, busy, calledRules)
		case TransitionWildcard:
			if a.maxTokenType >= SymbolMinToken {
				out.AddRange(SymbolMinToken, a.maxTokenType)
			}
		default: // Atom, Range, Set.
			out.AddSet(t.label)
		}
	}
}

// newLookFrame pushes an engine-internal frame.  Unlike
// NewPredictionContext it keeps a nil parent as nil, so that a walk
// started in "local only" mode unwinds back to nil and stops at the
// original rule's boundary instead of continuing to top level.  These
// frames never escape the closure computation and are never interned.
func newLookFrame(parent *PredictionContext, invokingState int) *PredictionContext {
	h := 0x10000000 ^ uint32(invokingState+2)
	if parent != nil {
		h = ((h >> 7) | (h << 25)) ^ parent.hash
	}
	return &PredictionContext{
		parent:        parent,
		invokingState: invokingState,
		hash:          h,
	}
}

// ruleTransitionFrom returns the rule transition leaving s.  A state
// performs at most one rule call; its rule transition is ordinarily
// transition zero, but the edge list is scanned to keep the lookup
// honest against unusual graph shapes.
func ruleTransitionFrom(s *State) *Transition {
	for _, t := range s.transitions {
		if t.kind == TransitionRule {
			return t
		}
	}
	return nil
}
