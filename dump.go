package automaton

import (
	"fmt"
	"io"
)

// WriteAutomaton dumps every state and its transitions in a compact
// text form, for debugging graph construction.
func WriteAutomaton(a *Automaton, out io.Writer) {
	for i := 0; i < a.NumStates(); i++ {
		s := a.State(i)
		if s == nil {
			fmt.Fprintf(out, "[[%d]] X\n", i)
			continue
		}
		WriteState(s, out)
	}
}

func WriteState(s *State, out io.Writer) {
	var decChar string
	if s.Decision() >= 0 {
		decChar = fmt.Sprintf(" d%d", s.Decision())
	}
	fmt.Fprintf(out, "[[%d]] %s r%d%s\n", s.Index(), s.Kind(), s.RuleIndex(), decChar)
	for i := 0; i < s.NumTransitions(); i++ {
		t := s.Transition(i)
		switch t.Kind() {
		case TransitionEpsilon:
			fmt.Fprintf(out, "     `e -> [%d]\n", t.Target().Index())
		case TransitionRule:
			fmt.Fprintf(out, "     rule %d -> [%d] follow [%d]\n",
				t.RuleIndex(), t.Target().Index(), t.FollowState().Index())
		case TransitionWildcard:
			fmt.Fprintf(out, "     `. -> [%d]\n", t.Target().Index())
		default:
			fmt.Fprintf(out, "     %s -> [%d]\n", t.Label(), t.Target().Index())
		}
	}
}
