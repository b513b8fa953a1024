package automaton

// InvokingStateInvalid marks a context frame with no caller.
const InvokingStateInvalid = -1

// PredictionContext is an immutable snapshot of the rule-invocation
// stack at a point in prediction: a chain of frames, each recording the
// state whose rule transition performed the call, linked to the frame
// of that caller's own caller.  EmptyContext terminates every chain
// that reaches top level.
//
// Structural equality, not identity, defines the canonical form; the
// ContextCache maps every structurally-equal chain to one shared
// instance.  The hash is fixed at construction since the chain can
// never change.
type PredictionContext struct {
	parent        *PredictionContext
	invokingState int
	hash          uint32
}

// EmptyContext is the canonical top-level context: no caller frames,
// so finishing the current rule means end of input.
var EmptyContext = &PredictionContext{
	invokingState: InvokingStateInvalid,
	hash:          0x10000000,
}

// NewPredictionContext pushes a frame recording a call made from
// invokingState onto parent.  A nil parent is normalized to
// EmptyContext.
func NewPredictionContext(parent *PredictionContext, invokingState int) *PredictionContext {
	if parent == nil {
		parent = EmptyContext
	}
	h := 0x10000000 ^ uint32(invokingState+2)
	h = ((h >> 7) | (h << 25)) ^ parent.hash
	return &PredictionContext{
		parent:        parent,
		invokingState: invokingState,
		hash:          h,
	}
}

func (pc *PredictionContext) Parent() *PredictionContext {
	return pc.parent
}

func (pc *PredictionContext) InvokingState() int {
	return pc.invokingState
}

// IsEmpty reports whether this is a top-level frame with no caller.
func (pc *PredictionContext) IsEmpty() bool {
	return pc.invokingState == InvokingStateInvalid
}

func (pc *PredictionContext) Depth() int {
	n := 0
	for c := pc; c != nil && !c.IsEmpty(); c = c.parent {
		n++
	}
	return n
}

func (pc *PredictionContext) HashCode() uint32 {
	return pc.hash
}

func (pc *PredictionContext) Equals(o interface{}) bool {
	other, ok := o.(*PredictionContext)
	if !ok {
		return false
	}
	a, b := pc, other
	for {
		if a == b {
			return true
		}
		if a == nil || b == nil || a.hash != b.hash ||
			a.invokingState != b.invokingState {
			return false
		}
		a, b = a.parent, b.parent
	}
}
