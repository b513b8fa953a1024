package automaton

import (
	"sync"
)

// ContextCache interns PredictionContext chains so that every
// prediction path reaching the same call-stack shape shares one
// instance.  It is read and written concurrently by all prediction
// threads sharing the automaton.
//
// The canonical store is hash-bucketed under a single RW mutex:
// lookups take the read lock, and an insert re-checks the bucket under
// the write lock so that two racing threads always exchange the same
// canonical instance for one structural value.
type ContextCache struct {
	mu      sync.RWMutex
	buckets map[uint32][]*PredictionContext
	size    int
}

func NewContextCache() *ContextCache {
	return &ContextCache{
		buckets: make(map[uint32][]*PredictionContext),
	}
}

// Size returns the number of distinct interned contexts.
func (cc *ContextCache) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.size
}

// Intern returns the canonical instance structurally equal to ctx,
// inserting ctx (with its parent chain canonicalized) on first
// occurrence.  A nil or empty context is normalized to EmptyContext.
func (cc *ContextCache) Intern(ctx *PredictionContext) *PredictionContext {
	// The visited map is scoped to this one call: it short-circuits
	// frames already normalized during this traversal, keyed by
	// identity, so shared suffixes are walked once.
	visited := make(map[*PredictionContext]*PredictionContext)
	return cc.intern(ctx, visited)
}

func (cc *ContextCache) intern(ctx *PredictionContext, visited map[*PredictionContext]*PredictionContext) *PredictionContext {
	if ctx == nil || ctx.IsEmpty() {
		return EmptyContext
	}
	if canon, has := visited[ctx]; has {
		return canon
	}
	if canon := cc.lookup(ctx); canon != nil {
		visited[ctx] = canon
		return canon
	}
	parent := cc.intern(ctx.parent, visited)
	entry := ctx
	if parent != ctx.parent {
		entry = NewPredictionContext(parent, ctx.invokingState)
	}
	canon := cc.insert(entry)
	visited[ctx] = canon
	return canon
}

func (cc *ContextCache) lookup(ctx *PredictionContext) *PredictionContext {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	for _, c := range cc.buckets[ctx.hash] {
		if c.Equals(ctx) {
			return c
		}
	}
	return nil
}

func (cc *ContextCache) insert(ctx *PredictionContext) *PredictionContext {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for _, c := range cc.buckets[ctx.hash] { // Re-check: another thread may
		if c.Equals(ctx) { // have won the insert race.
			return c
		}
	}
	cc.buckets[ctx.hash] = append(cc.buckets[ctx.hash], ctx)
	cc.size++
	return ctx
}
