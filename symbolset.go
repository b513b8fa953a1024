package automaton

import (
	"sort"
	"strconv"
)

// Distinguished symbol values.  User token types are dense non-negative
// integers assigned by the grammar; the two pseudo-symbols sit below them.
const (
	SymbolEpsilon  = -2
	SymbolEOF      = -1
	SymbolMinToken = 1
)

type SymbolRange struct {
	First int
	Last  int
}

// SymbolSet is an ordered set of symbol values kept as sorted,
// non-overlapping, non-adjacent inclusive ranges.
type SymbolSet struct {
	ranges   []SymbolRange
	readOnly bool
}

func NewSymbolSet() *SymbolSet {
	return &SymbolSet{}
}

func NewSymbolSetOf(symbols ...int) *SymbolSet {
	ss := &SymbolSet{}
	for _, s := range symbols {
		ss.Add(s)
	}
	return ss
}

// SetReadOnly freezes the set.  Mutation after freezing is a caller
// defect, not a recoverable condition.
func (ss *SymbolSet) SetReadOnly(ro bool) {
	ss.readOnly = ro
}

func (ss *SymbolSet) IsReadOnly() bool {
	return ss.readOnly
}

func (ss *SymbolSet) Add(symbol int) {
	ss.AddRange(symbol, symbol)
}

func (ss *SymbolSet) AddRange(first, last int) {
	if ss.readOnly {
		panic("modification of read-only symbol set")
	}
	if last < first {
		return
	}
	idx := sort.Search(len(ss.ranges), func(n int) bool { // Least range that could
		return ss.ranges[n].Last >= first-1 // touch or follow the new one.
	})
	if idx == len(ss.ranges) {
		ss.ranges = append(ss.ranges, SymbolRange{first, last})
		return
	}
	r := ss.ranges[idx]
	if r.First > last+1 { // Disjoint; insert before idx.
		ss.ranges = append(ss.ranges, SymbolRange{})
		copy(ss.ranges[idx+1:], ss.ranges[idx:])
		ss.ranges[idx] = SymbolRange{first, last}
		return
	}
	// Overlaps or abuts one or more existing ranges starting at idx;
	// coalesce the covered run into a single range.
	if r.First < first {
		first = r.First
	}
	end := idx
	for end+1 < len(ss.ranges) && ss.ranges[end+1].First <= last+1 {
		end++
	}
	if ss.ranges[end].Last > last {
		last = ss.ranges[end].Last
	}
	ss.ranges[idx] = SymbolRange{first, last}
	ss.ranges = append(ss.ranges[:idx+1], ss.ranges[end+1:]...)
}

func (ss *SymbolSet) AddSet(other *SymbolSet) {
	if other == nil {
		return
	}
	for _, r := range other.ranges {
		ss.AddRange(r.First, r.Last)
	}
}

func (ss *SymbolSet) Remove(symbol int) {
	if ss.readOnly {
		panic("modification of read-only symbol set")
	}
	for i, r := range ss.ranges {
		if symbol < r.First {
			return
		}
		if symbol > r.Last {
			continue
		}
		switch {
		case r.First == r.Last:
			ss.ranges = append(ss.ranges[:i], ss.ranges[i+1:]...)
		case symbol == r.First:
			ss.ranges[i].First++
		case symbol == r.Last:
			ss.ranges[i].Last--
		default: // Interior removal splits the range.
			ss.ranges = append(ss.ranges, SymbolRange{})
			copy(ss.ranges[i+2:], ss.ranges[i+1:])
			ss.ranges[i+1] = SymbolRange{symbol + 1, r.Last}
			ss.ranges[i] = SymbolRange{r.First, symbol - 1}
		}
		return
	}
}

func (ss *SymbolSet) Contains(symbol int) bool {
	idx := sort.Search(len(ss.ranges), func(n int) bool {
		return ss.ranges[n].Last >= symbol
	})
	return idx < len(ss.ranges) && ss.ranges[idx].First <= symbol
}

func (ss *SymbolSet) Size() int {
	n := 0
	for _, r := range ss.ranges {
		n += r.Last - r.First + 1
	}
	return n
}

func (ss *SymbolSet) Ranges() []SymbolRange {
	rv := make([]SymbolRange, len(ss.ranges))
	copy(rv, ss.ranges)
	return rv
}

func (ss *SymbolSet) Symbols() []int {
	rv := make([]int, 0, ss.Size())
	for _, r := range ss.ranges {
		for s := r.First; s <= r.Last; s++ {
			rv = append(rv, s)
		}
	}
	return rv
}

func (ss *SymbolSet) Copy() *SymbolSet {
	cp := &SymbolSet{ranges: make([]SymbolRange, len(ss.ranges))}
	copy(cp.ranges, ss.ranges)
	return cp
}

func (ss *SymbolSet) Equal(other *SymbolSet) bool {
	if other == nil || len(ss.ranges) != len(other.ranges) {
		return false
	}
	for i, r := range ss.ranges {
		if other.ranges[i] != r {
			return false
		}
	}
	return true
}

func (ss *SymbolSet) String() string {
	buf := []byte{'{'}
	for i, r := range ss.ranges {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = strconv.AppendInt(buf, int64(r.First), 10)
		if r.Last != r.First {
			buf = append(buf, ".."...)
			buf = strconv.AppendInt(buf, int64(r.Last), 10)
		}
	}
	return string(append(buf, '}'))
}
