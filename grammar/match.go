package grammar

import (
	"strconv"
	"strings"
)

// MatchInfo is an immutable sequence of token ordinals a decision point may
// see ahead.
type MatchInfo struct {
	ordinals []int
}

var emptyMatch = MatchInfo{}

func newMatchInfo(ordinals ...int) MatchInfo {
	return MatchInfo{
		ordinals: append([]int(nil), ordinals...),
	}
}

func (m MatchInfo) Len() int {
	return len(m.ordinals)
}

func (m MatchInfo) At(i int) int {
	return m.ordinals[i]
}

func (m MatchInfo) Ordinals() []int {
	return append([]int(nil), m.ordinals...)
}

// cons returns a new match extended by an ordinal.
func (m MatchInfo) cons(ordinal int) MatchInfo {
	ords := make([]int, len(m.ordinals)+1)
	copy(ords, m.ordinals)
	ords[len(m.ordinals)] = ordinal
	return MatchInfo{
		ordinals: ords,
	}
}

func (m MatchInfo) key() string {
	var b strings.Builder
	for i, ord := range m.ordinals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(ord))
	}
	return b.String()
}

// matchSet is a set of matches keeping insertion order.
type matchSet struct {
	items []MatchInfo
	index map[string]struct{}
}

func newMatchSet(ms ...MatchInfo) *matchSet {
	s := &matchSet{
		index: map[string]struct{}{},
	}
	for _, m := range ms {
		s.add(m)
	}
	return s
}

func (s *matchSet) add(m MatchInfo) bool {
	k := m.key()
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.items = append(s.items, m)
	return true
}

func (s *matchSet) addAll(t *matchSet) {
	for _, m := range t.items {
		s.add(m)
	}
}

func (s *matchSet) contains(m MatchInfo) bool {
	_, ok := s.index[m.key()]
	return ok
}

func (s *matchSet) size() int {
	return len(s.items)
}

func (s *matchSet) clone() *matchSet {
	c := newMatchSet()
	c.addAll(s)
	return c
}

// split partitions the set into the matches contained in mask and the rest.
func (s *matchSet) split(mask *matchSet) (*matchSet, *matchSet) {
	in := newMatchSet()
	rest := newMatchSet()
	for _, m := range s.items {
		if mask.contains(m) {
			in.add(m)
		} else {
			rest.add(m)
		}
	}
	return in, rest
}

// overlap returns a match both sets can begin with: the shorter one of the
// first pair in which one match is a non-empty prefix of the other.
func overlap(s1, s2 *matchSet) (MatchInfo, bool) {
	for _, m1 := range s1.items {
		for _, m2 := range s2.items {
			size := m1.Len()
			shorter := m1
			if m2.Len() < size {
				size = m2.Len()
				shorter = m2
			}
			if size == 0 {
				continue
			}
			same := true
			for k := 0; k < size; k++ {
				if m1.At(k) != m2.At(k) {
					same = false
					break
				}
			}
			if same {
				return shorter, true
			}
		}
	}
	return MatchInfo{}, false
}
