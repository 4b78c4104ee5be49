package timetable

import (
	"math/rand"
	"sort"
)

// An intSet is an unordered set of exam or slot ids supporting constant-time
// insert, delete, membership and uniform random choice. Iteration order
// depends only on the history of operations, so a seeded random source
// yields reproducible runs.
type intSet struct {
	items []int
	pos   map[int]int
}

func newIntSet() *intSet {
	return &intSet{pos: make(map[int]int)}
}

func newIntSetOf(exams []int) *intSet {
	s := &intSet{items: make([]int, 0, len(exams)), pos: make(map[int]int, len(exams))}
	for _, e := range exams {
		s.add(e)
	}
	return s
}

func (s *intSet) len() int { return len(s.items) }

func (s *intSet) has(e int) bool {
	_, ok := s.pos[e]
	return ok
}

func (s *intSet) add(e int) {
	if _, ok := s.pos[e]; ok {
		return
	}
	s.pos[e] = len(s.items)
	s.items = append(s.items, e)
}

func (s *intSet) remove(e int) {
	i, ok := s.pos[e]
	if !ok {
		return
	}
	last := len(s.items) - 1
	moved := s.items[last]
	s.items[i] = moved
	s.pos[moved] = i
	s.items = s.items[:last]
	delete(s.pos, e)
}

func (s *intSet) removeAll(exams []int) {
	for _, e := range exams {
		s.remove(e)
	}
}

// pick returns a uniformly chosen member; the set must not be empty.
func (s *intSet) pick(rng *rand.Rand) int {
	return s.items[rng.Intn(len(s.items))]
}

// members returns a copy of the contents in insertion-history order.
func (s *intSet) members() []int {
	out := make([]int, len(s.items))
	copy(out, s.items)
	return out
}

func (s *intSet) sorted() []int {
	out := s.members()
	sort.Ints(out)
	return out
}

func (s *intSet) clone() *intSet {
	c := &intSet{items: make([]int, len(s.items)), pos: make(map[int]int, len(s.pos))}
	copy(c.items, s.items)
	for k, v := range s.pos {
		c.pos[k] = v
	}
	return c
}
