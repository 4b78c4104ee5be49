package timetable

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// DefaultMaxRestarts bounds how many times greedy construction starts over
// after painting itself into a corner.
const DefaultMaxRestarts = 1000

var (
	// ErrNoFeasibleAssignment is returned when greedy construction runs out of restarts.
	ErrNoFeasibleAssignment = errors.New("no feasible assignment found")

	// ErrInvalidAssignment is returned when an imported assignment cannot be used.
	ErrInvalidAssignment = errors.New("invalid assignment")
)

// A Timetable is one candidate solution: every exam of its Instance placed
// in a slot 1..Slots with no two conflicting exams sharing a slot.
//
// Slot 0 is a staging area used only while a crossover is in progress.
// A Timetable is not safe for concurrent use, but distinct timetables built
// on the same Instance may be used from different goroutines.
type Timetable struct {
	inst *Instance
	ids  *IDSource
	id   int64

	// slotOf[e] is the slot holding exam e; index 0 is unused
	slotOf []int

	// slots[s] holds the exams placed in slot s
	slots []*intSet

	// acceptable[s] holds the exams outside s that could join s without a conflict
	acceptable []*intSet

	// cost is the unnormalized proximity penalty
	cost int64

	// slotPenalty is only valid right after computeSlotPenalties
	slotPenalty []int64
}

type options struct {
	maxRestarts int
}

// An Option adjusts greedy construction.
type Option func(*options)

// WithMaxRestarts sets how many dead ends construction tolerates before
// giving up with ErrNoFeasibleAssignment.
func WithMaxRestarts(n int) Option {
	return func(o *options) {
		o.maxRestarts = n
	}
}

// New builds a feasible timetable greedily, always placing next one of the
// exams with the fewest slots still open to it.
func New(inst *Instance, ids *IDSource, rng *rand.Rand, opts ...Option) (*Timetable, error) {
	if rng == nil {
		panic("timetable.New: nil random source")
	}
	o := options{maxRestarts: DefaultMaxRestarts}
	for _, opt := range opts {
		opt(&o)
	}

	for restarts := 0; ; restarts++ {
		if slotOf := placeExams(inst, rng); slotOf != nil {
			return build(inst, ids, slotOf), nil
		}
		if restarts >= o.maxRestarts {
			return nil, fmt.Errorf("%w after %d restarts", ErrNoFeasibleAssignment, restarts)
		}
	}
}

// placeExams runs one greedy pass. It returns nil if some exam was left
// with no open slot.
func placeExams(inst *Instance, rng *rand.Rand) []int {
	allSlots := make([]int, inst.Slots)
	for i := range allSlots {
		allSlots[i] = i + 1
	}

	// the slots still open to each unplaced exam
	open := make([]*intSet, inst.MaxExam+1)
	for _, exam := range inst.ExamList {
		open[exam] = newIntSetOf(allSlots)
	}

	// unplaced exams ordered from most to least constrained
	pending := make([]int, len(inst.ExamList))
	copy(pending, inst.ExamList)

	slotOf := make([]int, inst.MaxExam+1)
	for len(pending) > 0 {
		fewest := open[pending[0]].len()
		if fewest == 0 {
			return nil
		}

		// choose among all exams tied for most constrained
		tied := 1
		for tied < len(pending) && open[pending[tied]].len() == fewest {
			tied++
		}
		i := rng.Intn(tied)
		exam := pending[i]
		pending = append(pending[:i], pending[i+1:]...)

		slot := open[exam].pick(rng)
		slotOf[exam] = slot
		open[exam] = nil

		// close this slot for every unplaced exam in conflict with this one
		for _, other := range inst.Neighbors(exam) {
			if open[other] == nil || !open[other].has(slot) {
				continue
			}
			open[other].remove(slot)

			// update its priority based on the new count
			for j := range pending {
				if pending[j] != other {
					continue
				}
				for ; j > 0 && open[pending[j]].len() < open[pending[j-1]].len(); j-- {
					pending[j], pending[j-1] = pending[j-1], pending[j]
				}
				break
			}
		}
	}
	return slotOf
}

// build wraps a complete, feasible placement.
func build(inst *Instance, ids *IDSource, slotOf []int) *Timetable {
	t := &Timetable{
		inst:   inst,
		ids:    ids,
		id:     ids.Next(),
		slotOf: slotOf,
		slots:  make([]*intSet, inst.Slots+1),
	}
	for s := range t.slots {
		t.slots[s] = newIntSet()
	}
	for _, exam := range inst.ExamList {
		t.slots[slotOf[exam]].add(exam)
	}
	t.cost = fullCost(inst, slotOf)
	t.rebuildAcceptable()
	return t
}

// FromAssignment rebuilds a timetable from an exam to slot mapping, such as
// one read back with ReadAssignment. Every exam must be present, in a slot
// between 1 and Slots, and no two conflicting exams may share a slot.
func FromAssignment(inst *Instance, ids *IDSource, assignment map[int]int) (*Timetable, error) {
	slotOf := make([]int, inst.MaxExam+1)
	for exam, slot := range assignment {
		if !inst.IsExam(exam) {
			return nil, fmt.Errorf("%w: unknown exam %d", ErrInvalidAssignment, exam)
		}
		if slot < 1 || slot > inst.Slots {
			return nil, fmt.Errorf("%w: exam %d placed in slot %d, expected 1..%d", ErrInvalidAssignment, exam, slot, inst.Slots)
		}
		slotOf[exam] = slot
	}
	for _, exam := range inst.ExamList {
		if slotOf[exam] == 0 {
			return nil, fmt.Errorf("%w: exam %d has no slot", ErrInvalidAssignment, exam)
		}
	}
	if pairs := Conflicts(inst, assignment); len(pairs) > 0 {
		p := pairs[0]
		return nil, fmt.Errorf("%w: %d conflicting pairs, first is exams %d and %d in slot %d",
			ErrInvalidAssignment, len(pairs), p.A, p.B, p.Slot)
	}
	return build(inst, ids, slotOf), nil
}

// Clone returns an independent copy sharing only the Instance and IDSource.
// The copy keeps the original's identity.
func (t *Timetable) Clone() *Timetable {
	c := &Timetable{
		inst:       t.inst,
		ids:        t.ids,
		id:         t.id,
		slotOf:     make([]int, len(t.slotOf)),
		slots:      make([]*intSet, len(t.slots)),
		acceptable: make([]*intSet, len(t.acceptable)),
		cost:       t.cost,
	}
	copy(c.slotOf, t.slotOf)
	for s := range t.slots {
		c.slots[s] = t.slots[s].clone()
		c.acceptable[s] = t.acceptable[s].clone()
	}
	if t.slotPenalty != nil {
		c.slotPenalty = make([]int64, len(t.slotPenalty))
		copy(c.slotPenalty, t.slotPenalty)
	}
	return c
}

// Instance returns the problem this timetable solves.
func (t *Timetable) Instance() *Instance { return t.inst }

// ID returns the identity of this timetable. It changes whenever an
// operator makes the timetable materially different.
func (t *Timetable) ID() int64 { return t.id }

// Penalty returns the proximity penalty averaged over students.
func (t *Timetable) Penalty() float64 {
	return float64(t.cost) / float64(t.inst.Students)
}

// Fitness is the reciprocal of Penalty. A timetable with no penalty at all
// has infinite fitness.
func (t *Timetable) Fitness() float64 {
	if t.cost == 0 {
		return math.Inf(1)
	}
	return float64(t.inst.Students) / float64(t.cost)
}

// Slot returns the slot holding exam.
func (t *Timetable) Slot(exam int) int {
	return t.slotOf[exam]
}

// Assignment returns a copy of the exam to slot mapping.
func (t *Timetable) Assignment() map[int]int {
	out := make(map[int]int, len(t.inst.ExamList))
	for _, exam := range t.inst.ExamList {
		out[exam] = t.slotOf[exam]
	}
	return out
}

// Members returns the exams in slot, in ascending order.
func (t *Timetable) Members(slot int) []int {
	return t.slots[slot].sorted()
}

// Acceptable returns the exams that could move into slot without creating
// a conflict, in ascending order.
func (t *Timetable) Acceptable(slot int) []int {
	return t.acceptable[slot].sorted()
}
