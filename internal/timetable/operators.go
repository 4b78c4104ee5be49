package timetable

import (
	"fmt"
	"math/rand"
)

// MoveExam moves exam into dest, keeping the penalty and acceptable sets
// current. It does not check feasibility: callers pick dest from the slots
// that currently accept exam.
func (t *Timetable) MoveExam(exam, dest int) {
	if !t.inst.IsExam(exam) {
		panic(fmt.Sprintf("MoveExam: unknown exam %d", exam))
	}
	if dest < 1 || dest > t.inst.Slots {
		panic(fmt.Sprintf("MoveExam: slot %d out of range 1..%d", dest, t.inst.Slots))
	}
	from := t.slotOf[exam]
	if from == dest {
		return
	}

	// take it out first so neither update sees it in either slot
	t.slots[from].remove(exam)
	t.slotOf[exam] = dest
	t.updateAcceptable(exam, from, dest)
	t.updateCost(exam, from, dest)
	t.slots[dest].add(exam)
}

// Mutate picks a slot by lottery weighted by slot penalty and moves into it
// a randomly chosen exam that fits there. It reports whether anything moved;
// when nothing fits the timetable is left exactly as it was.
func (t *Timetable) Mutate(rng *rand.Rand) bool {
	t.computeSlotPenalties()
	slot := drawSlot(t.slotPenalty, nil, rng)

	candidates := t.acceptable[slot]
	if candidates.len() == 0 {
		return false
	}
	t.MoveExam(candidates.pick(rng), slot)
	t.id = t.ids.Next()
	return true
}

// SwapSlots draws two slots by penalty-weighted lottery and exchanges their
// entire contents. Drawing the same slot twice leaves the timetable alone.
func (t *Timetable) SwapSlots(rng *rand.Rand) bool {
	t.computeSlotPenalties()
	a := drawSlot(t.slotPenalty, nil, rng)
	b := drawSlot(t.slotPenalty, nil, rng)
	if a == b {
		return false
	}
	t.swap(a, b)
	t.id = t.ids.Next()
	return true
}

// swap exchanges two slots. Whole slots move at once, so the penalty and
// acceptable sets are rebuilt rather than patched.
func (t *Timetable) swap(a, b int) {
	t.slots[a], t.slots[b] = t.slots[b], t.slots[a]
	for _, exam := range t.slots[a].items {
		t.slotOf[exam] = a
	}
	for _, exam := range t.slots[b].items {
		t.slotOf[exam] = b
	}
	t.cost = fullCost(t.inst, t.slotOf)
	t.rebuildAcceptable()
}

// Disrupt empties a slot drawn by penalty-weighted lottery. Each of its exams,
// in random order, moves to the slot with the lowest penalty among those that
// accept it. An exam nothing else accepts stays where it was. Disrupt returns
// the number of exams that moved.
func (t *Timetable) Disrupt(rng *rand.Rand) int {
	t.computeSlotPenalties()
	slot := drawSlot(t.slotPenalty, nil, rng)

	exams := t.slots[slot].members()
	rng.Shuffle(len(exams), func(i, j int) {
		exams[i], exams[j] = exams[j], exams[i]
	})

	moved := 0
	for _, exam := range exams {
		dest := t.cheapestSlot(exam, slot, rng)
		if dest == 0 {
			continue
		}
		t.MoveExam(exam, dest)
		moved++
	}
	if moved > 0 {
		t.id = t.ids.Next()
	}
	return moved
}

// cheapestSlot returns the slot other than skip that accepts exam and has
// the lowest slot penalty, breaking ties at random. It returns 0 if no such
// slot exists.
func (t *Timetable) cheapestSlot(exam, skip int, rng *rand.Rand) int {
	best, ties := 0, 0
	for s := 1; s <= t.inst.Slots; s++ {
		if s == skip || !t.acceptable[s].has(exam) {
			continue
		}
		switch {
		case best == 0 || t.slotPenalty[s] < t.slotPenalty[best]:
			best, ties = s, 1
		case t.slotPenalty[s] == t.slotPenalty[best]:
			ties++
			if rng.Intn(ties) == 0 {
				best = s
			}
		}
	}
	return best
}
