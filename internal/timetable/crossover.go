package timetable

import (
	"math"
	"math/rand"
)

// slotContents records the exams one timetable held in one slot.
type slotContents struct {
	slot  int
	exams []int
}

// Crossover builds two offspring by exchanging whole slots between t and
// other. Roughly fraction of all slots are drawn, distinct, by
// penalty-weighted lottery on t. Each offspring takes the drawn slots from
// the other parent, drops its own copies of the exams those slots bring in,
// then places every exam left homeless in the cheapest slot that accepts it.
//
// If some homeless exam fits nowhere the crossover fails: Crossover returns
// t and other themselves, untouched, with ok set to false.
func (t *Timetable) Crossover(other *Timetable, fraction float64, rng *rand.Rand) (a, b *Timetable, ok bool) {
	if other.inst != t.inst {
		panic("Crossover: parents solve different instances")
	}
	if !(fraction > 0 && fraction <= 1) {
		panic("Crossover: fraction must be in (0, 1]")
	}

	k := int(math.Round(fraction * float64(t.inst.Slots)))
	if k < 1 {
		k = 1
	}
	t.computeSlotPenalties()
	chosen := drawSlots(t.slotPenalty, k, rng)

	a, b = t.Clone(), other.Clone()
	fromA, fromB := a.extract(chosen), b.extract(chosen)
	a.dropDuplicates(fromB)
	b.dropDuplicates(fromA)
	a.insertSlots(fromB)
	b.insertSlots(fromA)

	if !a.reinsertStaged(rng) || !b.reinsertStaged(rng) {
		return t, other, false
	}
	a.id = t.ids.Next()
	b.id = t.ids.Next()
	return a, b, true
}

// extract empties the chosen slots into the staging slot and returns what
// each one held.
func (t *Timetable) extract(chosen []int) []slotContents {
	out := make([]slotContents, 0, len(chosen))
	for _, slot := range chosen {
		exams := t.slots[slot].members()
		t.slots[slot] = newIntSet()
		for _, exam := range exams {
			t.slotOf[exam] = 0
			t.slots[0].add(exam)
		}
		out = append(out, slotContents{slot: slot, exams: exams})
	}
	return out
}

// dropDuplicates takes every incoming exam out of whatever slot it is in now,
// the staging slot included.
func (t *Timetable) dropDuplicates(incoming []slotContents) {
	for _, in := range incoming {
		for _, exam := range in.exams {
			t.slots[t.slotOf[exam]].remove(exam)
		}
	}
}

// insertSlots installs the incoming slots verbatim.
func (t *Timetable) insertSlots(incoming []slotContents) {
	for _, in := range incoming {
		for _, exam := range in.exams {
			t.slotOf[exam] = in.slot
		}
		t.slots[in.slot] = newIntSetOf(in.exams)
	}
}

// reinsertStaged places every exam still in the staging slot, in random
// order, into the accepting slot where it adds the least penalty. It
// reports false as soon as an exam fits nowhere, leaving t half repaired.
func (t *Timetable) reinsertStaged(rng *rand.Rand) bool {
	t.rebuildAcceptable()

	staged := t.slots[0].members()
	rng.Shuffle(len(staged), func(i, j int) {
		staged[i], staged[j] = staged[j], staged[i]
	})

	for _, exam := range staged {
		dest, ties := 0, 0
		var best int64
		for s := 1; s <= t.inst.Slots; s++ {
			if !t.acceptable[s].has(exam) {
				continue
			}
			cost := t.proximity(exam, s)
			switch {
			case dest == 0 || cost < best:
				dest, best, ties = s, cost, 1
			case cost == best:
				ties++
				if rng.Intn(ties) == 0 {
					dest = s
				}
			}
		}
		if dest == 0 {
			return false
		}

		t.slots[0].remove(exam)
		t.slotOf[exam] = dest
		t.slots[dest].add(exam)
		t.acceptable[dest].remove(exam)
		t.acceptable[dest].removeAll(t.inst.Neighbors(exam))
	}

	t.cost = fullCost(t.inst, t.slotOf)
	return true
}
