package timetable

// rebuildAcceptable recomputes every slot's acceptable set from the slot
// contents. Slot 0 never accepts anything.
func (t *Timetable) rebuildAcceptable() {
	t.acceptable = make([]*intSet, t.inst.Slots+1)
	t.acceptable[0] = newIntSet()
	for s := 1; s <= t.inst.Slots; s++ {
		exams := newIntSetOf(t.inst.ExamList)
		for _, exam := range t.slots[s].items {
			exams.removeAll(t.inst.Neighbors(exam))
			exams.remove(exam)
		}
		t.acceptable[s] = exams
	}
}

// conflictsWithSlot reports whether any exam placed in slot conflicts with exam.
func (t *Timetable) conflictsWithSlot(exam, slot int) bool {
	for _, other := range t.inst.Neighbors(exam) {
		if t.slotOf[other] == slot && t.slots[slot].has(other) {
			return true
		}
	}
	return false
}

// updateAcceptable patches the acceptable sets after exam moved from one
// slot to another. It must run after exam has left the membership of from
// and before it joins to, with slotOf already pointing at to.
func (t *Timetable) updateAcceptable(exam, from, to int) {
	// neighbours of exam may now fit in from, unless someone else still blocks them
	for _, other := range t.inst.Neighbors(exam) {
		if t.slotOf[other] == from {
			continue
		}
		if !t.conflictsWithSlot(other, from) {
			t.acceptable[from].add(other)
		}
	}
	t.acceptable[to].removeAll(t.inst.Neighbors(exam))
	t.acceptable[to].remove(exam)
	t.acceptable[from].add(exam)
}
