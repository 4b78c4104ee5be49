package timetable

import "math/rand"

// Window is the largest slot distance at which two conflicting exams still
// cost anything. Exams d slots apart cost 2^(Window-d) per shared student.
const Window = 5

func proximityWeight(distance int) int64 {
	if distance < 0 {
		distance = -distance
	}
	if distance > Window {
		return 0
	}
	return 1 << (Window - distance)
}

// fullCost sums the unnormalized penalty over every conflicting pair.
// Exams sitting in slot 0 are ignored.
func fullCost(inst *Instance, slotOf []int) int64 {
	var cost int64
	for _, a := range inst.ExamList {
		if slotOf[a] == 0 {
			continue
		}
		for _, b := range inst.Neighbors(a) {
			if b <= a || slotOf[b] == 0 {
				continue
			}
			cost += proximityWeight(slotOf[a]-slotOf[b]) * int64(inst.Conflicts[a][b])
		}
	}
	return cost
}

// ComputePenalty evaluates an assignment from scratch, averaged over
// students. Exams missing from the assignment are ignored.
func ComputePenalty(inst *Instance, assignment map[int]int) float64 {
	slotOf := make([]int, inst.MaxExam+1)
	for exam, slot := range assignment {
		if inst.IsExam(exam) {
			slotOf[exam] = slot
		}
	}
	return float64(fullCost(inst, slotOf)) / float64(inst.Students)
}

// proximity is the cost exam would contribute sitting in slot, counting
// only exams placed in other slots within the window.
func (t *Timetable) proximity(exam, slot int) int64 {
	var cost int64
	for _, other := range t.inst.Neighbors(exam) {
		s := t.slotOf[other]
		if s == 0 || s == slot {
			continue
		}
		cost += proximityWeight(s-slot) * int64(t.inst.Conflicts[exam][other])
	}
	return cost
}

// updateCost adjusts the running penalty after exam left from and landed in to.
// Only the window around each end can change.
func (t *Timetable) updateCost(exam, from, to int) {
	t.cost -= t.proximity(exam, from)
	t.cost += t.proximity(exam, to)
}

// computeSlotPenalties charges each conflicting pair within the window to
// both of its slots. The totals steer slot choice only and do not add up to
// the timetable's penalty.
func (t *Timetable) computeSlotPenalties() {
	t.slotPenalty = make([]int64, t.inst.Slots+1)
	for s := 1; s <= t.inst.Slots; s++ {
		for _, exam := range t.slots[s].items {
			for _, other := range t.inst.Neighbors(exam) {
				o := t.slotOf[other]
				if o <= s || o > s+Window {
					continue
				}
				w := proximityWeight(o-s) * int64(t.inst.Conflicts[exam][other])
				t.slotPenalty[s] += w
				t.slotPenalty[o] += w
			}
		}
	}
}

// drawSlot runs a lottery over slots 1..len(weights)-1 where each slot holds
// as many tickets as its weight. Slots marked in taken are skipped. If no
// eligible slot holds a ticket every eligible slot is equally likely.
func drawSlot(weights []int64, taken []bool, rng *rand.Rand) int {
	var total int64
	eligible := 0
	for s := 1; s < len(weights); s++ {
		if taken != nil && taken[s] {
			continue
		}
		total += weights[s]
		eligible++
	}
	if eligible == 0 {
		panic("drawSlot: no slot left to draw")
	}

	if total == 0 {
		n := rng.Intn(eligible)
		for s := 1; s < len(weights); s++ {
			if taken != nil && taken[s] {
				continue
			}
			if n == 0 {
				return s
			}
			n--
		}
	}

	ticket := rng.Int63n(total)
	for s := 1; s < len(weights); s++ {
		if taken != nil && taken[s] {
			continue
		}
		ticket -= weights[s]
		if ticket < 0 {
			return s
		}
	}
	panic("drawSlot: lottery ran past the last slot")
}

// drawSlots draws k distinct slots, each by lottery among those left.
func drawSlots(weights []int64, k int, rng *rand.Rand) []int {
	taken := make([]bool, len(weights))
	out := make([]int, 0, k)
	for len(out) < k {
		s := drawSlot(weights, taken, rng)
		taken[s] = true
		out = append(out, s)
	}
	return out
}
