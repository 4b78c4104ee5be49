package timetable

import (
	"sort"

	"go.uber.org/zap"
)

// A ConflictPair is two conflicting exams placed in the same slot.
type ConflictPair struct {
	A, B     int
	Slot     int
	Students int
}

// Conflicts lists every pair of conflicting exams sharing a slot, with
// A < B, ordered by A then B. Exams outside the instance are ignored.
func Conflicts(inst *Instance, assignment map[int]int) []ConflictPair {
	var pairs []ConflictPair
	for a, slot := range assignment {
		if !inst.IsExam(a) {
			continue
		}
		for _, b := range inst.Neighbors(a) {
			if b <= a {
				continue
			}
			if other, present := assignment[b]; present && other == slot {
				pairs = append(pairs, ConflictPair{A: a, B: b, Slot: slot, Students: inst.Conflicts[a][b]})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// CheckFeasibility reports whether no two conflicting exams share a slot,
// logging a warning for every offending pair. It only reports; nothing is
// repaired.
func CheckFeasibility(log *zap.Logger, inst *Instance, assignment map[int]int) bool {
	pairs := Conflicts(inst, assignment)
	for _, p := range pairs {
		log.Warn("conflicting exams share a slot",
			zap.Int("exam_a", p.A),
			zap.Int("exam_b", p.B),
			zap.Int("slot", p.Slot),
			zap.Int("students", p.Students),
		)
	}
	return len(pairs) == 0
}

// Feasible runs CheckFeasibility on the timetable's own assignment.
func (t *Timetable) Feasible(log *zap.Logger) bool {
	return CheckFeasibility(log, t.inst, t.Assignment())
}
