package timetable

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrInvalidInstance is returned when instance data is malformed.
var ErrInvalidInstance = errors.New("invalid instance")

// An Instance is the read-only problem data shared by every Timetable built
// on it. Exams are numbered 1..MaxExam; row and column 0 of the conflict
// matrix are unused.
type Instance struct {
	Exams    int
	Slots    int
	Students int
	MaxExam  int

	// Conflicts[a][b] is the number of students enrolled in both a and b.
	Conflicts [][]int

	// ExamList holds every valid exam id in ascending order.
	ExamList []int

	// neighbors[e] lists the exams with a positive conflict weight against e
	neighbors [][]int
}

// NewInstance validates a conflict matrix and wraps it in an Instance.
// The matrix is retained, not copied, and must not be changed afterwards.
func NewInstance(slots, students int, conflicts [][]int) (*Instance, error) {
	if slots < 1 {
		return nil, fmt.Errorf("%w: slots must be >= 1 (got %d)", ErrInvalidInstance, slots)
	}
	if students < 1 {
		return nil, fmt.Errorf("%w: students must be >= 1 (got %d)", ErrInvalidInstance, students)
	}
	if len(conflicts) < 2 {
		return nil, fmt.Errorf("%w: conflict matrix must cover at least one exam", ErrInvalidInstance)
	}
	n := len(conflicts)
	for i, row := range conflicts {
		if len(row) != n {
			return nil, fmt.Errorf("%w: conflict row %d has %d entries, expected %d", ErrInvalidInstance, i, len(row), n)
		}
	}

	inst := &Instance{
		Exams:     n - 1,
		Slots:     slots,
		Students:  students,
		MaxExam:   n - 1,
		Conflicts: conflicts,
		neighbors: make([][]int, n),
	}
	for a := 1; a < n; a++ {
		inst.ExamList = append(inst.ExamList, a)
		if conflicts[a][a] != 0 {
			return nil, fmt.Errorf("%w: exam %d conflicts with itself", ErrInvalidInstance, a)
		}
		if conflicts[0][a] != 0 || conflicts[a][0] != 0 {
			return nil, fmt.Errorf("%w: exam id 0 is reserved", ErrInvalidInstance)
		}
		for b := 1; b < n; b++ {
			w := conflicts[a][b]
			if w < 0 {
				return nil, fmt.Errorf("%w: negative weight %d between exams %d and %d", ErrInvalidInstance, w, a, b)
			}
			if w != conflicts[b][a] {
				return nil, fmt.Errorf("%w: weight between exams %d and %d is not symmetric", ErrInvalidInstance, a, b)
			}
			if w > 0 {
				inst.neighbors[a] = append(inst.neighbors[a], b)
			}
		}
	}
	return inst, nil
}

// NewInstanceFromEnrollments builds the conflict matrix from a list of
// enrollments, one entry per student holding the exams that student sits.
// The number of exams is the highest exam id mentioned.
func NewInstanceFromEnrollments(slots int, enrollments [][]int) (*Instance, error) {
	maxExam := 0
	for s, exams := range enrollments {
		for _, e := range exams {
			if e < 1 {
				return nil, fmt.Errorf("%w: student %d enrolled in exam %d", ErrInvalidInstance, s+1, e)
			}
			if e > maxExam {
				maxExam = e
			}
		}
	}

	conflicts := make([][]int, maxExam+1)
	for i := range conflicts {
		conflicts[i] = make([]int, maxExam+1)
	}
	for _, exams := range enrollments {
		// a student listed twice for the same exam still counts once
		seen := make(map[int]bool)
		var list []int
		for _, e := range exams {
			if !seen[e] {
				seen[e] = true
				list = append(list, e)
			}
		}
		for i, a := range list {
			for _, b := range list[i+1:] {
				conflicts[a][b]++
				conflicts[b][a]++
			}
		}
	}
	return NewInstance(slots, len(enrollments), conflicts)
}

// RandomInstance generates a synthetic instance where each student sits
// perStudent distinct exams drawn uniformly at random.
func RandomInstance(exams, slots, students, perStudent int, rng *rand.Rand) (*Instance, error) {
	if rng == nil {
		panic("RandomInstance: nil random source")
	}
	if exams < 1 || perStudent < 1 || perStudent > exams {
		return nil, fmt.Errorf("%w: cannot enroll %d exams per student out of %d", ErrInvalidInstance, perStudent, exams)
	}
	enrollments := make([][]int, students)
	for s := range enrollments {
		perm := rng.Perm(exams)[:perStudent]
		list := make([]int, perStudent)
		for i, e := range perm {
			list[i] = e + 1
		}
		sort.Ints(list)
		enrollments[s] = list
	}

	// make sure every exam exists even if nobody drew the highest ids
	conflicts := make([][]int, exams+1)
	for i := range conflicts {
		conflicts[i] = make([]int, exams+1)
	}
	for _, list := range enrollments {
		for i, a := range list {
			for _, b := range list[i+1:] {
				conflicts[a][b]++
				conflicts[b][a]++
			}
		}
	}
	return NewInstance(slots, students, conflicts)
}

// Conflict returns the number of students shared by exams a and b.
func (inst *Instance) Conflict(a, b int) int {
	return inst.Conflicts[a][b]
}

// Neighbors returns the exams conflicting with exam, in ascending order.
// The slice is shared and must not be modified.
func (inst *Instance) Neighbors(exam int) []int {
	return inst.neighbors[exam]
}

// IsExam reports whether id names an exam of this instance.
func (inst *Instance) IsExam(id int) bool {
	return id >= 1 && id <= inst.MaxExam
}
