package timetable

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matrix builds a symmetric conflict matrix for exams 1..n from weighted edges.
func matrix(n int, edges ...[3]int) [][]int {
	m := make([][]int, n+1)
	for i := range m {
		m[i] = make([]int, n+1)
	}
	for _, e := range edges {
		m[e[0]][e[1]] = e[2]
		m[e[1]][e[0]] = e[2]
	}
	return m
}

// smallInstance has 6 exams in 5 slots with two conflicting pairs and 30 students.
func smallInstance(t *testing.T) *Instance {
	inst, err := NewInstance(5, 30, matrix(6, [3]int{1, 2, 3}, [3]int{3, 4, 2}))
	require.NoError(t, err)
	return inst
}

func randomInstance(t *testing.T, seed int64, exams, slots, students, perStudent int) *Instance {
	inst, err := RandomInstance(exams, slots, students, perStudent, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return inst
}

// requireConsistent checks every structural invariant of tt from scratch.
func requireConsistent(t *testing.T, tt *Timetable) {
	t.Helper()
	inst := tt.inst

	// each exam in exactly one slot, and the one slotOf names
	seen := make(map[int]int)
	for s := 1; s <= inst.Slots; s++ {
		for _, exam := range tt.slots[s].items {
			prev, dup := seen[exam]
			require.False(t, dup, "exam %d in slots %d and %d", exam, prev, s)
			seen[exam] = s
			require.Equal(t, s, tt.slotOf[exam], "exam %d listed in slot %d", exam, s)
		}
	}
	require.Zero(t, tt.slots[0].len(), "staging slot not empty")
	require.Len(t, seen, inst.Exams)

	// feasibility
	require.Empty(t, Conflicts(inst, tt.Assignment()))

	// acceptable sets match a brute-force recomputation
	for s := 1; s <= inst.Slots; s++ {
		for _, exam := range inst.ExamList {
			want := tt.slotOf[exam] != s
			for _, other := range tt.slots[s].items {
				if inst.Conflicts[exam][other] > 0 {
					want = false
				}
			}
			require.Equal(t, want, tt.acceptable[s].has(exam), "exam %d acceptable in slot %d", exam, s)
		}
	}

	// running penalty matches a full recomputation
	require.Equal(t, fullCost(inst, tt.slotOf), tt.cost)
	penalty := ComputePenalty(inst, tt.Assignment())
	if penalty == 0 {
		require.True(t, math.IsInf(tt.Fitness(), 1))
	} else {
		require.InEpsilon(t, 1/penalty, tt.Fitness(), 1e-4)
	}
}

func snapshot(tt *Timetable) map[string]interface{} {
	members := make([][]int, len(tt.slots))
	acceptable := make([][]int, len(tt.slots))
	for s := range tt.slots {
		members[s] = tt.slots[s].sorted()
		acceptable[s] = tt.acceptable[s].sorted()
	}
	return map[string]interface{}{
		"assignment": tt.Assignment(),
		"members":    members,
		"acceptable": acceptable,
		"cost":       tt.cost,
		"id":         tt.id,
	}
}

func assertUnchanged(t *testing.T, before map[string]interface{}, tt *Timetable) {
	t.Helper()
	assert.Equal(t, before, snapshot(tt))
}
