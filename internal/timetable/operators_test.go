package timetable

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveExamKeepsPenaltyCurrent(t *testing.T) {
	inst := randomInstance(t, 21, 50, 14, 160, 3)
	rng := rand.New(rand.NewSource(21))
	tt, err := New(inst, &IDSource{}, rng)
	require.NoError(t, err)

	moves := 0
	for i := 0; i < 400; i++ {
		slot := 1 + rng.Intn(inst.Slots)
		if tt.acceptable[slot].len() == 0 {
			continue
		}
		exam := tt.acceptable[slot].pick(rng)
		tt.MoveExam(exam, slot)
		moves++

		assert.Equal(t, slot, tt.Slot(exam))
		requireConsistent(t, tt)
	}
	require.Greater(t, moves, 100)
}

func TestMoveExamSameSlot(t *testing.T) {
	inst := smallInstance(t)
	tt, err := New(inst, &IDSource{}, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	before := snapshot(tt)
	tt.MoveExam(3, tt.Slot(3))
	assertUnchanged(t, before, tt)
}

func TestMoveExamPanicsOnBadInput(t *testing.T) {
	inst := smallInstance(t)
	tt, err := New(inst, &IDSource{}, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	assert.Panics(t, func() { tt.MoveExam(0, 1) })
	assert.Panics(t, func() { tt.MoveExam(7, 1) })
	assert.Panics(t, func() { tt.MoveExam(1, 0) })
	assert.Panics(t, func() { tt.MoveExam(1, 6) })
}

func TestMutate(t *testing.T) {
	inst := randomInstance(t, 31, 40, 14, 100, 3)
	rng := rand.New(rand.NewSource(31))
	tt, err := New(inst, &IDSource{}, rng)
	require.NoError(t, err)

	mutated := 0
	for i := 0; i < 200; i++ {
		before := snapshot(tt)
		id := tt.ID()
		if tt.Mutate(rng) {
			mutated++
			assert.Greater(t, tt.ID(), id)
			assert.NotEqual(t, before["assignment"], tt.Assignment())
		} else {
			assertUnchanged(t, before, tt)
		}
		requireConsistent(t, tt)
	}
	assert.Positive(t, mutated)
}

func TestMutateNothingFits(t *testing.T) {
	// every exam conflicts with every other and each has a slot to itself
	inst, err := NewInstance(4, 4, matrix(4,
		[3]int{1, 2, 1}, [3]int{1, 3, 1}, [3]int{1, 4, 1},
		[3]int{2, 3, 1}, [3]int{2, 4, 1}, [3]int{3, 4, 1},
	))
	require.NoError(t, err)
	tt, err := New(inst, &IDSource{}, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	for s := 1; s <= inst.Slots; s++ {
		require.Empty(t, tt.Acceptable(s))
	}

	before := snapshot(tt)
	fitness := tt.Fitness()
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 20; i++ {
		assert.False(t, tt.Mutate(rng))
	}
	assertUnchanged(t, before, tt)
	assert.Equal(t, fitness, tt.Fitness())
}

func TestSwapWithoutConflicts(t *testing.T) {
	inst, err := NewInstance(2, 10, matrix(3))
	require.NoError(t, err)
	tt, err := FromAssignment(inst, &IDSource{}, map[int]int{1: 1, 2: 1, 3: 2})
	require.NoError(t, err)
	require.Zero(t, tt.Penalty())
	require.True(t, math.IsInf(tt.Fitness(), 1))

	tt.swap(1, 2)
	assert.Equal(t, []int{3}, tt.Members(1))
	assert.Equal(t, []int{1, 2}, tt.Members(2))
	assert.Equal(t, 2, tt.Slot(1))
	assert.Equal(t, 1, tt.Slot(3))
	assert.Zero(t, tt.Penalty())
	assert.True(t, math.IsInf(tt.Fitness(), 1))
	requireConsistent(t, tt)
}

func TestSwapSlots(t *testing.T) {
	inst := randomInstance(t, 41, 40, 14, 100, 3)
	rng := rand.New(rand.NewSource(41))
	tt, err := New(inst, &IDSource{}, rng)
	require.NoError(t, err)

	swapped := 0
	for i := 0; i < 100; i++ {
		before := snapshot(tt)
		sizes := make(map[int]bool)
		for s := 1; s <= inst.Slots; s++ {
			sizes[len(tt.Members(s))] = true
		}
		if tt.SwapSlots(rng) {
			swapped++
			// a swap only permutes slots, so the multiset of slot sizes is kept
			for s := 1; s <= inst.Slots; s++ {
				assert.True(t, sizes[len(tt.Members(s))])
			}
		} else {
			assertUnchanged(t, before, tt)
		}
		requireConsistent(t, tt)
	}
	assert.Positive(t, swapped)
}

func TestDisrupt(t *testing.T) {
	inst := randomInstance(t, 51, 40, 14, 100, 3)
	rng := rand.New(rand.NewSource(51))
	tt, err := New(inst, &IDSource{}, rng)
	require.NoError(t, err)

	total := 0
	for i := 0; i < 100; i++ {
		id := tt.ID()
		moved := tt.Disrupt(rng)
		total += moved
		if moved > 0 {
			assert.Greater(t, tt.ID(), id)
		} else {
			assert.Equal(t, id, tt.ID())
		}
		requireConsistent(t, tt)
	}
	assert.Positive(t, total)
}

func TestDisruptPrefersCheapSlots(t *testing.T) {
	// 1 and 2 conflict heavily and sit next to each other; 3 is free
	inst, err := NewInstance(8, 10, matrix(3, [3]int{1, 2, 10}))
	require.NoError(t, err)
	tt, err := FromAssignment(inst, &IDSource{}, map[int]int{1: 1, 2: 2, 3: 8})
	require.NoError(t, err)

	// only slots 1 and 2 carry penalty, so the lottery empties one of them
	moved := tt.Disrupt(rand.New(rand.NewSource(3)))
	require.Equal(t, 1, moved)
	requireConsistent(t, tt)

	// the moved exam lands in a slot that carried no penalty
	switch {
	case tt.Slot(1) != 1:
		assert.Equal(t, 2, tt.Slot(2))
		assert.GreaterOrEqual(t, tt.Slot(1), 3)
	default:
		assert.GreaterOrEqual(t, tt.Slot(2), 3)
	}
	assert.Equal(t, 8, tt.Slot(3))
	assert.LessOrEqual(t, tt.Penalty(), 16.0)
}

func TestDrawSlot(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	// zero weight slots are never drawn while some slot has weight
	weights := []int64{0, 0, 5, 0, 1}
	counts := make(map[int]int)
	for i := 0; i < 6000; i++ {
		counts[drawSlot(weights, nil, rng)]++
	}
	assert.Zero(t, counts[1])
	assert.Zero(t, counts[3])
	assert.InDelta(t, 5000, counts[2], 250)
	assert.InDelta(t, 1000, counts[4], 250)

	// all zero means uniform
	counts = make(map[int]int)
	for i := 0; i < 4000; i++ {
		counts[drawSlot([]int64{0, 0, 0, 0, 0}, nil, rng)]++
	}
	for s := 1; s <= 4; s++ {
		assert.InDelta(t, 1000, counts[s], 200)
	}

	// distinct draws cover every slot when asked for all of them
	slots := drawSlots([]int64{0, 3, 0, 7, 1}, 4, rng)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, slots)
}

func TestComputeSlotPenalties(t *testing.T) {
	inst := smallInstance(t)
	tt, err := FromAssignment(inst, &IDSource{}, map[int]int{1: 1, 2: 3, 3: 2, 4: 5, 5: 1, 6: 1})
	require.NoError(t, err)
	tt.computeSlotPenalties()
	// pair 1-2 is worth 8*3 in slots 1 and 3, pair 3-4 is worth 4*2 in slots 2 and 5
	assert.Equal(t, []int64{0, 24, 8, 24, 0, 8}, tt.slotPenalty)
}
