package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seatCategories() []Category {
	return []Category{
		{Label: "Adult", Min: 1, ConsumesInventory: true, DefaultTitle: "Mr"},
		{Label: "Child", Min: 0, ConsumesInventory: true, DefaultTitle: "Miss"},
		{Label: "Infant", Min: 0, ConsumesInventory: false, DefaultTitle: "Inf"},
	}
}

func TestApplyDeltaAccept(t *testing.T) {
	cats := seatCategories()
	counts := Counts{"Adult": 1, "Child": 0, "Infant": 0}

	res := ApplyDelta(counts, cats, "Adult", 1, 4)
	assert.True(t, res.Applied)
	assert.Equal(t, 2, res.Counts["Adult"])
	assert.Equal(t, 1, counts["Adult"], "input counts must not be mutated")

	res = ApplyDelta(res.Counts, cats, "Child", 1, 4)
	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.Counts["Child"])
	assert.Equal(t, 3, ConsumingTotal(res.Counts, cats))
}

func TestApplyDeltaRejectsAtCeiling(t *testing.T) {
	cats := []Category{{Label: "Adult", Min: 1, ConsumesInventory: true}}
	counts := Counts{"Adult": 5}

	res := ApplyDelta(counts, cats, "Adult", 1, 5)
	assert.False(t, res.Applied)
	assert.Equal(t, RejectInventoryExceeded, res.Reason)
	assert.Equal(t, Counts{"Adult": 5}, res.Counts)
}

func TestApplyDeltaRejectsBelowMinimum(t *testing.T) {
	cats := seatCategories()
	counts := Counts{"Adult": 1, "Child": 0, "Infant": 0}

	res := ApplyDelta(counts, cats, "Adult", -1, 10)
	assert.False(t, res.Applied)
	assert.Equal(t, RejectBelowMinimum, res.Reason)
	assert.Equal(t, 1, res.Counts["Adult"])

	res = ApplyDelta(counts, cats, "Child", -1, 10)
	assert.False(t, res.Applied)
	assert.Equal(t, RejectBelowMinimum, res.Reason)
}

func TestMinimumConsuming(t *testing.T) {
	assert.Equal(t, 1, MinimumConsuming(seatCategories()))
	assert.Equal(t, 0, MinimumConsuming(nil))
	assert.Equal(t, 2, MinimumConsuming([]Category{
		{Label: "Adult", Min: 2, ConsumesInventory: true},
		{Label: "Infant", Min: 1, ConsumesInventory: false},
	}))
}

func TestApplyDeltaUnknownCategory(t *testing.T) {
	res := ApplyDelta(Counts{"Adult": 1}, seatCategories(), "Senior", 1, 10)
	assert.False(t, res.Applied)
	assert.Equal(t, RejectUnknownCategory, res.Reason)
}

func TestApplyDeltaInfantsSkipInventory(t *testing.T) {
	cats := seatCategories()
	counts := Counts{"Adult": 4, "Child": 0, "Infant": 0}

	// block full for seats, lap infants still board
	res := ApplyDelta(counts, cats, "Infant", 1, 4)
	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.Counts["Infant"])
	assert.Equal(t, 4, ConsumingTotal(res.Counts, cats))

	res = ApplyDelta(res.Counts, cats, "Child", 1, 4)
	assert.False(t, res.Applied)
	assert.Equal(t, RejectInventoryExceeded, res.Reason)
}

// The ceiling invariant holds over any sequence of deltas because every
// accepted step re-derives the projected consumption from scratch.
func TestApplyDeltaSequenceNeverExceedsCeiling(t *testing.T) {
	cats := seatCategories()
	counts := Counts{"Adult": 1, "Child": 0, "Infant": 0}
	const ceiling = 3

	deltas := []struct {
		label string
		delta int
	}{
		{"Adult", 1}, {"Child", 1}, {"Adult", 1}, {"Child", 1},
		{"Infant", 1}, {"Adult", -1}, {"Child", 1}, {"Adult", 1},
	}
	for _, step := range deltas {
		res := ApplyDelta(counts, cats, step.label, step.delta, ceiling)
		if res.Applied {
			counts = res.Counts
		}
		assert.LessOrEqual(t, ConsumingTotal(counts, cats), ceiling)
		assert.GreaterOrEqual(t, counts["Adult"], 1)
	}
}
