package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleCollectsEveryViolation(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)
	counts := Counts{"Adult": 2, "Child": 0, "Infant": 0}
	list.Reconcile(counts, cats)

	rules := []FieldRule{
		{Field: "first_name"},
		{Field: "last_name"},
	}
	amounts := ComputeAmounts(d(100), 2, d(0))
	_, err := Assemble(1, list, counts, cats, amounts, rules, 10, time.Now())
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	// two records, two missing fields each
	assert.Len(t, verr.Violations, 4)
}

func TestAssembleDateRules(t *testing.T) {
	cats := []Category{{Label: "Applicant", Min: 1, ConsumesInventory: true}}
	list := NewApplicantList(cats)
	counts := Counts{"Applicant": 1}
	list.Reconcile(counts, cats)

	rules := []FieldRule{
		{Field: "passport_expiry", Kind: FieldDate, MinValidityMonths: 6},
	}
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	amounts := ComputeAmounts(d(100), 1, d(0))

	assert.NoError(t, list.SetField(0, "passport_expiry", "not-a-date"))
	_, err := Assemble(1, list, counts, cats, amounts, rules, 5, now)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid date", verr.Violations[0].Reason)

	// expires within the six-month window
	assert.NoError(t, list.SetField(0, "passport_expiry", "2026-06-01"))
	_, err = Assemble(1, list, counts, cats, amounts, rules, 5, now)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations[0].Reason, "6 more months")

	assert.NoError(t, list.SetField(0, "passport_expiry", "2027-06-01"))
	_, err = Assemble(1, list, counts, cats, amounts, rules, 5, now)
	assert.NoError(t, err)
}

func TestAssembleRulesScopedByCategory(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)
	counts := Counts{"Adult": 1, "Child": 0, "Infant": 1}
	list.Reconcile(counts, cats)

	rules := []FieldRule{
		{Field: "passport_no", Categories: []string{"Adult", "Child"}},
	}
	assert.NoError(t, list.SetField(0, "passport_no", "P1234567"))

	amounts := ComputeAmounts(d(100), 1, d(0))
	payload, err := Assemble(1, list, counts, cats, amounts, rules, 5, time.Now())
	require.NoError(t, err)
	assert.Len(t, payload.Applicants, 2)
}

func TestAssembleCountsOutOfSync(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)
	list.Reconcile(Counts{"Adult": 1}, cats)

	counts := Counts{"Adult": 2}
	amounts := ComputeAmounts(d(100), 2, d(0))
	_, err := Assemble(1, list, counts, cats, amounts, nil, 5, time.Now())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Violations[0].Field)
}

// End-to-end: unit price 10000, 4 seats free, Adult=2 Child=1 plus a lap
// infant; a blank required field on the Child record blocks submission,
// filling it yields the final payload.
func TestAssembleEndToEnd(t *testing.T) {
	cats := seatCategories()
	unitPrice := d(10000)
	counts := Counts{"Adult": 1, "Child": 0, "Infant": 0}
	list := NewApplicantList(cats)
	list.Reconcile(counts, cats)

	const ceiling = 4
	for _, step := range []struct {
		label string
		delta int
	}{{"Adult", 1}, {"Child", 1}} {
		res := ApplyDelta(counts, cats, step.label, step.delta, ceiling)
		require.True(t, res.Applied)
		counts = res.Counts
		list.Reconcile(counts, cats)
	}
	assert.Equal(t, 3, ConsumingTotal(counts, cats))
	assert.Equal(t, 3, list.Len())

	rules := []FieldRule{{Field: "first_name"}}
	require.NoError(t, list.SetField(0, "first_name", "Ali"))
	require.NoError(t, list.SetField(1, "first_name", "Sara"))

	amounts := ComputeAmounts(unitPrice, ConsumingTotal(counts, cats), d(0))
	assert.Equal(t, "30000", amounts.Total.String())

	_, err := Assemble(7, list, counts, cats, amounts, rules, ceiling, time.Now())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "Child", verr.Violations[0].Category)
	assert.Equal(t, "first_name", verr.Violations[0].Field)

	require.NoError(t, list.SetField(2, "first_name", "Nour"))
	payload, err := Assemble(7, list, counts, cats, amounts, rules, ceiling, time.Now())
	require.NoError(t, err)

	assert.Equal(t, uint(7), payload.ListingID)
	assert.Equal(t, 3, payload.SeatsTaken)
	assert.Equal(t, "30000", payload.Final.String())
	byLabel := map[string]CategoryBreakdown{}
	for _, b := range payload.Breakdown {
		byLabel[b.Label] = b
	}
	assert.Equal(t, 2, byLabel["Adult"].Count)
	assert.Equal(t, 1, byLabel["Child"].Count)
	assert.Equal(t, 0, byLabel["Infant"].Count)
	assert.False(t, byLabel["Infant"].ConsumesInventory)
}
