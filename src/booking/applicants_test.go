package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileMatchesCounts(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)

	counts := Counts{"Adult": 2, "Child": 1, "Infant": 1}
	list.Reconcile(counts, cats)

	assert.Equal(t, 4, list.Len())
	assert.Equal(t, counts, list.CountsByCategory())

	flat := list.Flatten()
	labels := make([]string, 0, len(flat))
	for _, a := range flat {
		labels = append(labels, a.Category)
	}
	assert.Equal(t, []string{"Adult", "Adult", "Child", "Infant"}, labels)
}

func TestReconcileIdempotent(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)
	counts := Counts{"Adult": 2, "Child": 1, "Infant": 0}

	list.Reconcile(counts, cats)
	assert.NoError(t, list.SetField(0, "first_name", "Ali"))
	before := list.Flatten()

	list.Reconcile(counts, cats)
	assert.Equal(t, before, list.Flatten())
}

func TestReconcilePreservesSurvivors(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)

	counts := Counts{"Adult": 2, "Child": 0, "Infant": 0}
	list.Reconcile(counts, cats)
	assert.NoError(t, list.SetField(0, "first_name", "Ali"))
	assert.NoError(t, list.SetField(1, "first_name", "Sara"))

	counts["Adult"] = 3
	list.Reconcile(counts, cats)
	assert.Equal(t, 3, list.Len())
	assert.Equal(t, "", list.Flatten()[2].Field("first_name"))

	counts["Adult"] = 2
	list.Reconcile(counts, cats)
	flat := list.Flatten()
	assert.Equal(t, 2, len(flat))
	assert.Equal(t, "Ali", flat[0].Field("first_name"))
	assert.Equal(t, "Sara", flat[1].Field("first_name"))
}

func TestReconcileShrinksFromCategoryTail(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)

	counts := Counts{"Adult": 2, "Child": 2, "Infant": 0}
	list.Reconcile(counts, cats)
	// flat order: A0 A1 C0 C1
	assert.NoError(t, list.SetField(2, "first_name", "Nour"))
	assert.NoError(t, list.SetField(3, "first_name", "Lina"))

	counts["Child"] = 1
	list.Reconcile(counts, cats)

	flat := list.Flatten()
	assert.Equal(t, 3, len(flat))
	// Lina was the newest Child entry, Nour survives untouched
	assert.Equal(t, "Nour", flat[2].Field("first_name"))
	assert.Equal(t, "Child", flat[2].Category)
}

func TestReconcileDoesNotDisturbOtherCategories(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)

	counts := Counts{"Adult": 1, "Child": 1, "Infant": 1}
	list.Reconcile(counts, cats)
	assert.NoError(t, list.SetField(0, "first_name", "Omar"))
	assert.NoError(t, list.SetField(2, "first_name", "Baby"))

	counts["Child"] = 0
	list.Reconcile(counts, cats)

	flat := list.Flatten()
	assert.Equal(t, 2, len(flat))
	assert.Equal(t, "Omar", flat[0].Field("first_name"))
	assert.Equal(t, "Baby", flat[1].Field("first_name"))
	assert.Equal(t, "Infant", flat[1].Category)
}

func TestNewRecordsGetDefaultTitles(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)

	list.Reconcile(Counts{"Adult": 1, "Child": 1, "Infant": 0}, cats)
	flat := list.Flatten()
	assert.Equal(t, "Mr", flat[0].Field("title"))
	assert.Equal(t, "Miss", flat[1].Field("title"))
}

func TestSetFieldOutOfRange(t *testing.T) {
	cats := seatCategories()
	list := NewApplicantList(cats)
	list.Reconcile(Counts{"Adult": 1}, cats)

	assert.Error(t, list.SetField(-1, "first_name", "x"))
	assert.Error(t, list.SetField(1, "first_name", "x"))
}
