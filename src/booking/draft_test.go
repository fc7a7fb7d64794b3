package booking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftSeedsMinimums(t *testing.T) {
	cats := seatCategories()
	draft := NewDraft(3, d(1500), 10, cats, nil)

	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, Counts{"Adult": 1, "Child": 0, "Infant": 0}, draft.Counts)
	assert.Equal(t, 1, draft.Applicants.Len())
	assert.Equal(t, "1500", draft.Amounts().Total.String())
}

func TestDraftQuantityDeltaKeepsListInSync(t *testing.T) {
	cats := seatCategories()
	draft := NewDraft(3, d(1500), 3, cats, nil)

	res := draft.ApplyQuantityDelta("Adult", 1)
	assert.True(t, res.Applied)
	assert.Equal(t, 2, draft.Applicants.Len())
	assert.Equal(t, "3000", draft.Amounts().Total.String())

	res = draft.ApplyQuantityDelta("Adult", 2)
	assert.False(t, res.Applied)
	assert.Equal(t, RejectInventoryExceeded, res.Reason)
	assert.Equal(t, 2, draft.Applicants.Len(), "rejected delta must not touch the list")
}

func TestDraftDiscount(t *testing.T) {
	draft := NewDraft(3, d(1500), 5, seatCategories(), nil)
	assert.Error(t, draft.SetDiscount(d(-1)))

	require.NoError(t, draft.SetDiscount(d(500)))
	assert.Equal(t, "1000", draft.Amounts().Final.String())

	// discount past the total floors payable at zero
	require.NoError(t, draft.SetDiscount(d(99999)))
	assert.Equal(t, "0", draft.Amounts().Final.String())
	assert.Equal(t, "1500", draft.Amounts().Total.String())
}

func TestDraftSubmitGuard(t *testing.T) {
	draft := NewDraft(3, d(1500), 5, seatCategories(), nil)

	require.NoError(t, draft.BeginSubmit())
	assert.ErrorIs(t, draft.BeginSubmit(), ErrSubmitInFlight)

	draft.EndSubmit()
	assert.NoError(t, draft.BeginSubmit())
}

func TestDraftSurvivesJSONRoundTrip(t *testing.T) {
	cats := seatCategories()
	draft := NewDraft(3, d(1500), 5, cats, []FieldRule{{Field: "first_name"}})
	draft.ApplyQuantityDelta("Adult", 1)
	require.NoError(t, draft.SetApplicantField(0, "first_name", "Ali"))

	b, err := json.Marshal(draft)
	require.NoError(t, err)

	var restored Draft
	require.NoError(t, json.Unmarshal(b, &restored))

	assert.Equal(t, draft.ID, restored.ID)
	assert.Equal(t, draft.Counts, restored.Counts)
	assert.Equal(t, "Ali", restored.Applicants.Flatten()[0].Field("first_name"))
	assert.True(t, draft.UnitPrice.Equal(restored.UnitPrice))

	// edits keep working on the restored state
	res := restored.ApplyQuantityDelta("Child", 1)
	assert.True(t, res.Applied)
	assert.Equal(t, 3, restored.Applicants.Len())
}
