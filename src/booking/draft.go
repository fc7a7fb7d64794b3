package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrSubmitInFlight = errors.New("a submission is already in flight for this draft")

// Draft is the whole state of one open booking dialog: a snapshot of the
// listing's price, inventory and rules taken at dialog-open, plus the
// user-edited counts, applicant records and discount. It belongs to exactly
// one dialog and is discarded unconditionally when that dialog closes.
type Draft struct {
	ID         string          `json:"id"`
	ListingID  uint            `json:"listing_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Available  int             `json:"available"`
	Categories []Category      `json:"categories"`
	Rules      []FieldRule     `json:"rules,omitempty"`
	Counts     Counts          `json:"counts"`
	Applicants *ApplicantList  `json:"applicants"`
	Discount   decimal.Decimal `json:"discount"`
	Submitting bool            `json:"submitting"`
}

// NewDraft opens a dialog: counts start at each category's minimum and the
// applicant list is reconciled to match, so the primary record is already
// on screen.
func NewDraft(listingID uint, unitPrice decimal.Decimal, available int, cats []Category, rules []FieldRule) *Draft {
	counts := Counts{}
	for _, c := range cats {
		counts[c.Label] = c.Min
	}
	list := NewApplicantList(cats)
	list.Reconcile(counts, cats)
	return &Draft{
		ID:         uuid.NewString(),
		ListingID:  listingID,
		UnitPrice:  unitPrice,
		Available:  available,
		Categories: cats,
		Rules:      rules,
		Counts:     counts,
		Applicants: list,
		Discount:   decimal.Zero,
	}
}

// ApplyQuantityDelta runs the bound enforcer and, when the change is
// accepted, reconciles the applicant list to the new counts.
func (d *Draft) ApplyQuantityDelta(label string, delta int) DeltaResult {
	res := ApplyDelta(d.Counts, d.Categories, label, delta, d.Available)
	if res.Applied {
		d.Counts = res.Counts
		d.Applicants.Reconcile(d.Counts, d.Categories)
	}
	return res
}

func (d *Draft) SetApplicantField(index int, field, value string) error {
	return d.Applicants.SetField(index, field, value)
}

func (d *Draft) SetDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return errors.New("discount cannot be negative")
	}
	d.Discount = discount
	return nil
}

// Amounts recomputes the derived totals; only seat-consuming records are
// charged.
func (d *Draft) Amounts() Amounts {
	return ComputeAmounts(d.UnitPrice, ConsumingTotal(d.Counts, d.Categories), d.Discount)
}

// Assemble validates and packages the draft for submission.
func (d *Draft) Assemble(now time.Time) (*Payload, error) {
	return Assemble(d.ListingID, d.Applicants, d.Counts, d.Categories, d.Amounts(), d.Rules, d.Available, now)
}

// BeginSubmit flips the submit guard: while a submission is outstanding no
// second one may start from the same dialog.
func (d *Draft) BeginSubmit() error {
	if d.Submitting {
		return ErrSubmitInFlight
	}
	d.Submitting = true
	return nil
}

func (d *Draft) EndSubmit() {
	d.Submitting = false
}
