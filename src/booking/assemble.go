package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateFieldLayout = "2006-01-02"

type FieldKind string

const (
	FieldText FieldKind = "text"
	FieldDate FieldKind = "date"
)

// FieldRule declares one required field on a listing. An empty Categories
// slice applies the rule to every category. Date-kind rules may demand a
// minimum remaining validity, e.g. a passport that must outlive the trip
// by six months.
type FieldRule struct {
	Field             string    `json:"field"`
	Categories        []string  `json:"categories,omitempty"`
	Kind              FieldKind `json:"kind,omitempty"`
	MinValidityMonths int       `json:"min_validity_months,omitempty"`
}

func (r *FieldRule) appliesTo(category string) bool {
	if len(r.Categories) == 0 {
		return true
	}
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

type FieldViolation struct {
	Index    int    `json:"index"`
	Category string `json:"category,omitempty"`
	Field    string `json:"field"`
	Reason   string `json:"reason"`
}

// ValidationError aggregates every violated field so the dialog can
// highlight all problems at once instead of one per round trip.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("applicant %d (%s): %s %s", v.Index, v.Category, v.Field, v.Reason))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

type CategoryBreakdown struct {
	Label             string `json:"label"`
	Count             int    `json:"count"`
	ConsumesInventory bool   `json:"consumes_inventory"`
}

// Payload is the assembled, validated booking request ready for the
// submission endpoint. It is a value snapshot; nothing mutates it after
// Assemble returns.
type Payload struct {
	ListingID  uint                `json:"listing_id"`
	Breakdown  []CategoryBreakdown `json:"breakdown"`
	Applicants []Applicant         `json:"applicants"`
	SeatsTaken int                 `json:"seats_taken"`
	Total      decimal.Decimal     `json:"total_amount"`
	Final      decimal.Decimal     `json:"final_amount"`
}

func checkField(v *Applicant, index int, rule *FieldRule, now time.Time) *FieldViolation {
	value := strings.TrimSpace(v.Field(rule.Field))
	if value == "" {
		return &FieldViolation{Index: index, Category: v.Category, Field: rule.Field, Reason: "required"}
	}
	if rule.Kind == FieldDate {
		d, err := time.Parse(DateFieldLayout, value)
		if err != nil {
			return &FieldViolation{Index: index, Category: v.Category, Field: rule.Field, Reason: "invalid date"}
		}
		if rule.MinValidityMonths > 0 && d.Before(now.AddDate(0, rule.MinValidityMonths, 0)) {
			return &FieldViolation{
				Index:    index,
				Category: v.Category,
				Field:    rule.Field,
				Reason:   fmt.Sprintf("must be valid for at least %d more months", rule.MinValidityMonths),
			}
		}
	}
	return nil
}

// Assemble validates the applicant list against the listing's field rules
// and packages the outbound payload. It performs no I/O; every violated
// field is reported, not just the first.
func Assemble(listingID uint, list *ApplicantList, counts Counts, cats []Category, amounts Amounts, rules []FieldRule, ceiling int, now time.Time) (*Payload, error) {
	violations := []FieldViolation{}

	derived := list.CountsByCategory()
	for _, c := range cats {
		if derived[c.Label] != counts[c.Label] {
			violations = append(violations, FieldViolation{
				Index:    -1,
				Category: c.Label,
				Field:    "quantity",
				Reason:   "applicant list out of sync with counts",
			})
		}
	}
	if ConsumingTotal(counts, cats) > ceiling {
		violations = append(violations, FieldViolation{
			Index:  -1,
			Field:  "quantity",
			Reason: "requested seats exceed available inventory",
		})
	}

	for i, a := range list.Flatten() {
		for r := range rules {
			if !rules[r].appliesTo(a.Category) {
				continue
			}
			if v := checkField(&a, i, &rules[r], now); v != nil {
				violations = append(violations, *v)
			}
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	breakdown := make([]CategoryBreakdown, 0, len(cats))
	for _, c := range cats {
		breakdown = append(breakdown, CategoryBreakdown{
			Label:             c.Label,
			Count:             counts[c.Label],
			ConsumesInventory: c.ConsumesInventory,
		})
	}
	return &Payload{
		ListingID:  listingID,
		Breakdown:  breakdown,
		Applicants: list.Flatten(),
		SeatsTaken: ConsumingTotal(counts, cats),
		Total:      amounts.Total,
		Final:      amounts.Final,
	}, nil
}
