package booking

// Category describes one passenger/applicant classification on a listing.
// The first category in a listing's set is the primary one and must keep
// a count of at least one while a dialog is open.
type Category struct {
	Label             string `json:"label"`
	Min               int    `json:"min"`
	ConsumesInventory bool   `json:"consumes_inventory"`
	DefaultTitle      string `json:"default_title,omitempty"`
}

type Counts map[string]int

type RejectReason string

const (
	RejectUnknownCategory   RejectReason = "unknown_category"
	RejectBelowMinimum      RejectReason = "below_minimum"
	RejectInventoryExceeded RejectReason = "inventory_exceeded"
)

// DeltaResult is the explicit outcome of a quantity change. Callers decide
// whether a rejection stays silent or gets surfaced to the user.
type DeltaResult struct {
	Counts  Counts       `json:"counts"`
	Applied bool         `json:"applied"`
	Reason  RejectReason `json:"reason,omitempty"`
}

func findCategory(cats []Category, label string) *Category {
	for i := range cats {
		if cats[i].Label == label {
			return &cats[i]
		}
	}
	return nil
}

// MinimumConsuming is the smallest seat count any dialog over these
// categories can hold: the per-category minimums summed over the
// seat-consuming ones. A listing with fewer seats free cannot host a
// dialog at all.
func MinimumConsuming(cats []Category) int {
	total := 0
	for _, c := range cats {
		if c.ConsumesInventory {
			total += c.Min
		}
	}
	return total
}

// ConsumingTotal sums the counts of inventory-consuming categories only.
// Lap infants and the like ride along without claiming a seat.
func ConsumingTotal(counts Counts, cats []Category) int {
	total := 0
	for _, c := range cats {
		if c.ConsumesInventory {
			total += counts[c.Label]
		}
	}
	return total
}

// ApplyDelta validates a requested count change against the per-category
// minimum and the listing's inventory ceiling. The input counts are never
// mutated; on rejection the returned counts equal the input.
func ApplyDelta(counts Counts, cats []Category, label string, delta int, ceiling int) DeltaResult {
	cat := findCategory(cats, label)
	if cat == nil {
		return DeltaResult{Counts: counts.clone(), Applied: false, Reason: RejectUnknownCategory}
	}
	candidate := counts[label] + delta
	if candidate < cat.Min {
		return DeltaResult{Counts: counts.clone(), Applied: false, Reason: RejectBelowMinimum}
	}
	if cat.ConsumesInventory {
		if ConsumingTotal(counts, cats)+delta > ceiling {
			return DeltaResult{Counts: counts.clone(), Applied: false, Reason: RejectInventoryExceeded}
		}
	}
	next := counts.clone()
	next[label] = candidate
	return DeltaResult{Counts: next, Applied: true}
}

func (c Counts) clone() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Total sums every category, seat-consuming or not.
func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}
