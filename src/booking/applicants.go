package booking

import "fmt"

// Applicant is one traveler's slot in an open booking dialog. Field values
// are free text; which of them are required is the listing's call, not the
// record's.
type Applicant struct {
	Category string            `json:"category"`
	Fields   map[string]string `json:"fields"`
}

func (a *Applicant) Field(name string) string {
	if a.Fields == nil {
		return ""
	}
	return a.Fields[name]
}

// ApplicantList keeps one contiguous sub-list per category, in the fixed
// category order of the listing. Flattening at read time yields the stable
// category-major ordering the dialog indexes against.
type ApplicantList struct {
	Order  []string               `json:"order"`
	Groups map[string][]Applicant `json:"groups"`
}

func NewApplicantList(cats []Category) *ApplicantList {
	l := &ApplicantList{
		Order:  make([]string, 0, len(cats)),
		Groups: make(map[string][]Applicant, len(cats)),
	}
	for _, c := range cats {
		l.Order = append(l.Order, c.Label)
		l.Groups[c.Label] = []Applicant{}
	}
	return l
}

func newBlankApplicant(cat *Category) Applicant {
	fields := map[string]string{}
	if cat.DefaultTitle != "" {
		fields["title"] = cat.DefaultTitle
	}
	return Applicant{Category: cat.Label, Fields: fields}
}

// Reconcile restores the counts↔list invariant: afterwards every category
// group holds exactly counts[label] records. Growth appends blank records
// at the tail of the category's own group; shrinkage removes from that same
// tail, newest first, so the longest-lived entries survive. Records in
// other groups are never touched, retained records are never mutated.
func (l *ApplicantList) Reconcile(counts Counts, cats []Category) {
	for _, label := range l.Order {
		target := counts[label]
		if target < 0 {
			target = 0
		}
		group := l.Groups[label]
		switch {
		case len(group) < target:
			cat := findCategory(cats, label)
			if cat == nil {
				cat = &Category{Label: label}
			}
			for len(group) < target {
				group = append(group, newBlankApplicant(cat))
			}
		case len(group) > target:
			group = group[:target]
		}
		l.Groups[label] = group
	}
}

// Flatten returns the category-major view the UI indexes by position.
func (l *ApplicantList) Flatten() []Applicant {
	out := make([]Applicant, 0, l.Len())
	for _, label := range l.Order {
		out = append(out, l.Groups[label]...)
	}
	return out
}

func (l *ApplicantList) Len() int {
	n := 0
	for _, label := range l.Order {
		n += len(l.Groups[label])
	}
	return n
}

// SetField edits one field of the record at the given flat position.
func (l *ApplicantList) SetField(index int, field, value string) error {
	if index < 0 || index >= l.Len() {
		return fmt.Errorf("applicant index %d out of range", index)
	}
	for _, label := range l.Order {
		group := l.Groups[label]
		if index < len(group) {
			if group[index].Fields == nil {
				group[index].Fields = map[string]string{}
			}
			group[index].Fields[field] = value
			return nil
		}
		index -= len(group)
	}
	return fmt.Errorf("applicant index out of range")
}

// CountsByCategory re-derives the per-category counts from the list itself.
func (l *ApplicantList) CountsByCategory() Counts {
	counts := Counts{}
	for _, label := range l.Order {
		counts[label] = len(l.Groups[label])
	}
	return counts
}
