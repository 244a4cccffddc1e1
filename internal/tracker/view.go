package tracker

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// ViewOptions selects the derived projection of the list.
type ViewOptions struct {
	Sort  bool
	Group bool
}

// Group is one class partition of a derived view. When grouping is off the
// view is a single Group with an empty Class.
type Group struct {
	Class       string
	Assignments []Assignment
}

// SortByDue returns a copy of list ordered by calendar due date. The sort is
// stable; records whose date does not parse keep their order after the rest.
func SortByDue(list []Assignment) []Assignment {
	out := cloneList(list)
	slices.SortStableFunc(out, compareDue)
	return out
}

func compareDue(a, b Assignment) int {
	ad, aok := a.Due()
	bd, bok := b.Due()
	switch {
	case aok && bok:
		return ad.Compare(bd)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

// Derive flattens Partition into the display order.
func Derive(list []Assignment, priority []string, opts ViewOptions) []Assignment {
	var out []Assignment
	for _, g := range Partition(list, priority, opts) {
		out = append(out, g.Assignments...)
	}
	if out == nil {
		out = []Assignment{}
	}
	return out
}

// Partition projects list without modifying it. With Group set, records are
// split by class in priority order; classes missing from priority follow in
// alphabetical order rather than being dropped.
func Partition(list []Assignment, priority []string, opts ViewOptions) []Group {
	rows := cloneList(list)
	if opts.Sort {
		rows = SortByDue(rows)
	}
	if !opts.Group {
		return []Group{{Assignments: rows}}
	}

	byClass := make(map[string][]Assignment)
	for _, a := range rows {
		byClass[a.Class] = append(byClass[a.Class], a)
	}

	groups := make([]Group, 0, len(byClass))
	for _, class := range priority {
		if members, ok := byClass[class]; ok {
			groups = append(groups, Group{Class: class, Assignments: members})
			delete(byClass, class)
		}
	}

	rest := make([]string, 0, len(byClass))
	for class := range byClass {
		rest = append(rest, class)
	}
	slices.SortFunc(rest, cmp.Compare[string])
	for _, class := range rest {
		groups = append(groups, Group{Class: class, Assignments: byClass[class]})
	}
	return groups
}

// DueLabel formats the due date relative to today, e.g. "Fri 05 Sep (in 3 days)".
func DueLabel(a Assignment, today time.Time) string {
	due, ok := a.Due()
	if !ok {
		return a.DueDate
	}

	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(base).Hours() / 24)

	var rel string
	switch {
	case days < 0:
		rel = "overdue"
	case days == 0:
		rel = "today"
	case days == 1:
		rel = "tomorrow"
	default:
		rel = fmt.Sprintf("in %d days", days)
	}
	return fmt.Sprintf("%s (%s)", due.Format("Mon 02 Jan"), rel)
}
