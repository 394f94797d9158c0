package main

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const subcategoryFieldPrefix = "subcategories-"

// Values returns the form payload: one field per selector and one "on"
// field per checked subcategory.
func (f *form) Values() url.Values {
	v := url.Values{}
	for _, r := range f.rows {
		v.Set(r.SelectorID(), r.Value)
		for _, box := range r.Checklist.Boxes {
			if box.Checked {
				v.Set(box.ElementID(), "on")
			}
		}
	}
	return v
}

// SelectedIDs returns the checked subcategory ids across all rows.
func (f *form) SelectedIDs() []string {
	return parseSubmission(f.Values())
}

// parseSubmission extracts checked subcategory ids from a payload,
// de-duplicated and sorted. Numeric ids come first in numeric order.
func parseSubmission(values url.Values) []string {
	ids := lo.FilterMap(lo.Keys(values), func(key string, _ int) (string, bool) {
		id, ok := strings.CutPrefix(key, subcategoryFieldPrefix)
		return id, ok && id != "" && lo.Contains(values[key], "on")
	})

	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return ids[i] < ids[j]
	})
	return ids
}
