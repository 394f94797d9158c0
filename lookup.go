package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/samber/lo"
)

// SelectAllCategory is the synthetic category listing every subcategory.
const SelectAllCategory = "Select All"

type Subcategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Lookup holds the tables a form is built from. Categories never
// contains SelectAllCategory; Subcategories may.
type Lookup struct {
	Categories    []string                 `json:"categories"`
	Subcategories map[string][]Subcategory `json:"subcategories"`
}

// CategoryRecord is one stored NIGP subcategory row.
type CategoryRecord struct {
	ID           int64  `json:"id"`
	NIGPCodes    []int  `json:"nigpCodes"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory,omitempty"`
	FriendlyName string `json:"friendlyName"`
	Examples     string `json:"examples,omitempty"`
}

func BuildLookup(records []CategoryRecord) Lookup {
	seen := make(map[string]bool)
	lookup := Lookup{Subcategories: make(map[string][]Subcategory)}

	for _, rec := range records {
		if rec.Category == "" {
			continue
		}
		if !seen[rec.Category] {
			seen[rec.Category] = true
			lookup.Categories = append(lookup.Categories, rec.Category)
		}
		id := fmt.Sprintf("%d", rec.ID)
		lookup.Subcategories[rec.Category] = append(lookup.Subcategories[rec.Category],
			Subcategory{ID: id, Label: rec.FriendlyName})
		lookup.Subcategories[SelectAllCategory] = append(lookup.Subcategories[SelectAllCategory],
			Subcategory{ID: id, Label: fmt.Sprintf("%s - %s", rec.FriendlyName, rec.Category)})
	}

	sort.Strings(lookup.Categories)
	return lookup
}

// Entries returns the subcategories listed for category, if any.
func (l Lookup) Entries(category string) ([]Subcategory, bool) {
	subs, ok := l.Subcategories[category]
	return subs, ok
}

// Known reports whether category can be chosen from a selector.
func (l Lookup) Known(category string) bool {
	return lo.Contains(l.Categories, category) || (category == SelectAllCategory && l.HasSelectAll())
}

func (l Lookup) HasSelectAll() bool {
	_, ok := l.Subcategories[SelectAllCategory]
	return ok
}

// closestCategory returns the known category nearest to name by edit
// distance, ignoring case. ok is false when there are no categories.
func (l Lookup) closestCategory(name string) (string, bool) {
	best, bestDist := "", -1
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range l.Categories {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}
