package main

import "fmt"

// RestoreSet holds subcategory ids that must come back checked when a
// previously submitted form is redisplayed.
type RestoreSet map[string]bool

func NewRestoreSet(ids ...string) RestoreSet {
	set := make(RestoreSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
	return set
}

// Active reports whether the form must be reconstructed in restore mode.
func (r RestoreSet) Active() bool {
	return len(r) > 0
}

type Checkbox struct {
	ID      string
	Label   string
	Checked bool
}

func (c Checkbox) ElementID() string {
	return "subcategories-" + c.ID
}

// Checklist is the rendered subcategory group of one row.
type Checklist struct {
	RowID       int
	Category    string
	HasCheckAll bool
	AllChecked  bool
	Boxes       []Checkbox
}

func (c Checklist) ContainerID() string {
	return fmt.Sprintf("subcategory-group-%d", c.RowID)
}

func (c Checklist) CheckAllID() string {
	return fmt.Sprintf("check-all-%d", c.RowID)
}

func (c Checklist) Empty() bool {
	return len(c.Boxes) == 0
}

// renderChecklist maps a row's category to its checklist. A category
// without a lookup entry yields an empty checklist.
func renderChecklist(rowID int, category string, lookup Lookup, restore RestoreSet) Checklist {
	list := Checklist{RowID: rowID, Category: category}

	subs, ok := lookup.Entries(category)
	if !ok {
		return list
	}

	restoring := restore.Active()
	if !restoring {
		list.HasCheckAll = true
		list.AllChecked = true
	}

	list.Boxes = make([]Checkbox, 0, len(subs))
	for _, sub := range subs {
		checked := true
		if restoring {
			checked = restore[sub.ID]
		}
		list.Boxes = append(list.Boxes, Checkbox{ID: sub.ID, Label: sub.Label, Checked: checked})
	}
	return list
}
