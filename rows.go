package main

import (
	"fmt"

	"github.com/charmbracelet/log"
)

const (
	normalMode uint = iota
	restoreMode
)

type row struct {
	ID int
	// Value is what the selector displays. In restore mode the checklist
	// is rendered for SelectAllCategory regardless of Value.
	Value     string
	Options   []string
	Checklist Checklist
}

func (r *row) SelectorID() string {
	return fmt.Sprintf("categories-%d", r.ID)
}

// form is the in-memory state of one category picker.
type form struct {
	lookup     Lookup
	restore    RestoreSet
	mode       uint
	rows       []*row
	rowsByID   map[int]*row
	nextRowID  int
	addVisible bool
}

func (f *form) Rows() []*row {
	return f.rows
}

func (f *form) Row(id int) (*row, bool) {
	r, ok := f.rowsByID[id]
	return r, ok
}

// Editable reports whether row addition and category changes are wired.
func (f *form) Editable() bool {
	return f.mode == normalMode
}

func (f *form) AddVisible() bool {
	return f.addVisible
}

func (f *form) Restoring() bool {
	return f.mode == restoreMode
}

// appendRow allocates the next row id and appends an empty row.
func (f *form) appendRow() *row {
	r := &row{ID: f.nextRowID}
	f.nextRowID++

	r.Options = append([]string{""}, f.lookup.Categories...)
	if r.ID == 1 && f.lookup.HasSelectAll() {
		r.Options = append(r.Options, SelectAllCategory)
	}
	r.Checklist = Checklist{RowID: r.ID}

	f.rows = append(f.rows, r)
	f.rowsByID[r.ID] = r
	return r
}

// addRow appends a new category row and returns its id.
func (f *form) addRow() int {
	r := f.appendRow()
	f.render(r.ID, r.Value)
	log.Debug("row added", "row", r.ID)
	return r.ID
}

// render regenerates the checklist of one row. Other rows are untouched.
func (f *form) render(rowID int, category string) {
	r, ok := f.rowsByID[rowID]
	if !ok {
		return
	}
	r.Checklist = renderChecklist(rowID, category, f.lookup, f.restore)
}

func (f *form) onCategoryChanged(rowID int, value string) {
	r, ok := f.rowsByID[rowID]
	if !ok {
		return
	}
	r.Value = value
	f.render(rowID, value)

	if value != "" {
		f.addVisible = true
	} else if rowID == 1 {
		f.addVisible = false
	}
	log.Debug("category changed", "row", rowID, "category", value, "boxes", len(r.Checklist.Boxes))
}

// toggleBox flips a single checkbox. The row's check-all state is not
// derived from its boxes and is left alone.
func (f *form) toggleBox(rowID int, subID string) {
	r, ok := f.rowsByID[rowID]
	if !ok {
		return
	}
	for i := range r.Checklist.Boxes {
		if r.Checklist.Boxes[i].ID == subID {
			r.Checklist.Boxes[i].Checked = !r.Checklist.Boxes[i].Checked
			return
		}
	}
}
