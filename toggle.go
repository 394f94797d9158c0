package main

import "github.com/charmbracelet/log"

// toggleAll handles a press on a row's check-all control. The control's
// own state decides the direction. It reports whether the row had a
// check-all control to act on.
func (f *form) toggleAll(rowID int) bool {
	r, ok := f.rowsByID[rowID]
	if !ok || !r.Checklist.HasCheckAll {
		return false
	}

	next := !r.Checklist.AllChecked
	for i := range r.Checklist.Boxes {
		r.Checklist.Boxes[i].Checked = next
	}
	r.Checklist.AllChecked = next

	log.Debug("check all toggled", "row", rowID, "checked", next)
	return true
}
