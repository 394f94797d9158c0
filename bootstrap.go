package main

import "github.com/charmbracelet/log"

// newForm builds a form in one of two modes, chosen once. A non-empty
// restore set redisplays a prior selection under SelectAllCategory;
// otherwise row 1 is created for editing and initial, when set, is
// applied to it as if the user had picked it.
func newForm(lookup Lookup, restore RestoreSet, initial string) *form {
	f := &form{
		lookup:    lookup,
		restore:   restore,
		rowsByID:  make(map[int]*row),
		nextRowID: 1,
	}

	if restore.Active() {
		f.mode = restoreMode
		f.rows = nil
		first := f.appendRow()
		first.Value = initial
		f.render(first.ID, SelectAllCategory)
		log.Debug("form restored", "ids", len(restore), "boxes", len(first.Checklist.Boxes))
		return f
	}

	f.mode = normalMode
	id := f.addRow()
	if initial != "" {
		f.onCategoryChanged(id, initial)
	}
	log.Debug("form ready", "initial", initial)
	return f
}
