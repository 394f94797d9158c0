package main

import "testing"

func checkedStates(r *row) []bool {
	out := make([]bool, len(r.Checklist.Boxes))
	for i, box := range r.Checklist.Boxes {
		out[i] = box.Checked
	}
	return out
}

func allEqual(states []bool, want bool) bool {
	for _, s := range states {
		if s != want {
			return false
		}
	}
	return true
}

func TestToggleAllFlipsOnlyItsRow(t *testing.T) {
	f := newForm(fruitLookup(), nil, "Fruit")
	second := f.addRow()
	f.onCategoryChanged(second, "Fruit")

	first, _ := f.Row(1)
	other, _ := f.Row(second)

	if !f.toggleAll(1) {
		t.Fatal("row 1 should have a check-all control")
	}
	if !allEqual(checkedStates(first), false) || first.Checklist.AllChecked {
		t.Errorf("first click should uncheck row 1: %v", checkedStates(first))
	}
	if !allEqual(checkedStates(other), true) || !other.Checklist.AllChecked {
		t.Errorf("row %d must be untouched: %v", second, checkedStates(other))
	}

	f.toggleAll(1)
	if !allEqual(checkedStates(first), true) || !first.Checklist.AllChecked {
		t.Errorf("second click should recheck row 1: %v", checkedStates(first))
	}
}

func TestToggleAllFiresOnceAfterRegeneration(t *testing.T) {
	f := newForm(fruitLookup(), nil, "Fruit")

	// Regenerate the checklist several times, as repeated category
	// changes and row additions would.
	for i := 0; i < 3; i++ {
		f.onCategoryChanged(1, "Veg")
		f.onCategoryChanged(1, "Fruit")
		f.addRow()
	}

	r, _ := f.Row(1)
	before := checkedStates(r)

	for round := 0; round < 2; round++ {
		f.toggleAll(1)
		if !allEqual(checkedStates(r), false) {
			t.Fatalf("round %d: one click should uncheck everything once, got %v", round, checkedStates(r))
		}
		f.toggleAll(1)
		after := checkedStates(r)
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("round %d: two clicks should restore state, before=%v after=%v", round, before, after)
			}
		}
	}
}

func TestToggleAllUsesOwnStateNotChildren(t *testing.T) {
	f := newForm(fruitLookup(), nil, "Fruit")
	r, _ := f.Row(1)

	// Uncheck every box by hand; the control still believes it is checked.
	f.toggleBox(1, "f1")
	f.toggleBox(1, "f2")
	if !r.Checklist.AllChecked {
		t.Fatal("individual toggles must not change the check-all state")
	}

	f.toggleAll(1)
	if !allEqual(checkedStates(r), false) || r.Checklist.AllChecked {
		t.Errorf("control in checked state should uncheck all, got %v", checkedStates(r))
	}
}

func TestToggleAllInertWithoutControl(t *testing.T) {
	f := newForm(fiveLookup(), NewRestoreSet("s2"), "")
	r, _ := f.Row(1)
	before := checkedStates(r)

	if f.toggleAll(1) {
		t.Error("restore mode rows have no check-all control")
	}
	if f.toggleAll(99) {
		t.Error("unknown row should be ignored")
	}

	after := checkedStates(r)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("state changed: before=%v after=%v", before, after)
		}
	}
}
