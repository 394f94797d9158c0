package main

import (
	"strings"
	"testing"
)

func TestFruitScenario(t *testing.T) {
	f := newForm(fruitLookup(), nil, "")
	f.onCategoryChanged(1, "Fruit")

	r, _ := f.Row(1)
	if !r.Checklist.HasCheckAll || !r.Checklist.AllChecked {
		t.Error("expected one checked check-all control")
	}
	if len(r.Checklist.Boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(r.Checklist.Boxes))
	}
	for i, id := range []string{"f1", "f2"} {
		box := r.Checklist.Boxes[i]
		if box.ID != id || !box.Checked {
			t.Errorf("box %d = %+v, want checked %s", i, box, id)
		}
	}

	f.onCategoryChanged(1, "Veg")
	if !r.Checklist.Empty() || r.Checklist.HasCheckAll {
		t.Errorf("Veg has no lookup entry, expected empty checklist: %+v", r.Checklist)
	}
}

func TestCategoryChangeDiscardsPreviousChecklist(t *testing.T) {
	lookup := Lookup{
		Categories: []string{"A", "B"},
		Subcategories: map[string][]Subcategory{
			"A": {{ID: "a1", Label: "A1"}, {ID: "a2", Label: "A2"}},
			"B": {{ID: "b1", Label: "B1"}},
		},
	}
	f := newForm(lookup, nil, "A")
	f.toggleBox(1, "a2")
	f.onCategoryChanged(1, "B")

	r, _ := f.Row(1)
	for _, box := range r.Checklist.Boxes {
		if strings.HasPrefix(box.ID, "a") {
			t.Errorf("leftover box %s from category A", box.ID)
		}
	}
	if len(r.Checklist.Boxes) != 1 || r.Checklist.Boxes[0].ID != "b1" || !r.Checklist.Boxes[0].Checked {
		t.Errorf("unexpected checklist for B: %+v", r.Checklist.Boxes)
	}
	if !r.Checklist.AllChecked {
		t.Error("check-all state should reset on regeneration")
	}
	if r.Checklist.Category != "B" || r.Value != "B" {
		t.Errorf("row value/category = %q/%q, want B", r.Value, r.Checklist.Category)
	}
}

func TestAddRowAllocatesIncreasingIDs(t *testing.T) {
	f := newForm(fruitLookup(), nil, "Fruit")

	prev := 1
	for i := 0; i < 5; i++ {
		if i == 2 {
			f.onCategoryChanged(1, "")
		}
		id := f.addRow()
		if id != prev+1 {
			t.Fatalf("addRow() = %d, want %d", id, prev+1)
		}
		prev = id
	}

	seen := map[int]bool{}
	for _, r := range f.Rows() {
		if seen[r.ID] {
			t.Fatalf("row id %d reused", r.ID)
		}
		seen[r.ID] = true
		if r.SelectorID() == "" || r.Checklist.RowID != r.ID {
			t.Errorf("row %d has inconsistent ids", r.ID)
		}
	}
	if len(f.Rows()) != 6 {
		t.Errorf("got %d rows, want 6", len(f.Rows()))
	}
}

func TestAddRowStartsEmpty(t *testing.T) {
	f := newForm(BuildLookup(testRecords()), nil, "")
	id := f.addRow()
	r, ok := f.Row(id)
	if !ok {
		t.Fatalf("row %d not indexed", id)
	}
	if r.Value != "" || !r.Checklist.Empty() {
		t.Errorf("new row should start empty: %+v", r)
	}
	if r.SelectorID() != "categories-2" {
		t.Errorf("SelectorID() = %q", r.SelectorID())
	}
	if r.Options[0] != "" {
		t.Error("first option should be the placeholder")
	}
	for _, opt := range r.Options {
		if opt == SelectAllCategory {
			t.Error("added rows must not offer Select All")
		}
	}

	first, _ := f.Row(1)
	if first.Options[len(first.Options)-1] != SelectAllCategory {
		t.Errorf("row 1 should offer Select All last, got %v", first.Options)
	}
}

func TestAddVisibility(t *testing.T) {
	f := newForm(fruitLookup(), nil, "")
	if f.AddVisible() {
		t.Fatal("add control should start hidden")
	}

	f.onCategoryChanged(1, "Fruit")
	if !f.AddVisible() {
		t.Fatal("choosing a category should reveal the add control")
	}

	second := f.addRow()
	f.onCategoryChanged(second, "")
	if !f.AddVisible() {
		t.Error("clearing a later row must not hide the add control")
	}

	f.onCategoryChanged(second, "Veg")
	f.onCategoryChanged(1, "")
	if f.AddVisible() {
		t.Error("clearing row 1 should hide the add control")
	}

	f.onCategoryChanged(second, "Fruit")
	if !f.AddVisible() {
		t.Error("any row getting a category should reveal the add control")
	}
}

func TestOnCategoryChangedUnknownRow(t *testing.T) {
	f := newForm(fruitLookup(), nil, "")
	f.onCategoryChanged(42, "Fruit")
	f.toggleBox(42, "f1")
	if f.AddVisible() {
		t.Error("unknown rows must be ignored")
	}
	if len(f.Rows()) != 1 {
		t.Errorf("got %d rows, want 1", len(f.Rows()))
	}
}
