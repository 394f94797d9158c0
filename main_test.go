package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestImportAndListCategories(t *testing.T) {
	isolateConfig(t)
	db := filepath.Join(t.TempDir(), "picker.db")
	csvPath := writeCSV(t, nigpCSV)

	out, err := runCmd(t, "--db", db, "import", csvPath)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "imported 3 new subcategories") {
		t.Errorf("unexpected import output: %q", out)
	}

	out, err = runCmd(t, "--db", db, "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	var lookup Lookup
	if err := json.Unmarshal([]byte(out), &lookup); err != nil {
		t.Fatalf("decode categories: %v\n%s", err, out)
	}
	if len(lookup.Categories) != 2 || len(lookup.Subcategories[SelectAllCategory]) != 3 {
		t.Errorf("unexpected lookup: %+v", lookup)
	}
}

func TestSelectionsEmptyList(t *testing.T) {
	isolateConfig(t)
	out, err := runCmd(t, "--db", filepath.Join(t.TempDir(), "picker.db"), "selections")
	if err != nil {
		t.Fatalf("selections: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("got %q, want []", out)
	}
}

func TestConfigInit(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCmd(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output %q should name %s", out, path)
	}
	if _, err := runCmd(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

func TestResolveRestoreSet(t *testing.T) {
	st := newTestStore(t)
	ctx := t.Context()

	set, err := resolveRestoreSet(ctx, st, &App{Restore: " 4, 9 ,,"})
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 || !set["4"] || !set["9"] {
		t.Errorf("explicit restore set = %v", set)
	}

	set, err = resolveRestoreSet(ctx, st, &App{Resume: true})
	if err != nil || set.Active() {
		t.Errorf("resume with nothing saved: %v, %v", set, err)
	}

	if _, err := st.SaveSelection(ctx, []string{"7"}); err != nil {
		t.Fatal(err)
	}
	set, err = resolveRestoreSet(ctx, st, &App{Resume: true})
	if err != nil || !set["7"] {
		t.Errorf("resume should load the latest selection, got %v, %v", set, err)
	}

	set, _ = resolveRestoreSet(ctx, st, &App{})
	if set.Active() {
		t.Error("no flags should give an empty restore set")
	}
}

func TestCategoriesRecords(t *testing.T) {
	isolateConfig(t)
	db := filepath.Join(t.TempDir(), "picker.db")
	if _, err := runCmd(t, "--db", db, "import", writeCSV(t, nigpCSV)); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "--db", db, "categories", "--records")
	if err != nil {
		t.Fatalf("categories --records: %v", err)
	}
	var recs []CategoryRecord
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode records: %v\n%s", err, out)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[0].FriendlyName != "Trucks" || len(recs[0].NIGPCodes) != 2 || recs[0].NIGPCodes[1] != 200 {
		t.Errorf("unexpected first record: %+v", recs[0])
	}
	if recs[2].Examples != "copy paper" {
		t.Errorf("examples = %q", recs[2].Examples)
	}
}

func TestNewAppModel(t *testing.T) {
	ctx := t.Context()
	st := newTestStore(t)
	if _, err := st.ImportCategoriesFromCSV(ctx, writeCSV(t, nigpCSV)); err != nil {
		t.Fatal(err)
	}
	cfg := Config{UI: UIConfig{Placeholder: "pick", DefaultCategory: "Vehicels"}}

	m, err := newAppModel(ctx, cfg, st, &App{})
	if err != nil {
		t.Fatal(err)
	}
	if m.form.Restoring() || m.placeholder != "pick" {
		t.Errorf("expected a normal form with the configured placeholder")
	}
	if !strings.Contains(m.formMessage, `did you mean "Vehicles"`) {
		t.Errorf("formMessage = %q", m.formMessage)
	}

	cfg.UI.DefaultCategory = "Office"
	m, err = newAppModel(ctx, cfg, st, &App{Restore: "1,3"})
	if err != nil {
		t.Fatal(err)
	}
	if !m.form.Restoring() || m.formMessage != "" {
		t.Fatalf("--restore should build a restore form without warnings, message=%q", m.formMessage)
	}
	r := m.form.Rows()[0]
	if r.Value != "Office" || r.Checklist.Category != SelectAllCategory {
		t.Errorf("restored row: value=%q category=%q", r.Value, r.Checklist.Category)
	}
	if got := m.form.SelectedIDs(); len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Errorf("SelectedIDs() = %v, want [1 3]", got)
	}

	if _, err := st.SaveSelection(ctx, []string{"2"}); err != nil {
		t.Fatal(err)
	}
	m, err = newAppModel(ctx, cfg, st, &App{Resume: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.form.SelectedIDs(); len(got) != 1 || got[0] != "2" {
		t.Errorf("--resume SelectedIDs() = %v, want [2]", got)
	}
}
