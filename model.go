package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const (
	menuView uint = iota
	formView
	filePickerView
	importView
	historyView
)

const (
	focusSelector uint = iota
	focusCheckAll
	focusBox
	focusAddRow
)

// focusTarget is one focusable element of the form view.
type focusTarget struct {
	kind  uint
	rowID int
	subID string
}

type model struct {
	state        uint
	ctx          context.Context
	store        *Store
	lookup       Lookup
	form         *form
	windowHeight int
	keys         formKeyMap
	help         help.Model

	placeholder     string
	initialCategory string

	// form navigation
	focusIndex          int
	isSelectingCategory bool
	selectingRowID      int
	categorySelectIndex int
	formMessage         string

	// file explorer
	currentDir    string
	dirEntries    []string
	fileIndex     int
	importMessage string

	// saved selections and import history
	selections     []Selection
	imports        []ImportRecord
	historyIndex   int
	historyMessage string
}

func NewModel(ctx context.Context, store *Store, lookup Lookup, restore RestoreSet, ui UIConfig) model {
	placeholder := ui.Placeholder
	if placeholder == "" {
		placeholder = defaultConfig().UI.Placeholder
	}
	m := model{
		state:           formView,
		ctx:             ctx,
		store:           store,
		lookup:          lookup,
		form:            newForm(lookup, restore, ui.DefaultCategory),
		keys:            newFormKeyMap(),
		help:            help.New(),
		placeholder:     placeholder,
		initialCategory: ui.DefaultCategory,
	}
	if !restore.Active() {
		m.formMessage = unknownCategoryMessage(lookup, ui.DefaultCategory)
	}
	return m
}

// unknownCategoryMessage warns about a default category missing from the
// lookup, suggesting the closest known one. It is empty when c is known.
func unknownCategoryMessage(lookup Lookup, c string) string {
	if c == "" || lookup.Known(c) {
		return ""
	}
	closest, ok := lookup.closestCategory(c)
	log.Warn("unknown default category", "category", c, "closest", closest)
	if !ok {
		return fmt.Sprintf("Unknown category %q", c)
	}
	return fmt.Sprintf("Unknown category %q (did you mean %q?)", c, closest)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		log.Debug("key", "state", m.state, "key", msg.String(), "focus", m.focusIndex)
		switch m.state {
		case menuView:
			return m.handleMenuView(msg.String())
		case formView:
			return m.handleFormView(msg)
		case filePickerView:
			return m.handleFilePickerView(msg.String())
		case importView:
			return m.handleImportView(msg.String())
		case historyView:
			return m.handleHistoryView(msg.String())
		}
	case tea.WindowSizeMsg:
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m model) handleMenuView(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "p":
		m.state = formView
	case "i":
		return m.openFilePicker()
	case "h":
		return m.openHistory()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// Form View --------------------

func (m model) focusTargets() []focusTarget {
	var targets []focusTarget
	for _, r := range m.form.Rows() {
		if m.form.Editable() {
			targets = append(targets, focusTarget{kind: focusSelector, rowID: r.ID})
		}
		if r.Checklist.HasCheckAll {
			targets = append(targets, focusTarget{kind: focusCheckAll, rowID: r.ID})
		}
		for _, box := range r.Checklist.Boxes {
			targets = append(targets, focusTarget{kind: focusBox, rowID: r.ID, subID: box.ID})
		}
	}
	if m.form.Editable() && m.form.AddVisible() {
		targets = append(targets, focusTarget{kind: focusAddRow})
	}
	return targets
}

func (m model) currentTarget() (focusTarget, bool) {
	targets := m.focusTargets()
	if m.focusIndex < 0 || m.focusIndex >= len(targets) {
		return focusTarget{}, false
	}
	return targets[m.focusIndex], true
}

// focusOn moves focus to target if it is present, otherwise clamps.
func (m *model) focusOn(target focusTarget) {
	targets := m.focusTargets()
	for i, t := range targets {
		if t == target {
			m.focusIndex = i
			return
		}
	}
	if m.focusIndex >= len(targets) {
		m.focusIndex = len(targets) - 1
	}
	if m.focusIndex < 0 {
		m.focusIndex = 0
	}
}

func (m model) handleFormView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isSelectingCategory {
		return m.handleCategorySelection(msg.String())
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.focusIndex > 0 {
			m.focusIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.focusIndex < len(m.focusTargets())-1 {
			m.focusIndex++
		}
	case key.Matches(msg, m.keys.Choose):
		return m.handleFieldActivation()
	case key.Matches(msg, m.keys.Toggle):
		return m.handleToggle()
	case key.Matches(msg, m.keys.AddRow):
		return m.handleAddRow()
	case key.Matches(msg, m.keys.Save):
		return m.handleSaveSelection()
	case key.Matches(msg, m.keys.Fresh):
		m.form = newForm(m.lookup, nil, m.initialCategory)
		m.focusIndex = 0
		m.formMessage = ""
	case key.Matches(msg, m.keys.Back):
		m.state = menuView
	}
	return m, nil
}

func (m model) handleFieldActivation() (tea.Model, tea.Cmd) {
	target, ok := m.currentTarget()
	if !ok {
		return m, nil
	}
	switch target.kind {
	case focusSelector:
		return m.enterCategorySelection(target.rowID)
	case focusAddRow:
		return m.handleAddRow()
	}
	return m.handleToggle()
}

func (m model) handleToggle() (tea.Model, tea.Cmd) {
	target, ok := m.currentTarget()
	if !ok {
		return m, nil
	}
	switch target.kind {
	case focusCheckAll:
		m.form.toggleAll(target.rowID)
	case focusBox:
		m.form.toggleBox(target.rowID, target.subID)
	}
	return m, nil
}

func (m model) handleAddRow() (tea.Model, tea.Cmd) {
	if !m.form.Editable() || !m.form.AddVisible() {
		return m, nil
	}
	id := m.form.addRow()
	m.focusOn(focusTarget{kind: focusSelector, rowID: id})
	return m, nil
}

func (m model) enterCategorySelection(rowID int) (tea.Model, tea.Cmd) {
	r, ok := m.form.Row(rowID)
	if !ok || !m.form.Editable() {
		return m, nil
	}
	m.isSelectingCategory = true
	m.selectingRowID = rowID
	m.categorySelectIndex = 0

	// Find current category in list for initial position
	for i, opt := range r.Options {
		if opt == r.Value {
			m.categorySelectIndex = i
			break
		}
	}
	return m, nil
}

func (m model) handleCategorySelection(key string) (tea.Model, tea.Cmd) {
	r, ok := m.form.Row(m.selectingRowID)
	if !ok {
		m.isSelectingCategory = false
		return m, nil
	}

	switch key {
	case "up", "k":
		if m.categorySelectIndex > 0 {
			m.categorySelectIndex--
		}
	case "down", "j":
		if m.categorySelectIndex < len(r.Options)-1 {
			m.categorySelectIndex++
		}
	case "enter":
		if len(r.Options) > 0 {
			m.form.onCategoryChanged(r.ID, r.Options[m.categorySelectIndex])
		}
		m.isSelectingCategory = false
		m.focusOn(focusTarget{kind: focusSelector, rowID: r.ID})
	case "esc":
		m.isSelectingCategory = false
	}
	return m, nil
}

func (m model) handleSaveSelection() (tea.Model, tea.Cmd) {
	ids := m.form.SelectedIDs()
	if m.store == nil {
		m.formMessage = "Error: no database configured"
		return m, nil
	}
	sel, err := m.store.SaveSelection(m.ctx, ids)
	if err != nil {
		log.Error("save selection", "err", err)
		m.formMessage = fmt.Sprintf("Error saving selection: %v", err)
		return m, nil
	}
	log.Info("selection saved", "id", sel.ID, "subcategories", len(ids))
	m.formMessage = fmt.Sprintf("Saved selection %s (%d subcategories)", shortID(sel.ID), len(ids))
	return m, nil
}

// File Picker View --------------------

func (m model) openFilePicker() (tea.Model, tea.Cmd) {
	dir, err := os.Getwd()
	if err != nil {
		dir, _ = os.UserHomeDir()
	}
	m.currentDir = dir
	m.fileIndex = 0
	m.importMessage = ""

	if err := m.loadDirectoryEntries(); err != nil {
		m.importMessage = fmt.Sprintf("Error opening directory: %v", err)
		m.state = importView
		return m, nil
	}
	m.state = filePickerView
	return m, nil
}

func (m model) handleFilePickerView(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.state = menuView
	case "up", "k":
		if m.fileIndex > 0 {
			m.fileIndex--
		}
	case "down", "j":
		if len(m.dirEntries) > 0 && m.fileIndex < len(m.dirEntries)-1 {
			m.fileIndex++
		}
	case "enter":
		if len(m.dirEntries) == 0 || m.fileIndex >= len(m.dirEntries) {
			return m, nil
		}
		selected := m.dirEntries[m.fileIndex]
		fullPath := filepath.Join(m.currentDir, selected)

		if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
			if selected == ".." {
				m.currentDir = filepath.Dir(m.currentDir)
			} else {
				m.currentDir = fullPath
			}
			m.fileIndex = 0
			if err := m.loadDirectoryEntries(); err != nil {
				m.importMessage = fmt.Sprintf("Error opening directory: %v", err)
			}
			return m, nil
		}
		if strings.HasSuffix(strings.ToLower(selected), ".csv") {
			return m.importCategories(fullPath)
		}
	}
	return m, nil
}

func (m *model) loadDirectoryEntries() error {
	entries, err := os.ReadDir(m.currentDir)
	if err != nil {
		return err
	}

	m.dirEntries = []string{}

	// Add parent directory option if not at root
	if m.currentDir != filepath.Dir(m.currentDir) {
		m.dirEntries = append(m.dirEntries, "..")
	}

	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			m.dirEntries = append(m.dirEntries, entry.Name())
		}
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			m.dirEntries = append(m.dirEntries, entry.Name())
		}
	}
	return nil
}

func (m model) importCategories(path string) (tea.Model, tea.Cmd) {
	m.state = importView
	if m.store == nil {
		m.importMessage = "Error: no database configured"
		return m, nil
	}

	added, err := m.store.ImportCategoriesFromCSV(m.ctx, path)
	if err != nil {
		log.Error("import categories", "file", path, "err", err)
		m.importMessage = fmt.Sprintf("Error importing %s: %v", filepath.Base(path), err)
		return m, nil
	}

	lookup, err := m.store.Lookup(m.ctx)
	if err != nil {
		m.importMessage = fmt.Sprintf("Error reloading categories: %v", err)
		return m, nil
	}
	m.lookup = lookup
	m.form = newForm(m.lookup, nil, m.initialCategory)
	m.focusIndex = 0
	m.importMessage = fmt.Sprintf("Imported %d new subcategories from %s (%d categories available)",
		added, filepath.Base(path), len(lookup.Categories))
	return m, nil
}

func (m model) handleImportView(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "enter":
		m.state = menuView
	case "f":
		return m.openFilePicker()
	}
	return m, nil
}

// History View --------------------

func (m model) openHistory() (tea.Model, tea.Cmd) {
	m.state = historyView
	m.historyIndex = 0
	m.historyMessage = ""
	if m.store == nil {
		m.historyMessage = "Error: no database configured"
		return m, nil
	}

	var err error
	if m.selections, err = m.store.Selections(m.ctx); err != nil {
		m.historyMessage = fmt.Sprintf("Error loading selections: %v", err)
		return m, nil
	}
	if m.imports, err = m.store.Imports(m.ctx); err != nil {
		m.historyMessage = fmt.Sprintf("Error loading imports: %v", err)
	}
	return m, nil
}

func (m model) handleHistoryView(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.state = menuView
	case "up", "k":
		if m.historyIndex > 0 {
			m.historyIndex--
		}
	case "down", "j":
		if m.historyIndex < len(m.selections)-1 {
			m.historyIndex++
		}
	case "enter":
		if m.historyIndex < len(m.selections) {
			sel := m.selections[m.historyIndex]
			m.form = newForm(m.lookup, NewRestoreSet(sel.SubcategoryIDs...), "")
			m.focusIndex = 0
			m.formMessage = fmt.Sprintf("Restored selection %s", shortID(sel.ID))
			m.state = formView
		}
	}
	return m, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
