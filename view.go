package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	appNameStyle = lipgloss.NewStyle().Background(lipgloss.Color("99")).Padding(0, 1)

	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Faint(true)

	enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).MarginRight(1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// Form styles
	formLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Width(14)
	formFieldStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(40)
	activeFieldStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(0, 1).Width(40)
	selectingFieldStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208")).Padding(0, 1).Width(40)
	focusedLineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
)

func (m model) View() string {
	s := appNameStyle.Render("Category Picker") + "\n\n"

	switch m.state {
	case menuView:
		s += headerStyle.Render("Pick categories ('p')") + "\n"
		s += headerStyle.Render("Import NIGP categories ('i')") + "\n"
		s += headerStyle.Render("Saved selections ('h')") + "\n"
		s += headerStyle.Render("Quit ('q')") + "\n\n"
		if m.store != nil {
			s += faintStyle.Render("Database: "+m.store.path) + "\n"
		}
		s += faintStyle.Render(fmt.Sprintf("%d categories loaded", len(m.lookup.Categories)))
	case formView:
		s += m.renderForm()
	case filePickerView:
		s += headerStyle.Render("Select NIGP CSV File") + "\n\n"
		s += faintStyle.Render("Current Directory: "+m.currentDir) + "\n\n"

		if len(m.dirEntries) == 0 {
			s += faintStyle.Render("No directories or CSV files found in this location.") + "\n\n"
		}
		for i, entry := range m.dirEntries {
			prefix := "  "
			if i == m.fileIndex {
				prefix = "> "
			}
			fullPath := filepath.Join(m.currentDir, entry)
			if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
				s += enumeratorStyle.Render(prefix) + headerStyle.Render(entry+"/") + "\n"
			} else {
				s += enumeratorStyle.Render(prefix) + entry + "\n"
			}
		}
		if m.importMessage != "" {
			s += "\n" + renderMessage(m.importMessage) + "\n"
		}
		s += "\n" + faintStyle.Render("Up/Down: Navigate | Enter: Select | Esc: Cancel")
	case importView:
		s += headerStyle.Render("Import") + "\n\n"
		s += renderMessage(m.importMessage) + "\n\n"
		s += faintStyle.Render("f: Import another file | Enter/Esc: Return to menu")
	case historyView:
		s += m.renderHistory()
	}
	return s
}

func renderMessage(msg string) string {
	if strings.Contains(msg, "Error") {
		return errorStyle.Render(msg)
	}
	return successStyle.Render(msg)
}

// renderForm lays out every row as lines and scrolls them so the focused
// line stays visible.
func (m model) renderForm() string {
	var lines []string
	focusLine := 0
	current, _ := m.currentTarget()
	addedRows := 0

	if m.form.Restoring() {
		lines = append(lines, headerStyle.Render("Review your previous selection"), "")
	}

	for _, r := range m.form.Rows() {
		focused := current.kind == focusSelector && current.rowID == r.ID && m.form.Editable()
		if focused {
			focusLine = len(lines)
		}
		lines = append(lines, m.renderSelector(r, focused))

		if m.isSelectingCategory && m.selectingRowID == r.ID {
			for i, opt := range r.Options {
				prefix := "  "
				if i == m.categorySelectIndex {
					prefix = "> "
					focusLine = len(lines)
				}
				lines = append(lines, "   "+enumeratorStyle.Render(prefix)+m.optionLabel(opt))
			}
		}

		if r.Checklist.HasCheckAll {
			focused := current.kind == focusCheckAll && current.rowID == r.ID
			if focused {
				focusLine = len(lines)
			}
			lines = append(lines, renderCheckLine("Check all", r.Checklist.AllChecked, focused))
		}
		for _, box := range r.Checklist.Boxes {
			focused := current.kind == focusBox && current.rowID == r.ID && current.subID == box.ID
			if focused {
				focusLine = len(lines)
			}
			lines = append(lines, renderCheckLine(box.Label, box.Checked, focused))
		}
		if r.Value != "" && r.Checklist.Empty() && !m.form.Restoring() {
			lines = append(lines, "   "+faintStyle.Render("No subcategories for this category."))
		}
		lines = append(lines, "")
		addedRows++
	}

	if m.form.Editable() && m.form.AddVisible() {
		focused := current.kind == focusAddRow
		if focused {
			focusLine = len(lines)
		}
		label := "+ Add another category"
		if focused {
			lines = append(lines, enumeratorStyle.Render(">")+focusedLineStyle.Render(label))
		} else {
			lines = append(lines, "  "+label)
		}
	}

	s := strings.Join(scrollWindow(lines, focusLine, m.windowHeight-6), "\n") + "\n"

	selected := len(m.form.SelectedIDs())
	s += "\n" + faintStyle.Render(fmt.Sprintf("%d rows | %d subcategories selected", addedRows, selected)) + "\n"
	if m.formMessage != "" {
		s += renderMessage(m.formMessage) + "\n"
	}
	s += m.help.ShortHelpView(m.keys.shortHelp(m.form))
	return s
}

func (m model) renderSelector(r *row, focused bool) string {
	style := formFieldStyle
	if m.isSelectingCategory && m.selectingRowID == r.ID {
		style = selectingFieldStyle
	} else if focused {
		style = activeFieldStyle
	}
	label := formLabelStyle.Render(fmt.Sprintf("Category %d:", r.ID))
	return lipgloss.JoinHorizontal(lipgloss.Center, label, style.Render(m.optionLabel(r.Value)))
}

func (m model) optionLabel(opt string) string {
	if opt == "" {
		return m.placeholder
	}
	return opt
}

func renderCheckLine(label string, checked, focused bool) string {
	mark := "[ ]"
	if checked {
		mark = "[x]"
	}
	if focused {
		return enumeratorStyle.Render(" >") + focusedLineStyle.Render(mark+" "+label)
	}
	return "   " + mark + " " + label
}

// scrollWindow returns at most height lines around focus.
func scrollWindow(lines []string, focus, height int) []string {
	if height <= 0 {
		height = 20 // Fallback minimum
	}
	if len(lines) <= height {
		return lines
	}
	start := focus - height/2
	if start < 0 {
		start = 0
	}
	if start > len(lines)-height {
		start = len(lines) - height
	}
	return lines[start : start+height]
}

func (m model) renderHistory() string {
	s := headerStyle.Render("Saved Selections") + "\n\n"
	if m.historyMessage != "" {
		s += renderMessage(m.historyMessage) + "\n\n"
	}

	if len(m.selections) == 0 {
		s += faintStyle.Render("No saved selections.") + "\n"
	}
	for i, sel := range m.selections {
		prefix := "  "
		if i == m.historyIndex {
			prefix = "> "
		}
		s += enumeratorStyle.Render(prefix) + fmt.Sprintf("%s | %s | %d subcategories",
			shortID(sel.ID), sel.CreatedAt.Local().Format("2006-01-02 15:04"), len(sel.SubcategoryIDs)) + "\n"
	}

	s += "\n" + headerStyle.Render("Imports") + "\n\n"
	if len(m.imports) == 0 {
		s += faintStyle.Render("No imports yet.") + "\n"
	}
	for _, imp := range m.imports {
		s += fmt.Sprintf("  %s | %s | %d new | %s\n", imp.ImportedAt, imp.Filename, imp.RowCount, imp.Status)
	}

	s += "\n" + faintStyle.Render("Up/Down: Navigate | Enter: Reopen selection | Esc: Return to menu")
	return s
}
