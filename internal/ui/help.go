package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{title: "Navigation", bindings: []key.Binding{m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom, m.keys.Escape}},
		{title: "Catalog", bindings: []key.Binding{m.keys.Toggle, m.keys.Unselect, m.keys.Delete, m.keys.Share, m.keys.Open, m.keys.Add, m.keys.Reload}},
		{title: "Images", bindings: []key.Binding{m.keys.Remove, m.keys.Camera}, extra: []helpItem{{"a", "Add files"}}},
		{title: "Add form", bindings: []key.Binding{m.keys.NextField, m.keys.PrevField, m.keys.Save, m.keys.Capture}, extra: []helpItem{{"enter", "Add files from Library"}}},
		{title: "General", bindings: []key.Binding{m.keys.Activity, m.keys.CycleTheme, m.keys.Help, m.keys.Quit}},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items() {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title    string
	bindings []key.Binding
	extra    []helpItem
}

type helpItem struct {
	key  string
	desc string
}

func (s helpSection) items() []helpItem {
	items := make([]helpItem, 0, len(s.bindings)+len(s.extra))
	for _, b := range s.bindings {
		h := b.Help()
		items = append(items, helpItem{key: h.Key, desc: h.Desc})
	}
	return append(items, s.extra...)
}
