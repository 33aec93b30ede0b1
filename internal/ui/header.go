package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status line: logo, current view and catalog counts.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("shelf", styles.Logo),
		bg.Render(m.currentView.String(), styles.AccentText.Bold(true)),
		bg.Render("Products:", styles.MutedText) + bg.Space() +
			bg.Render(fmt.Sprintf("%d", len(m.catalog)), styles.Text),
	}

	if n := m.selection.Len(); n > 0 {
		parts = append(parts,
			bg.Render("Selected:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", n), styles.AccentText))
	}

	if m.currentView == ViewImages && m.session != nil {
		if n := len(m.session.Selected()); n > 0 {
			parts = append(parts,
				bg.Render("Images selected:", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", n), styles.AccentText))
		}
	}

	if m.busy {
		parts = append(parts, bg.Render("● working", styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewAdd:
		commands = []cmd{
			{"tab", "Next field"},
			{"enter", "Add files"},
			{"ctrl+t", "Photo"},
			{"x", "Remove"},
			{"ctrl+s", "Save"},
			{"esc", "Discard"},
		}
	case ViewImages:
		commands = []cmd{
			{"Space", "Select"},
			{"d", "Delete"},
			{"s", "Share"},
			{"x", "Remove"},
			{"a", "Add"},
			{"c", "Photo"},
			{"u", "Unselect"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case ViewActivity:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"r", "Refresh"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default: // ViewCatalog
		commands = []cmd{
			{"Space", "Select"},
			{"d", "Delete"},
			{"s", "Share"},
			{"enter", "Images"},
			{"a", "Add"},
			{"r", "Reload"},
			{"L", "Activity"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderNotice renders the footer: a pending confirmation, or the last
// operation result.
func (m Model) renderNotice() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.confirm != nil:
		content = bg.Render(m.confirm.prompt, styles.WarningText.Bold(true)) + bg.Space() +
			bg.Render("y", styles.AccentText) + bg.Sep("/") + bg.Render("n", styles.AccentText)
	case m.notice.text != "":
		content = bg.Render(m.notice.text, m.noticeStyle(styles))
	}

	return styles.Footer.Width(m.width).Render(content)
}

func (m Model) noticeStyle(styles Styles) lipgloss.Style {
	switch m.notice.level {
	case noticeSuccess:
		return styles.SuccessText
	case noticeWarning:
		return styles.WarningText
	case noticeError:
		return styles.DangerText
	default:
		return styles.InfoText
	}
}
