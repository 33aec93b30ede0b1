package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// initActivityViewport initializes the activity viewport.
func (m *Model) initActivityViewport() {
	m.activityViewport = viewport.New(max(m.width-2, 1), max(m.contentHeight()-2, 1))
}

func (m *Model) resizeActivityViewport() {
	m.activityViewport.Width = max(m.width-2, 1)
	m.activityViewport.Height = max(m.contentHeight()-2, 1)
	m.updateActivityViewport()
}

func (m *Model) handleActivity(msg activityMsg) {
	if msg.err != nil {
		m.setNotice(noticeWarning, "Activity log unavailable: "+msg.err.Error())
		return
	}
	m.activity = msg.entries
	m.updateActivityViewport()
	m.activityViewport.GotoBottom()
}

func (m *Model) updateActivityViewport() {
	m.activityViewport.SetContent(m.renderActivityLines())
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.showCatalog()

	case key.Matches(msg, m.keys.Reload):
		return m, m.refreshActivity()

	case key.Matches(msg, m.keys.Top):
		m.activityViewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.activityViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.activityViewport, cmd = m.activityViewport.Update(msg)
	return m, cmd
}

// renderActivity renders the recent log records.
func (m Model) renderActivity() string {
	title := "Activity"
	if m.logPath != "" {
		title += " · " + truncateMiddle(m.logPath, max(m.width/2, 10))
	}
	return m.renderTitledBox(title, m.activityViewport.View(), m.width, m.contentHeight(), true)
}

func (m Model) renderActivityLines() string {
	bgColor := m.theme.FocusBg
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	if m.logPath == "" {
		return bg.Render("Logging is off. Set [log] file in the config to record activity.", styles.MutedText)
	}
	if len(m.activity) == 0 {
		return bg.Render("No activity recorded yet.", styles.MutedText)
	}

	lines := make([]string, 0, len(m.activity))
	for _, e := range m.activity {
		lines = append(lines, m.formatActivityLine(e, styles, bg))
	}
	return strings.Join(lines, "\n")
}

// formatActivityLine formats one record.
// Format: "15:04:05 WARN  catalog  message key=value"
func (m Model) formatActivityLine(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Time.IsZero() && e.Level == "" {
		return bg.Render(e.Raw, styles.FaintText)
	}

	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
	}
	parts = append(parts, bg.Render(padRight(strings.ToUpper(e.Level), 5), m.levelStyle(e.Level, styles)))
	if e.Logger != "" {
		parts = append(parts, bg.Render(e.Logger, styles.AccentText))
	}
	parts = append(parts, bg.Render(e.Message, styles.Text))
	if len(e.Fields) > 0 {
		parts = append(parts, bg.Render(strings.Join(e.Fields, " "), styles.MutedText))
	}
	return bg.Join(parts, " ")
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}
