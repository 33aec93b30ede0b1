package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/editor"
)

// Add form fields in focus order.
const (
	fieldName = iota
	fieldPrice
	fieldLibrary
	fieldImages
	fieldCount
)

// addForm holds the add-item screen. The draft is detached from the catalog
// until it is saved.
type addForm struct {
	draft  editor.Draft
	inputs [fieldImages]textinput.Model // name, price, library query
	focus  int
	row    int
}

func newAddForm() addForm {
	name := textinput.New()
	name.Placeholder = "e.g. Oak chair"
	name.CharLimit = 120
	name.Width = 40

	price := textinput.New()
	price.Placeholder = "e.g. 20"
	price.CharLimit = 32
	price.Width = 20

	library := textinput.New()
	library.Placeholder = "paths, folders or globs, e.g. ~/Pictures/*.jpg"
	library.CharLimit = 512
	library.Width = 60

	return addForm{inputs: [fieldImages]textinput.Model{name, price, library}}
}

// focusField moves input focus to field i.
func (f *addForm) focusField(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

// syncDraft copies the typed name and price into the draft.
func (f *addForm) syncDraft() {
	f.draft.Name = strings.TrimSpace(f.inputs[fieldName].Value())
	f.draft.Price = strings.TrimSpace(f.inputs[fieldPrice].Value())
}

// openAdd shows an empty add form.
func (m Model) openAdd() (tea.Model, tea.Cmd) {
	m.leaveImages()
	m.add = newAddForm()
	m.add.inputs[fieldLibrary].SetValue(m.prefs.LibraryDir)
	m.currentView = ViewAdd
	return m, tea.Batch(m.add.focusField(fieldName), textinput.Blink)
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		// Leaving discards the draft.
		m.add = newAddForm()
		return m.showCatalog()

	case key.Matches(msg, m.keys.NextField):
		return m, m.add.focusField(m.add.focus + 1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.add.focusField(m.add.focus - 1)

	case key.Matches(msg, m.keys.Save):
		if m.busy {
			return m, nil
		}
		m.add.syncDraft()
		return m.startBusy(m.saveDraftCmd(m.add.draft))

	case key.Matches(msg, m.keys.Capture):
		if m.busy {
			return m, nil
		}
		return m.startBusy(m.pickCameraCmd(ViewAdd))
	}

	if m.add.focus == fieldImages {
		return m.handleAddImagesKey(msg)
	}

	if msg.String() == "enter" {
		if m.add.focus != fieldLibrary {
			return m, m.add.focusField(m.add.focus + 1)
		}
		if m.busy {
			return m, nil
		}
		return m.pickLibrary(ViewAdd, m.add.inputs[fieldLibrary].Value())
	}

	var cmd tea.Cmd
	m.add.inputs[m.add.focus], cmd = m.add.inputs[m.add.focus].Update(msg)
	return m, cmd
}

func (m Model) handleAddImagesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.add.draft.Images())
	switch {
	case key.Matches(msg, m.keys.Down):
		m.add.row = clampRow(m.add.row+1, n)
	case key.Matches(msg, m.keys.Up):
		m.add.row = clampRow(m.add.row-1, n)
	case key.Matches(msg, m.keys.Remove), msg.String() == "backspace":
		if m.busy {
			return m, nil
		}
		if m.add.draft.RemoveAt(m.add.row) {
			m.add.row = clampRow(m.add.row, n-1)
		}
	}
	return m, nil
}

// pickLibrary runs a library pick for query and remembers the query.
func (m Model) pickLibrary(target View, query string) (tea.Model, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" {
		m.setNotice(noticeInfo, "Type a path, folder or glob first")
		return m, nil
	}
	m.busy = true
	var save tea.Cmd
	if query != m.prefs.LibraryDir {
		m.prefs.LibraryDir = query
		save = m.savePrefs()
	}
	return m, tea.Batch(m.pickLibraryCmd(target, query), save)
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("save product failed", zap.Error(msg.err))
		m.setNotice(noticeError, "Save failed: "+msg.err.Error())
		return m, nil
	}

	name := msg.product.Name
	if name == "" {
		name = "product"
	}
	m.setNotice(noticeSuccess, fmt.Sprintf("Saved %s with %s", name, plural(len(msg.product.Images), "image")))
	m.applyCatalog(m.products.Catalog())
	if m.currentView != ViewAdd {
		return m, nil
	}
	m.add = newAddForm()
	return m.showCatalog()
}

func (m Model) handlePicked(msg pickedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.noticePick(msg.kind, msg.err)
		return m, nil
	}
	if m.currentView != msg.target {
		// The screen that asked is gone; its draft or session went with it.
		return m, nil
	}

	switch msg.target {
	case ViewAdd:
		m.add.draft.AddImages(msg.refs...)
		m.setNotice(noticeSuccess, fmt.Sprintf("Attached %s", plural(len(msg.refs), "image")))
		return m, nil
	case ViewImages:
		if m.session == nil {
			return m, nil
		}
		return m.startBusy(m.addSessionImagesCmd(m.session, msg.refs))
	}
	return m, nil
}

// renderAdd renders the add-item form.
func (m Model) renderAdd() string {
	height := m.contentHeight()
	bgColor := m.theme.FocusBg
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	label := func(i int, text string) string {
		style := styles.MutedText
		if m.add.focus == i {
			style = styles.AccentText.Bold(true)
		}
		return bg.Render(padRight(text, 10), style)
	}

	var lines []string
	lines = append(lines,
		label(fieldName, "Name")+m.add.inputs[fieldName].View(),
		label(fieldPrice, "Price")+m.add.inputs[fieldPrice].View(),
		label(fieldLibrary, "Library")+m.add.inputs[fieldLibrary].View(),
		"",
	)

	images := m.add.draft.Images()
	lines = append(lines, label(fieldImages, fmt.Sprintf("Images (%d)", len(images))))
	if len(images) == 0 {
		lines = append(lines, bg.Render("  none yet: enter on Library adds files, ctrl+t takes a photo", styles.FaintText))
	}
	rows := max(height-2-len(lines), 1)
	start := scrollStart(m.add.row, len(images), rows)
	for i := start; i < min(start+rows, len(images)); i++ {
		lines = append(lines, m.formatImageRow(images[i], m.width-2, bgColor,
			m.add.focus == fieldImages && i == m.add.row, false))
	}

	title := "New product"
	if m.busy {
		title += " (working...)"
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

// formatImageRow formats one image reference, shortening long paths from the
// middle so the file name stays visible.
func (m Model) formatImageRow(ref string, width int, bgColor string, cursor, selected bool) string {
	rowBg := ternary(cursor, m.theme.SelectionBg, bgColor)
	bg := NewBgStyle(rowBg)

	mark := ternary(selected, "●", "○")
	var markStyle, refStyle lipgloss.Style
	if cursor {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		markStyle, refStyle = selText, selText
	} else {
		styles := m.theme.Styles()
		markStyle = ternaryStyle(selected, styles.AccentText, styles.FaintText)
		refStyle = styles.Text
	}

	content := bg.Space() + bg.Render(mark, markStyle) + bg.Space() +
		bg.Render(truncateMiddle(displayRef(ref), max(width-4, 10)), refStyle)
	return lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Width(width).Render(content)
}
