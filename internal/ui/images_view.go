package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func newPickInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "add: "
	ti.Placeholder = "paths, folders or globs"
	ti.CharLimit = 512
	ti.Width = 60
	return ti
}

// leaveImages ends the review session. The image selection is discarded.
func (m *Model) leaveImages() {
	m.session = nil
	m.imageRow = 0
	m.picking = false
	m.pickInput.Blur()
}

func (m Model) sessionImages() []string {
	if m.session == nil {
		return nil
	}
	return m.session.Images()
}

func (m Model) handleImagesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	images := m.sessionImages()

	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.showCatalog()

	case key.Matches(msg, m.keys.Down):
		m.imageRow = clampRow(m.imageRow+1, len(images))
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.imageRow = clampRow(m.imageRow-1, len(images))
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.imageRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.imageRow = clampRow(len(images)-1, len(images))
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.imageRow < len(images) {
			m.session.Toggle(images[m.imageRow])
		}
		return m, nil

	case key.Matches(msg, m.keys.Unselect):
		m.session.Unselect()
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Delete):
		n := len(m.session.Selected())
		if n == 0 {
			m.setNotice(noticeInfo, "Select images with Space first")
			return m, nil
		}
		m.askConfirm(fmt.Sprintf("Remove %s from this product?", plural(n, "image")), m.deleteSessionImagesCmd(m.session))
		return m, nil

	case key.Matches(msg, m.keys.Share):
		return m.startBusy(m.shareSessionImagesCmd(m.session))

	case key.Matches(msg, m.keys.Remove):
		if m.imageRow >= len(images) {
			return m, nil
		}
		return m.startBusy(m.removeSessionImageCmd(m.session, images[m.imageRow]))

	case key.Matches(msg, m.keys.Add):
		m.picking = true
		m.pickInput.SetValue(m.prefs.LibraryDir)
		m.pickInput.CursorEnd()
		return m, m.pickInput.Focus()

	case key.Matches(msg, m.keys.Camera):
		return m.startBusy(m.pickCameraCmd(ViewImages))
	}

	return m, nil
}

func (m Model) handlePickInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.picking = false
		m.pickInput.Blur()
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		m.picking = false
		m.pickInput.Blur()
		return m.pickLibrary(ViewImages, m.pickInput.Value())
	}

	var cmd tea.Cmd
	m.pickInput, cmd = m.pickInput.Update(msg)
	return m, cmd
}

func (m Model) handleImagesChanged(msg imagesMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("update images failed", zap.Error(msg.err))
		m.setNotice(noticeError, "Update failed: "+msg.err.Error())
		return m, nil
	}

	switch msg.op {
	case imagesAdded:
		m.setNotice(noticeSuccess, fmt.Sprintf("Added %s", plural(msg.count, "image")))
	case imageRemoved:
		m.setNotice(noticeSuccess, "Removed image")
	case imagesDeleted:
		m.setNotice(noticeSuccess, fmt.Sprintf("Removed %s", plural(msg.count, "image")))
	}

	reviewing := m.currentView == ViewImages
	m.applyCatalog(m.products.Catalog())
	if reviewing && m.currentView == ViewCatalog {
		// The session finished; the catalog screen regains focus.
		return m, m.reload()
	}
	return m, nil
}

// renderImages renders the image review screen for the open session.
func (m Model) renderImages() string {
	height := m.contentHeight()
	if m.session == nil {
		return m.renderTitledBox("Images", "", m.width, height, true)
	}

	bgColor := m.theme.FocusBg
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	images := m.session.Images()
	rows := height - 2
	if m.picking {
		rows -= 2
	}

	var lines []string
	if len(images) == 0 {
		lines = append(lines, bg.Render("No images. Press a to add files or c to take a photo.", styles.MutedText))
	}
	start := scrollStart(m.imageRow, len(images), rows)
	for i := start; i < min(start+max(rows, 0), len(images)); i++ {
		ref := images[i]
		lines = append(lines, m.formatImageRow(ref, m.width-2, bgColor, i == m.imageRow, m.session.IsSelected(ref)))
	}
	if m.picking {
		for len(lines) < rows {
			lines = append(lines, "")
		}
		lines = append(lines, "", bg.Space()+m.pickInput.View())
	}

	return m.renderTitledBox(m.imagesTitle(len(images)), strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) imagesTitle(count int) string {
	name := "Images"
	if p, ok := m.session.Product(); ok && strings.TrimSpace(p.Name) != "" {
		name = p.Name
	}
	title := fmt.Sprintf("%s · %s", truncate(name, 40), plural(count, "image"))
	if n := len(m.session.Selected()); n > 0 {
		title += fmt.Sprintf(" · %d selected", n)
	}
	return title
}
