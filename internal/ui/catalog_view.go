package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/editor"
)

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Unselect):
		m.selection.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.selectedRow = clampRow(m.selectedRow+1, len(m.catalog))
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.selectedRow = clampRow(m.selectedRow-1, len(m.catalog))
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = clampRow(len(m.catalog)-1, len(m.catalog))
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if p, ok := m.currentProduct(); ok {
			m.selection.Toggle(p.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}

	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Delete):
		if m.selection.Empty() {
			m.setNotice(noticeInfo, "Select products with Space first")
			return m, nil
		}
		ids := m.selection.IDs()
		m.askConfirm(fmt.Sprintf("Delete %s?", plural(len(ids), "product")), m.deleteProductsCmd(ids))
		return m, nil

	case key.Matches(msg, m.keys.Share):
		if m.selection.Empty() {
			m.setNotice(noticeInfo, "Select products with Space first")
			return m, nil
		}
		return m.startBusy(m.shareProductsCmd(m.selection.IDs()))

	case key.Matches(msg, m.keys.Open):
		p, ok := m.currentProduct()
		if !ok {
			return m, nil
		}
		return m.openImages(p.ID)

	case key.Matches(msg, m.keys.Add):
		return m.openAdd()
	}

	return m, nil
}

func (m *Model) handleDeleted(msg deletedMsg) {
	if msg.err != nil {
		m.log.Warn("delete products failed", zap.Error(msg.err))
		m.setNotice(noticeError, "Delete failed: "+msg.err.Error())
		return
	}
	m.selection.Clear()
	m.applyCatalog(m.products.Catalog())
	m.setNotice(noticeSuccess, fmt.Sprintf("Deleted %s", plural(msg.count, "product")))
}

func (m Model) currentProduct() (catalog.Product, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.catalog) {
		return catalog.Product{}, false
	}
	return m.catalog[m.selectedRow], true
}

// openImages starts a review session for product id. The session reads the
// image list from the catalog state; only the id travels with navigation.
func (m Model) openImages(id string) (tea.Model, tea.Cmd) {
	s, err := editor.Open(m.products, id)
	if err != nil {
		m.setNotice(noticeWarning, "Product no longer exists")
		return m, m.reload()
	}
	m.session = s
	m.imageRow = 0
	m.picking = false
	m.currentView = ViewImages
	return m, nil
}

// renderCatalog renders the product list.
func (m Model) renderCatalog() string {
	height := m.contentHeight()
	title := fmt.Sprintf("Products (%d)", len(m.catalog))
	if n := m.selection.Len(); n > 0 {
		title = fmt.Sprintf("Products (%d, %d selected)", len(m.catalog), n)
	}
	return m.renderTitledBox(title, m.renderProductRows(m.width-2, height-2), m.width, height, true)
}

func (m Model) renderProductRows(width, rows int) string {
	bgColor := m.theme.FocusBg
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	if len(m.catalog) == 0 {
		return bg.Render("No products yet. Press a to add one.", styles.MutedText)
	}

	start := scrollStart(m.selectedRow, len(m.catalog), rows)
	end := min(start+rows, len(m.catalog))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		p := m.catalog[i]
		cursor := i == m.selectedRow
		rowBg := ternary(cursor, m.theme.SelectionBg, bgColor)
		content := m.formatProductRow(p, width, rowBg, cursor)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatProductRow formats a product row.
// Format: "● Name · price · N images"
func (m Model) formatProductRow(p catalog.Product, width int, bgColor string, cursor bool) string {
	bg := NewBgStyle(bgColor)

	mark := "○"
	if m.selection.Contains(p.ID) {
		mark = "●"
	}
	name := p.Name
	if strings.TrimSpace(name) == "" {
		name = "(unnamed)"
	}
	price := strings.TrimSpace(p.Price)
	if price == "" {
		price = "-"
	}
	images := plural(len(p.Images), "image")

	var markStyle, nameStyle, sepStyle, metaStyle lipgloss.Style
	if cursor {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		markStyle, nameStyle, sepStyle, metaStyle = selText, selText.Bold(true), selText, selText
	} else {
		styles := m.theme.Styles()
		markStyle = ternaryStyle(m.selection.Contains(p.ID), styles.AccentText, styles.FaintText)
		nameStyle = styles.Text
		sepStyle = styles.FaintText
		metaStyle = styles.MutedText
	}

	nameWidth := max(width-len(price)-len(images)-12, 10)
	return bg.Render(mark, markStyle) + bg.Space() +
		bg.Render(truncate(name, nameWidth), nameStyle) +
		bg.Render(" · ", sepStyle) + bg.Render(price, metaStyle) +
		bg.Render(" · ", sepStyle) + bg.Render(images, metaStyle)
}

// scrollStart returns the first visible row that keeps cursor on screen.
func scrollStart(cursor, total, rows int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	start := cursor - rows + 1
	if start < 0 {
		start = 0
	}
	return min(start, total-rows)
}
