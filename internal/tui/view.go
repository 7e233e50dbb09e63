package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout sizes in cells.
const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// The palette follows source.DefaultStyle: blue areas, amber labels.
var (
	screenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D7E2"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#3366CC")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFDD55")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7A8699"))
)

// mapArea returns the origin and size in cells of the map canvas.
func (m Model) mapArea() (x, y, cols, rows int) {
	rows = max(4, m.height-headerHeight-footerHeight)
	cols = max(10, m.width)
	if m.showSidebar {
		x = sidebarWidth + 1
		cols = max(10, cols-x)
	}
	return x, headerHeight, cols, rows
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	_, _, mapWidth, mapHeight := m.mapArea()

	// Header
	s := m.world.Stats()
	title := headerStyle.Render(" geomesh ─ terminal geospatial viewer ")
	info := mutedStyle.Render(fmt.Sprintf("  %d graphics  %d batches  %d vertices", s.Graphics, s.Batches, s.Vertices))
	if m.pending > 0 {
		info += mutedStyle.Render("  meshing…")
	}
	header := lipgloss.NewStyle().Width(contentWidth).Render(title + info)

	var mapView string
	switch {
	case m.showBatches:
		w := 0
		for _, c := range m.tbl.Columns() {
			w += c.Width + 2
		}
		w = min(mapWidth, w+4)
		m.tbl.SetWidth(w - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := panelStyle.Width(w).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.frame)
	}

	body := mapView
	if m.showSidebar {
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	status := mutedStyle.Render(" " + m.status + " ")
	// hover position at bottom-right
	pos := ""
	if m.hoverHasGeo {
		pos = mutedStyle.Render(fmt.Sprintf("  lat=%.5f lon=%.5f  ", m.hover.Lat.Degrees(), m.hover.Long.Degrees()))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, status, help)
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(pos))
	right := lipgloss.Place(spacerW+lipgloss.Width(pos), 1, lipgloss.Right, lipgloss.Center, pos)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return screenStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"[ ] rotate",
		"0 reset",
		"1-4 layers",
		"Tab files",
		"p paste",
		"b batches",
		"x clear",
		"h help",
		"q quit",
	}
	return mutedStyle.Render("  " + strings.Join(keys, "  "))
}
