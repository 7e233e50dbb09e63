package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"geomesh/internal/source"
	"geomesh/internal/units"
)

const (
	panFraction = 0.1
	zoomStep    = 1.25
	rotateStep  = 15 // degrees
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.initial != "" {
			p := m.initial
			m.initial = ""
			return m, m.loadCmd(p)
		}
	case tickMsg:
		if m.dirty && m.pacer.Ready(time.Time(msg)) {
			m.redraw()
		}
		return m, m.tick()
	case loadedMsg:
		if m.pending > 0 {
			m.pending--
		}
		if err := m.apply(msg); err != nil {
			m.status = "load error: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("loaded: %s  %s", filepath.Base(msg.name), msg.counts)
		if msg.skipped > 0 {
			m.status += fmt.Sprintf("  skipped %d shapes", msg.skipped)
		}
		if m.showBatches {
			m.refreshBatches()
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.showBatches {
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		m.pasteMode = false
		m.ta.Blur()
		m.status = "meshing pasted WKT"
		return m, m.pasteCmd(w)
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleKey applies global key bindings. Keys it does not handle fall
// through to the visible widget.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	v := m.world.View()
	step := panFraction * float64(min(v.Width, v.Height))
	switch msg.String() {
	case "ctrl+c", "q":
		m.cancel()
		return tea.Quit, true
	case "1", "2", "3", "4":
		l := source.Layers[int(msg.String()[0]-'1')]
		if err := m.toggle(l); err != nil {
			m.status = "layer error: " + err.Error()
		} else {
			m.status = fmt.Sprintf("%s: %v", l, !m.hidden[l])
		}
		m.refreshBatchesIfShown()
	case "+", "=":
		m.world.Zoom(zoomStep)
		m.viewChanged()
	case "-", "_":
		m.world.Zoom(1 / zoomStep)
		m.viewChanged()
	case "[":
		m.world.Rotate(units.Degrees(-rotateStep))
		m.viewChanged()
	case "]":
		m.world.Rotate(units.Degrees(rotateStep))
		m.viewChanged()
	case "up", "down":
		if m.showSidebar || m.showBatches {
			// Lists and tables navigate with the vertical arrows.
			return nil, false
		}
		if msg.String() == "down" {
			step = -step
		}
		m.world.Pan(0, step)
		m.viewChanged()
	case "left":
		m.world.Pan(step, 0)
		m.viewChanged()
	case "right":
		m.world.Pan(-step, 0)
		m.viewChanged()
	case "0":
		m.world.Recentre(m.home.Centre)
		m.world.SetRange(m.home.Range)
		m.world.Rotate(m.home.Rotation.Sub(v.Rotation))
		m.viewChanged()
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		m.resize()
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		m.ta.Focus()
	case "b":
		m.showBatches = !m.showBatches
		m.refreshBatchesIfShown()
	case "h":
		m.helpVisible = !m.helpVisible
	case "x":
		for _, s := range m.sets {
			for _, g := range s.graphics {
				m.world.Delete(g.Name)
			}
		}
		m.sets = nil
		m.dirty = true
		m.status = "cleared"
		m.refreshBatchesIfShown()
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				return m.loadCmd(it.path), true
			}
		}
		return nil, false
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	ox, oy, cols, rows := m.mapArea()
	cx, cy := msg.X-ox, msg.Y-oy
	if cx < 0 || cx >= cols || cy < 0 || cy >= rows {
		m.hoverHasGeo = false
		return
	}
	// Centre of the hovered cell in canvas pixels.
	x, y := float64(cx*2+1), float64(cy*4+2)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.world.ZoomAt(zoomStep, x, y)
		m.viewChanged()
	case tea.MouseButtonWheelDown:
		m.world.ZoomAt(1/zoomStep, x, y)
		m.viewChanged()
	}
	m.hover = m.world.LatLongAt(x, y)
	m.hoverHasGeo = true
}

func (m *Model) viewChanged() {
	m.dirty = true
	v := m.world.View()
	m.status = fmt.Sprintf("range %s  rotation %s", v.Range, v.Rotation)
}

// resize fits the braille grid and the world canvas to the map area.
func (m *Model) resize() {
	_, _, cols, rows := m.mapArea()
	m.dev.Resize(cols, rows)
	m.world.Resize(m.dev.Size())
	m.l.SetSize(sidebarWidth-2, rows-2)
	m.dirty = true
}

// fit centres the view on b and zooms so that it fills most of the canvas.
func (m *Model) fit(b orb.Bound) {
	v := m.world.View()
	centre, r := source.Fit(b, v.Width, v.Height)
	m.world.Recentre(centre)
	m.world.SetRange(r)
}
