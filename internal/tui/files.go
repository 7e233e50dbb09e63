package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geomesh/internal/source"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !source.Supported(name) {
			continue
		}
		items = append(items, fileItem{
			title: name,
			desc:  strings.ToLower(filepath.Ext(name)),
			path:  filepath.Join(m.cwd, name),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadCmd loads and meshes p off the update loop.
func (m *Model) loadCmd(p string) tea.Cmd {
	m.pending++
	m.status = "loading " + filepath.Base(p)
	ctx, worker, style := m.ctx, m.worker, m.style
	mesher := m.world.Mesher()
	return func() tea.Msg {
		return load(ctx, worker, mesher, style, p)
	}
}

// pasteCmd meshes pasted WKT as a new dataset.
func (m *Model) pasteCmd(wkt string) tea.Cmd {
	m.pending++
	m.pastes++
	name := fmt.Sprintf("paste-%d", m.pastes)
	ctx, worker, style := m.ctx, m.worker, m.style
	mesher := m.world.Mesher()
	return func() tea.Msg {
		return paste(ctx, worker, mesher, style, name, wkt)
	}
}
