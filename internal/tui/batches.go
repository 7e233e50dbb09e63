package tui

import (
	"fmt"
	"strings"

	table "github.com/charmbracelet/bubbles/table"
)

var batchColumns = []table.Column{
	{Title: "z", Width: 4},
	{Title: "#", Width: 3},
	{Title: "layout", Width: 28},
	{Title: "graphics", Width: 24},
	{Title: "vertices", Width: 9},
	{Title: "dirty", Width: 6},
}

func (m *Model) refreshBatchesIfShown() {
	if m.showBatches {
		m.refreshBatches()
	}
}

// refreshBatches rebuilds the table from the batcher, one row per batch in
// draw order.
func (m *Model) refreshBatches() {
	bt := m.world.Batcher()
	var rows []table.Row
	for _, z := range bt.ZIndices() {
		for i, b := range bt.Batches(z) {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", z),
				fmt.Sprintf("%d", i),
				b.Layout().String(),
				strings.Join(b.Names(), ","),
				fmt.Sprintf("%d", b.VertexCount()),
				fmt.Sprintf("%v", b.Dirty()),
			})
		}
	}
	m.tbl.SetRows(rows)
	s := m.world.Stats()
	m.status = fmt.Sprintf("layers=%d batches=%d graphics=%d vertices=%d", s.Layers, s.Batches, s.Graphics, s.Vertices)
}
