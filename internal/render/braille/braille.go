// Package braille draws into a terminal grid where every cell is a braille
// character holding 2x4 dots. Each cell takes the colour of the last dot
// drawn in it.
package braille

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r2"

	"geomesh/internal/render"
	"geomesh/internal/shape"
)

// Device is a gpu.Device backed by a braille dot grid.
type Device struct {
	*render.Pipeline
	cols, rows int
	mask       [][]uint8
	color      [][]shape.Color
	styles     map[shape.Color]lipgloss.Style
}

// New returns a Device of cols x rows terminal cells.
func New(cols, rows int) *Device {
	d := &Device{styles: make(map[shape.Color]lipgloss.Style)}
	d.Pipeline = render.NewPipeline(d)
	d.Resize(cols, rows)
	return d
}

// Resize reallocates the grid and clears it.
func (d *Device) Resize(cols, rows int) {
	d.cols, d.rows = max(cols, 0), max(rows, 0)
	d.mask = make([][]uint8, d.rows)
	d.color = make([][]shape.Color, d.rows)
	for i := range d.mask {
		d.mask[i] = make([]uint8, d.cols)
		d.color[i] = make([]shape.Color, d.cols)
	}
}

// Clear removes every dot.
func (d *Device) Clear() {
	for y := range d.mask {
		clear(d.mask[y])
		clear(d.color[y])
	}
}

// Size is the dot grid size: two dots across and four down per cell.
func (d *Device) Size() (int, int) { return d.cols * 2, d.rows * 4 }

// Cells returns the grid size in terminal cells.
func (d *Device) Cells() (int, int) { return d.cols, d.rows }

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Set sets the dot at (x, y) in dot coordinates.
func (d *Device) Set(x, y int, c shape.Color) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cy >= d.rows || cx >= d.cols {
		return
	}
	d.mask[cy][cx] |= dotBits[x%2][y%4]
	d.color[cy][cx] = c
}

func (d *Device) Line(a, b render.Vertex) {
	if a.Color.RGBA().A == 0 {
		return
	}
	x0, y0 := render.Pixel(a.Pos)
	x1, y1 := render.Pixel(b.Pos)
	render.Line(x0, y0, x1, y1, func(x, y int) { d.Set(x, y, a.Color) })
}

// Triangle sets the dots whose centres fall inside abc. Textured triangles
// only set dots where the texture is at least half opaque.
func (d *Device) Triangle(a, b, c render.Vertex, textured bool) {
	if a.Color.RGBA().A == 0 {
		return
	}
	w, h := d.Size()
	tex := d.Texture()
	render.FillTriangle(a, b, c, w, h, func(x, y int, uv r2.Point) {
		if textured && render.SampleAlpha(tex, uv) < 0x80 {
			return
		}
		d.Set(x, y, a.Color)
	})
}

// Cell returns the character and colour of a cell.
func (d *Device) Cell(cx, cy int) (rune, shape.Color) {
	m := d.mask[cy][cx]
	if m == 0 {
		return ' ', 0
	}
	return rune(0x2800 + int(m)), d.color[cy][cx]
}

// Lines returns the grid as uncoloured text rows.
func (d *Device) Lines() []string {
	out := make([]string, d.rows)
	for y := range out {
		row := make([]rune, d.cols)
		for x := range row {
			row[x], _ = d.Cell(x, y)
		}
		out[y] = string(row)
	}
	return out
}

// Render returns the grid as coloured text. Runs of one colour share one
// style.
func (d *Device) Render() string {
	var sb strings.Builder
	for y := 0; y < d.rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var run []rune
		var runColor shape.Color
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == 0 {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(d.style(runColor).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < d.cols; x++ {
			r, c := d.Cell(x, y)
			if c != runColor {
				flush()
				runColor = c
			}
			run = append(run, r)
		}
		flush()
	}
	return sb.String()
}

func (d *Device) style(c shape.Color) lipgloss.Style {
	s, ok := d.styles[c]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()[:7]))
		d.styles[c] = s
	}
	return s
}
