package tui

import (
	"context"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"geomesh/internal/coords"
	"geomesh/internal/frame"
	"geomesh/internal/mesh"
	"geomesh/internal/render/braille"
	"geomesh/internal/source"
	"geomesh/internal/world"
)

// Options configures the viewer.
type Options struct {
	// Path is loaded at start when set.
	Path  string
	World world.Config
	Style source.Style
	// FPS caps redraws; zero redraws on every tick.
	FPS float64
	// Concurrency bounds the meshing workers; zero means GOMAXPROCS.
	Concurrency int
}

// DefaultOptions returns a whole-earth view at 30 fps.
func DefaultOptions() Options {
	return Options{
		World: world.DefaultConfig(),
		Style: source.DefaultStyle(),
		FPS:   30,
	}
}

// dataset is one loaded file or paste, meshed per layer.
type dataset struct {
	name     string
	graphics []mesh.RenderableGraphic
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	// File explorer
	cwd string
	l   list.Model

	// Rendering
	world  *world.World
	dev    *braille.Device
	worker *mesh.Worker
	style  source.Style
	pacer  *frame.Pacer
	frame  string
	dirty  bool
	home   world.View

	ctx    context.Context
	cancel context.CancelFunc

	// Data, in load order
	sets    []*dataset
	pastes  int
	pending int
	hidden  map[source.Layer]bool

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hover state
	hoverHasGeo bool
	hover       coords.LatLong

	// batch table
	showBatches bool
	tbl         table.Model

	initial string
}

// New returns a viewer model over a braille canvas.
func New(opts Options) (Model, error) {
	dev := braille.New(1, 1)
	w, err := world.New(dev, opts.World)
	if err != nil {
		return Model{}, errors.Wrap(err, "tui")
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		helpVisible: true,
		status:      "geomesh ready",
		world:       w,
		dev:         dev,
		worker:      mesh.NewWorker(w.Mesher(), opts.Concurrency),
		style:       opts.Style,
		pacer:       frame.NewPacer(opts.FPS),
		dirty:       true,
		home:        w.View(),
		ctx:         ctx,
		cancel:      cancel,
		hidden:      map[source.Layer]bool{},
		initial:     opts.Path,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here. Press Enter to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true), table.WithColumns(batchColumns))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m, nil
}

// Init starts the frame ticks. The file named on the command line is
// loaded on the first WindowSizeMsg, once the canvas it is fitted to exists.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Close stops pending meshing and releases the world.
func (m Model) Close() {
	m.cancel()
	m.world.Close()
}

type tickMsg time.Time

// tick polls at twice the frame rate; the pacer decides which ticks draw.
func (m Model) tick() tea.Cmd {
	d := m.pacer.Interval() / 2
	if d < 5*time.Millisecond {
		d = 16 * time.Millisecond
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// redraw renders the world into the braille grid.
func (m *Model) redraw() {
	m.dev.Clear()
	if err := m.world.Draw(); err != nil {
		m.status = "draw error: " + err.Error()
	}
	m.frame = m.dev.Render()
	m.dirty = false
}
