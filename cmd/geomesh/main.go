package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"geomesh/internal/coords"
	"geomesh/internal/logging"
	"geomesh/internal/render/raster"
	"geomesh/internal/shape"
	"geomesh/internal/source"
	"geomesh/internal/tui"
	"geomesh/internal/units"
	"geomesh/internal/world"
)

func main() {
	os.Exit(run())
}

// run returns the exit code, so deferred closes run before the process
// exits.
func run() int {
	var (
		rangeKm = flag.Float64("range", 10000, "initial range across the canvas in km")
		centre  = flag.String("centre", "0,0", "initial centre as `lat,lon` in degrees")
		fps     = flag.Float64("fps", 30, "redraw rate cap; 0 redraws on every tick")
		pngOut  = flag.String("png", "", "render the file to this PNG and exit")
		size    = flag.String("size", "1024x768", "snapshot size as `WxH` pixels")
		logPath = flag.String("log", "", "write debug logs to this file")
		fill    = flag.String("fill", "", "area fill colour as #rrggbb[aa]")
		stroke  = flag.String("stroke", "", "outline colour as #rrggbb[aa]")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: geomesh [flags] [file]\n\nfile may be %s\n\n", strings.Join(source.Extensions, ", "))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Print(err)
			return 1
		}
		defer f.Close()
		logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	fail := func(err error) int {
		logging.Logger().Error("geomesh failed", "err", err)
		log.Print(err)
		return 1
	}

	cfg := world.DefaultConfig()
	cfg.Range = units.Kilometres(*rangeKm)
	c, err := parseCentre(*centre)
	if err != nil {
		return fail(err)
	}
	cfg.Centre = c

	style := source.DefaultStyle()
	if err := parseColor(*fill, &style.Fill); err != nil {
		return fail(err)
	}
	if err := parseColor(*stroke, &style.Stroke); err != nil {
		return fail(err)
	}

	if *pngOut != "" {
		if flag.NArg() == 0 {
			return fail(errors.New("geomesh: -png needs a file to render"))
		}
		w, h, err := parseSize(*size)
		if err != nil {
			return fail(err)
		}
		cfg.Width, cfg.Height = w, h
		fitted := !explicit("centre", "range")
		if err := snapshot(flag.Arg(0), *pngOut, cfg, style, fitted); err != nil {
			return fail(err)
		}
		return 0
	}

	opts := tui.DefaultOptions()
	opts.Path = flag.Arg(0)
	opts.World = cfg
	opts.Style = style
	opts.FPS = *fps
	m, err := tui.New(opts)
	if err != nil {
		return fail(err)
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if fm, ok := final.(tui.Model); ok {
		fm.Close()
	}
	if err != nil {
		return fail(err)
	}
	return 0
}

// snapshot renders the file at path into a PNG at out. With fit the view
// is centred on the data.
func snapshot(path, out string, cfg world.Config, style source.Style, fit bool) error {
	d, err := source.Load(path)
	if err != nil {
		return err
	}
	if fit {
		cfg.Centre, cfg.Range = source.Fit(d.Bound, cfg.Width, cfg.Height)
	}
	dev := raster.New(cfg.Width, cfg.Height)
	w, err := world.New(dev, cfg)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, g := range source.Graphics(d, style) {
		if err := w.Insert(g); err != nil {
			logging.Logger().Warn("graphic skipped", "graphic", g.Name, "err", err)
		}
	}
	dev.Clear(color.Black)
	if err := w.Draw(); err != nil {
		return errors.Wrap(err, "draw")
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "snapshot")
	}
	if err := png.Encode(f, dev.Image()); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", out)
	}
	return f.Close()
}

// explicit reports whether any of the named flags was set on the command
// line.
func explicit(names ...string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		for _, n := range names {
			if f.Name == n {
				found = true
			}
		}
	})
	return found
}

func parseCentre(s string) (coords.LatLong, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return coords.LatLong{}, errors.Newf("centre %q: want lat,lon", s)
	}
	la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lo, err2 := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err := errors.CombineErrors(err1, err2); err != nil {
		return coords.LatLong{}, errors.Wrapf(err, "centre %q", s)
	}
	if la < -90 || la > 90 {
		return coords.LatLong{}, errors.Newf("centre %q: latitude out of range", s)
	}
	return coords.LatLongDegrees(la, lo), nil
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, errors.Wrapf(err, "size %q", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.Newf("size %q: want positive WxH", s)
	}
	return w, h, nil
}

func parseColor(s string, dst *shape.Color) error {
	if s == "" {
		return nil
	}
	c, err := shape.ParseColor(s)
	if err != nil {
		return err
	}
	*dst = c
	return nil
}
