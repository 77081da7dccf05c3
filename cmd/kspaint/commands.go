package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/painter"
	"github.com/gogpu/painter/document"
	"github.com/gogpu/painter/imageio"
	"github.com/gogpu/painter/ksp"
)

var errUsage = errors.New("wrong number of arguments")

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func oneArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func runNew(a *app, args []string) error {
	fs := newFlagSet("new")
	var (
		name   = fs.String("name", document.DefaultName, "document name")
		width  = fs.Int("width", a.cfg.Canvas.Width, "canvas width")
		height = fs.Int("height", a.cfg.Canvas.Height, "canvas height")
		format = fs.String("format", a.cfg.Storage.Format, "file format: ksp or png")
	)
	_ = fs.Parse(args)

	f, err := document.ParseFormat(*format)
	if err != nil {
		return err
	}
	if _, err := a.mgr.New(*name, *width, *height, f); err != nil {
		return err
	}
	p, err := a.mgr.Save("")
	if err != nil {
		return err
	}
	fmt.Println(p)
	return nil
}

func runInfo(a *app, args []string) error {
	fs := newFlagSet("info")
	_ = fs.Parse(args)
	path, err := oneArg(fs)
	if err != nil {
		return err
	}
	p, err := a.mgr.Resolve(path)
	if err != nil {
		return err
	}
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := ksp.ReadHeader(f)
	if err != nil {
		return err
	}
	d, _ := h.Depth()
	fmt.Printf("%s: %dx%d, %d layers, %v, %v compression, %d byte payload\n",
		p, h.Width, h.Height, h.Layers, d, h.Compression, h.PayloadSize())
	return nil
}

func runImport(a *app, args []string) error {
	fs := newFlagSet("import")
	var (
		width  = fs.Int("width", 0, "canvas width, 0 for the image width")
		height = fs.Int("height", 0, "canvas height, 0 for the image height")
		out    = fs.String("o", "", "output KSP file, default <image name>.ksp")
	)
	_ = fs.Parse(args)
	path, err := oneArg(fs)
	if err != nil {
		return err
	}
	p, err := a.mgr.Resolve(path)
	if err != nil {
		return err
	}

	w, h := *width, *height
	if w <= 0 || h <= 0 {
		size, err := imageSize(p)
		if err != nil {
			return err
		}
		w, h = cmpOr(w, size.X), cmpOr(h, size.Y)
	}

	name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	if _, err := a.mgr.New(name, w, h, document.FormatKSP); err != nil {
		return err
	}
	if _, err := a.mgr.ImportLayer(p); err != nil {
		return err
	}
	// Drop the white base layer; the import carries its own padding.
	if err := a.mgr.RemoveLayer(0); err != nil {
		return err
	}
	saved, err := a.mgr.Save(*out)
	if err != nil {
		return err
	}
	fmt.Println(saved)
	return nil
}

func imageSize(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()
	img, err := imageio.Decode(f)
	if err != nil {
		return image.Point{}, err
	}
	return img.Bounds().Size(), nil
}

// cmpOr returns v if positive, otherwise def.
func cmpOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func runExport(a *app, args []string) error {
	fs := newFlagSet("export")
	out := fs.String("o", "", "output PNG file, default <document name>.png")
	_ = fs.Parse(args)
	path, err := oneArg(fs)
	if err != nil {
		return err
	}
	if _, err := a.mgr.Open(path); err != nil {
		return err
	}
	p, err := a.mgr.Export(*out)
	if err != nil {
		return err
	}
	fmt.Println(p)
	return nil
}

func runThumb(a *app, args []string) error {
	fs := newFlagSet("thumb")
	var (
		size = fs.Int("size", 128, "longest side in pixels")
		out  = fs.String("o", "", "output PNG file, default <document name>_thumb.png")
	)
	_ = fs.Parse(args)
	path, err := oneArg(fs)
	if err != nil {
		return err
	}
	doc, err := a.mgr.Open(path)
	if err != nil {
		return err
	}
	img, err := imageio.Thumbnail(doc.Stack, *size)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = document.FileStem(doc.Name) + "_thumb.png"
	}
	p, err := a.mgr.Resolve(*out)
	if err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println(p)
	return nil
}

func runStroke(a *app, args []string) error {
	fs := newFlagSet("stroke")
	var (
		points = fs.String("points", "", "stroke points as \"x,y;x,y;...\"")
		size   = fs.Int("size", a.cfg.Brush.Size, "brush diameter in pixels")
		hex    = fs.String("color", "#000000", "brush color as #rgb, #rrggbb or #rrggbbaa")
		spline = fs.Bool("spline", false, "smooth the stroke through a Catmull-Rom spline")
		layer  = fs.Int("layer", -1, "layer index, -1 for the top layer")
	)
	_ = fs.Parse(args)
	path, err := oneArg(fs)
	if err != nil {
		return err
	}
	pts, err := parsePoints(*points)
	if err != nil {
		return err
	}

	doc, err := a.mgr.Open(path)
	if err != nil {
		return err
	}
	if *layer >= 0 {
		if err := a.mgr.SelectLayer(*layer); err != nil {
			return err
		}
	}
	c, err := painter.Hex(*hex, doc.Stack.Depth())
	if err != nil {
		return err
	}

	draw := a.mgr.DrawBrush
	if *spline {
		draw = a.mgr.DrawSplineBrush
	}
	var dirty image.Rectangle
	for _, p := range pts {
		r, err := draw(p, *size, c)
		if err != nil {
			return err
		}
		dirty = dirty.Union(r)
	}
	if err := doc.Stack.EndStroke(); err != nil {
		return err
	}

	saved, err := a.mgr.Save(doc.Path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: painted %v\n", saved, dirty)
	return nil
}

func runMerge(a *app, args []string) error {
	fs := newFlagSet("merge")
	_ = fs.Parse(args)
	path, err := oneArg(fs)
	if err != nil {
		return err
	}
	doc, err := a.mgr.Open(path)
	if err != nil {
		return err
	}
	before := doc.Stack.Len()
	if _, err := doc.Stack.FlattenVisible(); err != nil {
		return err
	}
	saved, err := a.mgr.Save(doc.Path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d layers merged into %d\n", saved, before, doc.Stack.Len())
	return nil
}

// parsePoints parses "x,y;x,y;..." into points.
func parsePoints(s string) ([]image.Point, error) {
	var pts []image.Point
	for _, field := range strings.Split(s, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,y", field)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", field, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", field, err)
		}
		pts = append(pts, image.Pt(x, y))
	}
	if len(pts) == 0 {
		return nil, errors.New("no points")
	}
	return pts, nil
}
