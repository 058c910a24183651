// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package render draws circuit snapshots.
//
package render

import (
	"image"

	"github.com/db47h/logicsim"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Background is the canvas color.
//
const Background = "#ffffff"

// Options controls the output image.
//
type Options struct {
	Scale  float64 // pixels per circuit unit
	Margin int     // blank border, in circuit units
}

// DefaultOptions returns the default render options.
//
func DefaultOptions() Options { return Options{Scale: 1, Margin: 20} }

// Bounds returns the smallest rectangle holding every port, gate and wire of c.
//
func Bounds(c *logicsim.Circuit) image.Rectangle {
	var r image.Rectangle
	add := func(b image.Rectangle) {
		if r.Empty() {
			r = b
		} else {
			r = r.Union(b)
		}
	}
	for _, n := range c.Inputs() {
		add(n.Rect)
	}
	for _, n := range c.Outputs() {
		add(n.Rect)
	}
	for _, g := range c.Gates() {
		add(g.Rect())
		for _, n := range g.Inputs() {
			add(n.Rect)
		}
		for _, n := range g.Outputs() {
			add(n.Rect)
		}
	}
	for _, w := range c.Wires() {
		for _, p := range w.Points() {
			add(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
		}
	}
	return r
}

// Render draws c and returns the resulting image.
//
func Render(c *logicsim.Circuit, opts Options) (image.Image, error) {
	if opts.Scale <= 0 {
		return nil, errors.Errorf("invalid scale %v", opts.Scale)
	}
	b := Bounds(c)
	if b.Empty() {
		b = image.Rect(0, 0, 1, 1)
	}
	b = b.Inset(-opts.Margin)
	dc := gg.NewContext(int(float64(b.Dx())*opts.Scale), int(float64(b.Dy())*opts.Scale))
	dc.SetHexColor(Background)
	dc.Clear()
	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(float64(-b.Min.X), float64(-b.Min.Y))

	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse font")
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{
		Size:    float64(logicsim.GlyphH),
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	// wires below gates
	for _, w := range c.Wires() {
		drawWire(dc, w)
	}
	for _, g := range c.Gates() {
		drawGate(dc, g)
	}
	for _, n := range c.Inputs() {
		drawNode(dc, n)
	}
	for _, n := range c.Outputs() {
		drawNode(dc, n)
	}
	return dc.Image(), nil
}

// SavePNG renders c to a PNG file.
//
func SavePNG(path string, c *logicsim.Circuit, opts Options) error {
	dc, err := Render(c, opts)
	if err != nil {
		return err
	}
	if err = gg.SavePNG(path, dc); err != nil {
		return errors.Wrap(err, "failed to save png")
	}
	return nil
}

func drawWire(dc *gg.Context, w *logicsim.Wire) {
	pts := w.Points()
	if len(pts) < 2 {
		return
	}
	if w.State() {
		dc.SetHexColor(w.OnColor)
	} else {
		dc.SetHexColor(w.OffColor)
	}
	dc.SetLineWidth(float64(w.Width))
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.MoveTo(float64(pts[0].X), float64(pts[0].Y))
	for _, p := range pts[1:] {
		dc.LineTo(float64(p.X), float64(p.Y))
	}
	dc.Stroke()
}

func drawGate(dc *gg.Context, g *logicsim.Gate) {
	r := g.Rect()
	dc.SetHexColor(g.Color)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Fill()
	dc.SetHexColor(g.TextColor)
	dc.DrawStringAnchored(g.Name, float64(r.Min.X+r.Max.X)/2, float64(r.Min.Y+r.Max.Y)/2, 0.5, 0.5)
	for _, n := range g.Inputs() {
		drawNode(dc, n)
	}
	for _, n := range g.Outputs() {
		drawNode(dc, n)
	}
}

func drawNode(dc *gg.Context, n *logicsim.Node) {
	if n.State() {
		dc.SetHexColor(n.OnColor)
	} else {
		dc.SetHexColor(n.OffColor)
	}
	r := n.Rect
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Fill()
}
