// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"image"
	"math"
)

// GridSize is the spacing of the editing grid.
//
const GridSize = 10

// Snap snaps p to the grid, rounding toward negative infinity.
//
func Snap(p image.Point) image.Point {
	return image.Pt(floorTo(p.X, GridSize), floorTo(p.Y, GridSize))
}

func floorTo(v, n int) int {
	m := v % n
	if m < 0 {
		m += n
	}
	return v - m
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// distToSegment returns the euclidean distance from p to segment [a, b].
func distToSegment(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	px, py := float64(p.X-a.X), float64(p.Y-a.Y)
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px, py)
	}
	t := (px*dx + py*dy) / l2
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return math.Hypot(px-t*dx, py-t*dy)
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
