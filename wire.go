// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"image"

	"github.com/pkg/errors"
)

// Default wire appearance.
//
const (
	WireWidth    = 5
	WireOnColor  = "#ffc0cb"
	WireOffColor = "#a9a9a9"
)

// A Segment is a straight section of a wire's routing polyline.
//
type Segment struct {
	From, To image.Point
}

// A Wire carries a boolean signal from one Output node (its source) to one
// Input node (its sink).
//
// A wire with a single endpoint is pending: it reads as false and does not
// propagate anything. The routing polyline is purely cosmetic.
//
type Wire struct {
	state bool
	in    *Node // sink, an Input node
	out   *Node // source, an Output node
	segs  []Segment

	// Width is the drawing width of the wire.
	Width int
	// OnColor and OffColor are the colors used to draw the wire.
	OnColor, OffColor string
}

// NewWire returns a disconnected wire routed as a single segment from a to b.
//
func NewWire(a, b image.Point) *Wire {
	return &Wire{
		segs:     []Segment{{a, b}},
		Width:    WireWidth,
		OnColor:  WireOnColor,
		OffColor: WireOffColor,
	}
}

// State returns the wire state. Wires that are not fully connected are always
// off.
//
func (w *Wire) State() bool {
	return w.Complete() && w.state
}

// Source returns the Output node feeding w, or nil.
//
func (w *Wire) Source() *Node { return w.out }

// Sink returns the Input node fed by w, or nil.
//
func (w *Wire) Sink() *Node { return w.in }

// InputConnected returns true if the input endpoint (sink) is connected.
//
func (w *Wire) InputConnected() bool { return w.in != nil }

// OutputConnected returns true if the output endpoint (source) is connected.
//
func (w *Wire) OutputConnected() bool { return w.out != nil }

// Complete returns true if both endpoints are connected.
//
func (w *Wire) Complete() bool { return w.in != nil && w.out != nil }

// IsConnectedTo returns true if n is one of the endpoints of w.
//
func (w *Wire) IsConnectedTo(n *Node) bool {
	return n != nil && (w.in == n || w.out == n)
}

func (w *Wire) slot(d Direction) **Node {
	if d == Input {
		return &w.in
	}
	return &w.out
}

func (w *Wire) attach(n *Node) error {
	s := w.slot(n.dir)
	if *s != nil && *s != n {
		return errors.Wrapf(ErrAlreadyConnected, "%s endpoint", n.dir)
	}
	*s = n
	return nil
}

func (w *Wire) detach(n *Node) {
	if s := w.slot(n.dir); *s == n {
		*s = nil
	}
}

// Disconnect detaches both endpoints of w.
//
func (w *Wire) Disconnect() {
	if w.in != nil {
		w.in.Disconnect(w)
	}
	if w.out != nil {
		w.out.Disconnect(w)
	}
}

// propagate copies the source state into the wire.
func (w *Wire) propagate() {
	if w.Complete() {
		w.state = w.out.state
	}
}

// Update propagates the source node state into the wire and moves the ends of
// the routing polyline onto the connected nodes.
//
func (w *Wire) Update() {
	w.propagate()
	w.follow()
}

func (w *Wire) follow() {
	if w.out != nil {
		w.segs[0].From = w.out.Center()
	}
	if w.in != nil {
		w.segs[len(w.segs)-1].To = w.in.Center()
	}
}

// Segments returns the routing segments of w.
//
func (w *Wire) Segments() []Segment {
	s := make([]Segment, len(w.segs))
	copy(s, w.segs)
	return s
}

// Points returns the routing polyline: the start point, every breakpoint and
// the end point.
//
func (w *Wire) Points() []image.Point {
	pts := make([]image.Point, 0, len(w.segs)+1)
	pts = append(pts, w.segs[0].From)
	for _, s := range w.segs {
		pts = append(pts, s.To)
	}
	return pts
}

// Breakpoints returns the inner points of the routing polyline. Breakpoint i
// joins segments i and i+1.
//
func (w *Wire) Breakpoints() []image.Point {
	pts := make([]image.Point, 0, len(w.segs)-1)
	for _, s := range w.segs[:len(w.segs)-1] {
		pts = append(pts, s.To)
	}
	return pts
}

// SegmentAt returns the index of the segment closest to p if it is within tol
// of p.
//
func (w *Wire) SegmentAt(p image.Point, tol float64) (int, bool) {
	best, bestD := -1, tol
	for i, s := range w.segs {
		if d := distToSegment(p, s.From, s.To); d <= bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

// HandleAt returns the index of the breakpoint closest to p if it is within
// tol of p.
//
func (w *Wire) HandleAt(p image.Point, tol float64) (int, bool) {
	best, bestD := -1, tol
	for i, bp := range w.Breakpoints() {
		if d := dist(p, bp); d <= bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

// SplitSegment splits segment i in two by inserting a breakpoint at p.
//
func (w *Wire) SplitSegment(i int, p image.Point) error {
	if i < 0 || i >= len(w.segs) {
		return indexError("segment", i, len(w.segs))
	}
	s := w.segs[i]
	w.segs = append(w.segs, Segment{})
	copy(w.segs[i+2:], w.segs[i+1:])
	w.segs[i] = Segment{s.From, p}
	w.segs[i+1] = Segment{p, s.To}
	return nil
}

// MoveBreakpoint moves breakpoint i to p.
//
func (w *Wire) MoveBreakpoint(i int, p image.Point) error {
	if i < 0 || i >= len(w.segs)-1 {
		return indexError("breakpoint", i, len(w.segs)-1)
	}
	w.segs[i].To = p
	w.segs[i+1].From = p
	return nil
}

// RemoveBreakpoint removes breakpoint i, merging the segments on each side.
//
func (w *Wire) RemoveBreakpoint(i int) error {
	if i < 0 || i >= len(w.segs)-1 {
		return indexError("breakpoint", i, len(w.segs)-1)
	}
	w.segs[i].To = w.segs[i+1].To
	w.segs = append(w.segs[:i+1], w.segs[i+2:]...)
	return nil
}

// freeEndAtStart returns true if the loose end of a pending wire is the
// start of the polyline, that is if only the sink is connected.
func (w *Wire) freeEndAtStart() bool {
	return w.in != nil && w.out == nil
}

// moveFreeEnd moves the loose end of a pending wire to p.
func (w *Wire) moveFreeEnd(p image.Point) {
	if w.freeEndAtStart() {
		w.segs[0].From = p
	} else {
		w.segs[len(w.segs)-1].To = p
	}
}

// pin fixes the loose end of a pending wire at p as a new breakpoint.
func (w *Wire) pin(p image.Point) {
	if w.freeEndAtStart() {
		w.segs[0].From = p
		w.segs = append([]Segment{{p, p}}, w.segs...)
	} else {
		w.segs[len(w.segs)-1].To = p
		w.segs = append(w.segs, Segment{p, p})
	}
}

// clone returns a disconnected copy of w.
func (w *Wire) clone() *Wire {
	segs := make([]Segment, len(w.segs))
	copy(segs, w.segs)
	return &Wire{
		state:    w.state,
		segs:     segs,
		Width:    w.Width,
		OnColor:  w.OnColor,
		OffColor: w.OffColor,
	}
}
