// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"fmt"
	"image"
)

// Gate geometry.
//
const (
	NodeSize = 10 // side of a node square
	PinGap   = 5  // vertical gap between two nodes
	TextPadX = 20 // horizontal padding around the gate name
	TextPadY = 5  // vertical padding around the gate name
	GlyphW   = 8  // width of one character of the gate name
	GlyphH   = 13 // height of the gate name
)

// Default gate colors.
//
const (
	GateColor     = "#222222"
	GateTextColor = "#ffffff"
)

// A Behavior computes the outputs of a gate from its inputs.
//
// Implementations are *Primitive, *Composite and *Table. A behavior is
// resolved once when the gate is built.
//
type Behavior interface {
	// Arity returns the number of inputs and outputs.
	Arity() (in, out int)

	eval(in []bool) []bool
	clone() Behavior
	pure() bool
	mapping() any
}

// ArityError is the panic value of Gate.Evaluate when called with the wrong
// number of inputs, or when a behavior returns the wrong number of outputs.
// Either case is a construction bug.
//
type ArityError struct {
	Gate      string
	Got, Want int
	Output    bool
}

func (e *ArityError) Error() string {
	what := "inputs"
	if e.Output {
		what = "outputs"
	}
	return fmt.Sprintf("logicsim: gate %q: got %d %s, want %d", e.Gate, e.Got, what, e.Want)
}

// A Gate is a named unit with input and output nodes and a behavior.
//
type Gate struct {
	// Name is the gate label.
	Name string
	// Color is the body color, TextColor the label color.
	Color, TextColor string

	pos  image.Point
	ins  []*Node
	outs []*Node
	b    Behavior
}

// NewGate returns a new gate at the origin with fresh nodes matching the
// arity of b.
//
func NewGate(name string, b Behavior) *Gate {
	in, out := b.Arity()
	g := &Gate{
		Name:      name,
		Color:     GateColor,
		TextColor: GateTextColor,
		ins:       make([]*Node, in),
		outs:      make([]*Node, out),
		b:         b,
	}
	for i := range g.ins {
		g.ins[i] = NewNode(Input)
	}
	for i := range g.outs {
		g.outs[i] = NewNode(Output)
	}
	g.layout()
	return g
}

// Behavior returns the gate behavior.
//
func (g *Gate) Behavior() Behavior { return g.b }

// Arity returns the number of inputs and outputs of g.
//
func (g *Gate) Arity() (in, out int) { return len(g.ins), len(g.outs) }

// Inputs returns the input nodes of g.
//
func (g *Gate) Inputs() []*Node { return append([]*Node(nil), g.ins...) }

// Outputs returns the output nodes of g.
//
func (g *Gate) Outputs() []*Node { return append([]*Node(nil), g.outs...) }

// InputStates returns the states of the input nodes.
//
func (g *Gate) InputStates() []bool { return states(g.ins) }

// OutputStates returns the states of the output nodes.
//
func (g *Gate) OutputStates() []bool { return states(g.outs) }

// Pos returns the position of the top-left corner of the gate body.
//
func (g *Gate) Pos() image.Point { return g.pos }

// SetPos moves the gate and its nodes.
//
func (g *Gate) SetPos(p image.Point) {
	g.pos = p
	g.layout()
}

// Size returns the size of the gate body.
//
func (g *Gate) Size() image.Point {
	rows := len(g.ins)
	if len(g.outs) > rows {
		rows = len(g.outs)
	}
	h := rows*(NodeSize+PinGap) + PinGap
	if m := GlyphH + 2*TextPadY; h < m {
		h = m
	}
	return image.Pt(2*TextPadX+GlyphW*len(g.Name), h)
}

// Rect returns the rectangle of the gate body.
//
func (g *Gate) Rect() image.Rectangle {
	return image.Rectangle{Min: g.pos, Max: g.pos.Add(g.Size())}
}

// layout places the input nodes along the left edge of the body and the
// output nodes along the right edge, vertically centered.
func (g *Gate) layout() {
	sz := g.Size()
	column := func(ns []*Node, x int) {
		y := g.pos.Y + (sz.Y-len(ns)*(NodeSize+PinGap)+PinGap)/2
		for _, n := range ns {
			n.Rect = image.Rect(x, y, x+NodeSize, y+NodeSize)
			y += NodeSize + PinGap
		}
	}
	column(g.ins, g.pos.X-NodeSize)
	column(g.outs, g.pos.X+sz.X)
}

// Evaluate returns the outputs of the gate behavior for the given inputs. It
// does not change the state of the gate nodes.
//
// Evaluate panics with an *ArityError if len(in) does not match the number of
// gate inputs.
//
func (g *Gate) Evaluate(in []bool) []bool {
	if len(in) != len(g.ins) {
		panic(&ArityError{Gate: g.Name, Got: len(in), Want: len(g.ins)})
	}
	out := g.b.eval(in)
	if len(out) != len(g.outs) {
		panic(&ArityError{Gate: g.Name, Got: len(out), Want: len(g.outs), Output: true})
	}
	return out
}

// sample pulls the state of the wires into the input nodes.
func (g *Gate) sample() {
	for _, n := range g.ins {
		n.Update()
	}
}

// fire evaluates the behavior on the current input states and pushes the
// result through the output nodes.
func (g *Gate) fire() {
	out := g.Evaluate(g.InputStates())
	for i, n := range g.outs {
		n.state = out[i]
		n.Update()
	}
}

// Update runs one simulation step of the gate alone: it samples its inputs,
// evaluates its behavior and updates its outputs.
//
func (g *Gate) Update() {
	g.sample()
	g.fire()
}

// DisconnectAll disconnects every wire connected to any node of g.
//
func (g *Gate) DisconnectAll() {
	for _, n := range g.ins {
		n.DisconnectAll()
	}
	for _, n := range g.outs {
		n.DisconnectAll()
	}
}

// nodes returns the input nodes followed by the output nodes.
func (g *Gate) nodes() []*Node {
	ns := make([]*Node, 0, len(g.ins)+len(g.outs))
	return append(append(ns, g.ins...), g.outs...)
}

// Copy returns a deep copy of g: fresh disconnected nodes with the same
// direction and state, and an independent copy of the behavior.
//
func (g *Gate) Copy() *Gate {
	cp := &Gate{
		Name:      g.Name,
		Color:     g.Color,
		TextColor: g.TextColor,
		pos:       g.pos,
		ins:       make([]*Node, len(g.ins)),
		outs:      make([]*Node, len(g.outs)),
		b:         g.b.clone(),
	}
	for i, n := range g.ins {
		cp.ins[i] = n.clone()
	}
	for i, n := range g.outs {
		cp.outs[i] = n.clone()
	}
	return cp
}

func states(ns []*Node) []bool {
	s := make([]bool, len(ns))
	for i, n := range ns {
		s[i] = n.state
	}
	return s
}
