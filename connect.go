// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PickTolerance is the maximum distance in pixels between a click and a wire
// segment or breakpoint handle for the click to hit it.
//
const PickTolerance = 5.0

// Button identifies a mouse button.
//
type Button uint8

// Mouse buttons.
//
const (
	Left Button = iota
	Middle
	Right
)

func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Middle:
		return "middle"
	case Right:
		return "right"
	}
	return "unknown"
}

// Connect runs the two-click connection protocol with node n.
//
// With no pending wire, a new wire is created, attached to n and becomes the
// pending wire. Otherwise n is attached to the pending wire, which is then
// complete. If the pending wire already has an endpoint in n's direction, the
// connection would be circular: the pending wire is discarded and Connect
// returns an error whose cause is ErrInvalidConnection.
//
func (c *Circuit) Connect(n *Node) error {
	if !c.owns(n) {
		return errors.Wrap(ErrForeign, "connect")
	}
	w := c.pending
	if w == nil {
		p := n.Center()
		w = NewWire(p, p)
		if err := n.Connect(w); err != nil {
			return err
		}
		c.wires = append(c.wires, w)
		c.pending = w
		Logger().Debug("wire started", zap.String("circuit", c.Name), zap.Stringer("direction", n.dir))
		return nil
	}
	if (n.dir == Input && w.InputConnected()) || (n.dir == Output && w.OutputConnected()) {
		c.dropWire(w)
		Logger().Debug("wire rejected", zap.String("circuit", c.Name), zap.Stringer("direction", n.dir))
		return errors.Wrapf(ErrInvalidConnection, "wire already has an %s endpoint", n.dir)
	}
	if err := n.Connect(w); err != nil {
		c.dropWire(w)
		return err
	}
	c.pending = nil
	w.follow()
	Logger().Debug("wire connected", zap.String("circuit", c.Name))
	return nil
}

// CancelPending discards the pending wire, if any.
//
func (c *Circuit) CancelPending() {
	if c.pending != nil {
		c.dropWire(c.pending)
	}
}

// Drag moves the loose end of the pending wire to p.
//
func (c *Circuit) Drag(p image.Point) {
	if c.pending != nil {
		c.pending.moveFreeEnd(p)
	}
}

// ClickEmpty handles a click on an empty area of the canvas: while a wire is
// pending, it fixes a new breakpoint at p snapped to the grid.
//
func (c *Circuit) ClickEmpty(p image.Point) {
	if c.pending != nil {
		c.pending.pin(Snap(p))
	}
}

// ClickNode handles a click with button b on node n. Left runs the connection
// protocol. Right removes the gate or circuit port owning n. Middle does
// nothing.
//
func (c *Circuit) ClickNode(n *Node, b Button) error {
	switch b {
	case Left:
		return c.Connect(n)
	case Right:
		return c.removeOwner(n)
	}
	return nil
}

// ClickWire handles a click with button b at p on wire w. Right removes the
// breakpoint under p or, if there is none, the wire. Middle splits the
// segment under p. Left does nothing.
//
func (c *Circuit) ClickWire(w *Wire, b Button, p image.Point) error {
	if c.findWire(w) < 0 {
		return errors.Wrap(ErrForeign, "click wire")
	}
	switch b {
	case Right:
		if i, ok := w.HandleAt(p, PickTolerance); ok {
			return w.RemoveBreakpoint(i)
		}
		return c.RemoveWire(w)
	case Middle:
		if i, ok := w.SegmentAt(p, PickTolerance); ok {
			return w.SplitSegment(i, p)
		}
	}
	return nil
}

// owner kinds returned by locate.
const (
	ownerNone = iota
	ownerInput
	ownerOutput
	ownerGate
)

// locate returns the kind and index of the element owning n.
func (c *Circuit) locate(n *Node) (kind, index int) {
	for i, p := range c.inputs {
		if p == n {
			return ownerInput, i
		}
	}
	for i, p := range c.outputs {
		if p == n {
			return ownerOutput, i
		}
	}
	for i, g := range c.gates {
		for _, gn := range g.nodes() {
			if gn == n {
				return ownerGate, i
			}
		}
	}
	return ownerNone, -1
}

func (c *Circuit) owns(n *Node) bool {
	k, _ := c.locate(n)
	return k != ownerNone
}

func (c *Circuit) removeOwner(n *Node) error {
	switch k, i := c.locate(n); k {
	case ownerInput:
		return c.RemoveInput(i)
	case ownerOutput:
		return c.RemoveOutput(i)
	case ownerGate:
		return c.RemoveGate(i)
	}
	return errors.Wrap(ErrForeign, "remove")
}
