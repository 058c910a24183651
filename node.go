// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"image"
)

// Direction tells which way a node faces.
//
type Direction uint8

const (
	// Input nodes are driven by the wires connected to them.
	Input Direction = iota
	// Output nodes drive every wire connected to them.
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return "invalid"
}

// Default node colors.
//
const (
	NodeOnColor  = "#ffc0cb"
	NodeOffColor = "#808080"
)

// A Node is a single boolean signal pin.
//
// An Input node may receive many wires: on Update, its state becomes the
// logical OR of all connected wire states. With no wire connected it keeps
// its last state. An Output node may fan out to many wires: on Update, it
// pushes its state into every one of them.
//
type Node struct {
	state bool
	dir   Direction
	wires []*Wire

	// Rect is the screen-space rectangle of the node. It is owned by the UI,
	// the core only persists it.
	Rect image.Rectangle
	// OnColor and OffColor are the colors used to draw the node.
	OnColor, OffColor string
	// Static nodes are not toggled by a click in the UI.
	Static bool
}

// NewNode returns a new disconnected node with the given direction.
//
func NewNode(dir Direction) *Node {
	return &Node{dir: dir, OnColor: NodeOnColor, OffColor: NodeOffColor}
}

// Direction returns the node direction.
//
func (n *Node) Direction() Direction { return n.dir }

// State returns the node state.
//
func (n *Node) State() bool { return n.state }

// SetState sets the node state.
//
func (n *Node) SetState(s bool) { n.state = s }

// Center returns the center of the node's rectangle.
//
func (n *Node) Center() image.Point { return center(n.Rect) }

// Wires returns the wires connected to n.
//
func (n *Node) Wires() []*Wire {
	ws := make([]*Wire, len(n.wires))
	copy(ws, n.wires)
	return ws
}

// IsConnected returns true if w is connected to n.
//
func (n *Node) IsConnected(w *Wire) bool {
	return n.find(w) >= 0
}

func (n *Node) find(w *Wire) int {
	for i, nw := range n.wires {
		if nw == w {
			return i
		}
	}
	return -1
}

// Connect connects n to w and registers n as the endpoint of w matching n's
// direction. Connecting an already connected wire is a no-op. It returns an
// error whose cause is ErrAlreadyConnected if that endpoint of w is taken by
// another node.
//
func (n *Node) Connect(w *Wire) error {
	if n.IsConnected(w) {
		return nil
	}
	if err := w.attach(n); err != nil {
		return err
	}
	n.wires = append(n.wires, w)
	return nil
}

// Disconnect disconnects w from n. It is a no-op if w is not connected.
//
func (n *Node) Disconnect(w *Wire) {
	i := n.find(w)
	if i < 0 {
		return
	}
	copy(n.wires[i:], n.wires[i+1:])
	n.wires[len(n.wires)-1] = nil
	n.wires = n.wires[:len(n.wires)-1]
	w.detach(n)
}

// DisconnectAll fully disconnects every wire connected to n: each wire is
// also detached from its other endpoint.
//
func (n *Node) DisconnectAll() {
	for _, w := range n.Wires() {
		w.Disconnect()
	}
	n.wires = nil
}

// Update updates the node for one simulation step.
//
func (n *Node) Update() {
	switch n.dir {
	case Input:
		if len(n.wires) == 0 {
			return
		}
		s := false
		for _, w := range n.wires {
			s = s || w.State()
		}
		n.state = s
	case Output:
		for _, w := range n.wires {
			w.state = n.state
		}
	}
}

// clone returns a disconnected copy of n.
func (n *Node) clone() *Node {
	return &Node{
		state:    n.state,
		dir:      n.dir,
		Rect:     n.Rect,
		OnColor:  n.OnColor,
		OffColor: n.OffColor,
		Static:   n.Static,
	}
}
