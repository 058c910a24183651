// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Circuit port layout.
//
const (
	InputColumnX  = 20  // x coordinate of circuit inputs
	OutputColumnX = 600 // x coordinate of circuit outputs
	PortTop       = 20  // y coordinate of the first port
	PortPitch     = 30  // vertical distance between two ports
)

// DefaultTheme is the theme color of new circuits.
//
const DefaultTheme = "#ff4040"

// MaxSettlePasses bounds the number of forced settle passes.
//
const MaxSettlePasses = 64

// Circuit is an editable circuit simulation.
//
// Circuit inputs are Output nodes: their state is the manual toggle and they
// push it into their wires. Circuit outputs are Input nodes pulling from their
// wires.
//
// A Circuit is not safe for concurrent use.
//
type Circuit struct {
	// Name is the circuit name. Promoted gates are named after it.
	Name string
	// Theme is the circuit theme color.
	Theme string

	inputs  []*Node
	outputs []*Node
	gates   []*Gate
	wires   []*Wire
	pending *Wire
	passes  int
	tick    uint
}

// New returns a new circuit with one input and one output.
//
func New(name string) *Circuit {
	c := &Circuit{Name: name, Theme: DefaultTheme, passes: 1}
	c.AddInput()
	c.AddOutput()
	return c
}

// AddInput adds a circuit input and returns its node.
//
func (c *Circuit) AddInput() *Node {
	n := NewNode(Output)
	c.inputs = append(c.inputs, n)
	layoutPorts(c.inputs, InputColumnX)
	return n
}

// AddOutput adds a circuit output and returns its node.
//
func (c *Circuit) AddOutput() *Node {
	n := NewNode(Input)
	c.outputs = append(c.outputs, n)
	layoutPorts(c.outputs, OutputColumnX)
	return n
}

func layoutPorts(ns []*Node, x int) {
	for i, n := range ns {
		y := PortTop + i*PortPitch
		n.Rect = image.Rect(x, y, x+NodeSize, y+NodeSize)
	}
}

// Inputs returns the circuit input nodes.
//
func (c *Circuit) Inputs() []*Node { return append([]*Node(nil), c.inputs...) }

// Outputs returns the circuit output nodes.
//
func (c *Circuit) Outputs() []*Node { return append([]*Node(nil), c.outputs...) }

// Gates returns the circuit gates.
//
func (c *Circuit) Gates() []*Gate { return append([]*Gate(nil), c.gates...) }

// Wires returns every wire in the circuit, including the pending wire.
//
func (c *Circuit) Wires() []*Wire { return append([]*Wire(nil), c.wires...) }

// Pending returns the wire awaiting its second endpoint, or nil.
//
func (c *Circuit) Pending() *Wire { return c.pending }

// InputStates returns the states of the circuit inputs.
//
func (c *Circuit) InputStates() []bool { return states(c.inputs) }

// OutputStates returns the states of the circuit outputs.
//
func (c *Circuit) OutputStates() []bool { return states(c.outputs) }

// SetInput sets the manual toggle of circuit input i.
//
func (c *Circuit) SetInput(i int, v bool) error {
	if i < 0 || i >= len(c.inputs) {
		return indexError("circuit input", i, len(c.inputs))
	}
	c.inputs[i].state = v
	return nil
}

// ToggleInput flips the manual toggle of circuit input i.
//
func (c *Circuit) ToggleInput(i int) error {
	if i < 0 || i >= len(c.inputs) {
		return indexError("circuit input", i, len(c.inputs))
	}
	c.inputs[i].state = !c.inputs[i].state
	return nil
}

// SettlePasses returns the number of update passes run by Settle.
//
func (c *Circuit) SettlePasses() int { return c.passes }

// SetSettlePasses sets the number of update passes run by Settle, clamped to
// [1, MaxSettlePasses].
//
// One pass is enough for gates up to one gate-hop deep. Deeper chains need
// one pass per hop.
//
func (c *Circuit) SetSettlePasses(n int) {
	switch {
	case n < 1:
		n = 1
	case n > MaxSettlePasses:
		n = MaxSettlePasses
	}
	c.passes = n
}

// Steps returns the number of times Update has been called.
//
func (c *Circuit) Steps() uint { return c.tick }

// Update advances the simulation by one tick.
//
// Circuit inputs are pushed first, then every wire copies its source. Every
// gate then samples its inputs before any gate fires, so that a signal
// crosses exactly one gate per tick regardless of gate order. Circuit
// outputs are pulled last.
//
// Wires also move their ends onto their endpoint nodes.
//
func (c *Circuit) Update() {
	c.prune()
	c.step(true)
	c.tick++
}

// prune forgets wires left with a missing or foreign endpoint by a direct
// call to Disconnect or DisconnectAll on a node, gate or wire. A pending wire
// is kept while it still has its first endpoint.
func (c *Circuit) prune() {
	ws, _ := c.settled()
	if len(ws) == len(c.wires) {
		return
	}
	keep := make(map[*Wire]bool, len(ws)+1)
	for _, w := range ws {
		keep[w] = true
	}
	if w := c.pending; w != nil && (w.InputConnected() || w.OutputConnected()) {
		keep[w] = true
	}
	for _, w := range c.Wires() {
		if !keep[w] {
			c.dropWire(w)
		}
	}
}

// Run calls Update n times.
//
func (c *Circuit) Run(n int) {
	for ; n > 0; n-- {
		c.Update()
	}
}

// Settle runs SettlePasses update passes without touching wire geometry.
//
func (c *Circuit) Settle() {
	for i := 0; i < c.passes; i++ {
		c.step(false)
	}
}

func (c *Circuit) step(live bool) {
	for _, n := range c.inputs {
		n.Update()
	}
	for _, w := range c.wires {
		if live {
			w.Update()
		} else {
			w.propagate()
		}
	}
	for _, g := range c.gates {
		g.sample()
	}
	for _, g := range c.gates {
		g.fire()
	}
	for _, n := range c.outputs {
		n.Update()
	}
}

// AddGate adds g to the circuit. The circuit takes ownership of g, which must
// not be connected to anything.
//
func (c *Circuit) AddGate(g *Gate) {
	c.gates = append(c.gates, g)
	Logger().Debug("gate added", zap.String("circuit", c.Name), zap.String("gate", g.Name))
}

// Place adds an independent copy of proto to the circuit at p snapped to the
// grid, and returns it.
//
func (c *Circuit) Place(proto *Gate, p image.Point) *Gate {
	g := proto.Copy()
	g.SetPos(Snap(p))
	c.AddGate(g)
	return g
}

// RemoveGate removes gate i and every wire connected to it.
//
func (c *Circuit) RemoveGate(i int) error {
	if i < 0 || i >= len(c.gates) {
		return indexError("gate", i, len(c.gates))
	}
	g := c.gates[i]
	for _, n := range g.nodes() {
		c.dropWires(n)
	}
	g.DisconnectAll()
	copy(c.gates[i:], c.gates[i+1:])
	c.gates[len(c.gates)-1] = nil
	c.gates = c.gates[:len(c.gates)-1]
	Logger().Debug("gate removed", zap.String("circuit", c.Name), zap.String("gate", g.Name), zap.Int("index", i))
	return nil
}

// RemoveInput removes circuit input i and every wire connected to it. The
// last input cannot be removed.
//
func (c *Circuit) RemoveInput(i int) (err error) {
	c.inputs, err = c.removePort(c.inputs, i, "circuit input")
	if err == nil {
		layoutPorts(c.inputs, InputColumnX)
	}
	return err
}

// RemoveOutput removes circuit output i and every wire connected to it. The
// last output cannot be removed.
//
func (c *Circuit) RemoveOutput(i int) (err error) {
	c.outputs, err = c.removePort(c.outputs, i, "circuit output")
	if err == nil {
		layoutPorts(c.outputs, OutputColumnX)
	}
	return err
}

func (c *Circuit) removePort(ns []*Node, i int, what string) ([]*Node, error) {
	if i < 0 || i >= len(ns) {
		return ns, indexError(what, i, len(ns))
	}
	if len(ns) == 1 {
		return ns, errors.Wrap(ErrLastPort, what)
	}
	c.dropWires(ns[i])
	copy(ns[i:], ns[i+1:])
	ns[len(ns)-1] = nil
	Logger().Debug("port removed", zap.String("circuit", c.Name), zap.String("port", what), zap.Int("index", i))
	return ns[:len(ns)-1], nil
}

// RemoveWire disconnects w and removes it from the circuit.
//
func (c *Circuit) RemoveWire(w *Wire) error {
	if c.findWire(w) < 0 {
		return errors.Wrap(ErrForeign, "remove wire")
	}
	c.dropWire(w)
	Logger().Debug("wire removed", zap.String("circuit", c.Name))
	return nil
}

func (c *Circuit) findWire(w *Wire) int {
	for i, cw := range c.wires {
		if cw == w {
			return i
		}
	}
	return -1
}

// dropWire disconnects w and forgets it.
func (c *Circuit) dropWire(w *Wire) {
	w.Disconnect()
	if i := c.findWire(w); i >= 0 {
		copy(c.wires[i:], c.wires[i+1:])
		c.wires[len(c.wires)-1] = nil
		c.wires = c.wires[:len(c.wires)-1]
	}
	if c.pending == w {
		c.pending = nil
	}
}

// dropWires drops every wire connected to n.
func (c *Circuit) dropWires(n *Node) {
	for _, w := range n.Wires() {
		c.dropWire(w)
	}
}

// Dispose disconnects and forgets every wire.
//
func (c *Circuit) Dispose() {
	for _, w := range c.wires {
		w.Disconnect()
	}
	c.wires = nil
	c.pending = nil
}

// Promote returns a new composite gate embedding a snapshot of c. Later edits
// to c do not affect the returned gate.
//
func (c *Circuit) Promote(name string) *Gate {
	g := NewGate(name, NewComposite(c))
	Logger().Debug("circuit promoted",
		zap.String("circuit", c.Name),
		zap.String("gate", name),
		zap.Int("inputs", len(c.inputs)),
		zap.Int("outputs", len(c.outputs)),
		zap.Int("settle_passes", c.passes))
	return g
}
