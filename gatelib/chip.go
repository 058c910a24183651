// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatelib

import (
	"image"

	"github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

// Layout of the circuits built by Chip.
//
const (
	ColumnWidth = 120
	RowHeight   = 60
)

// A Part places a copy of a gate in a chip and names the signals connected to
// its pins.
//
// In lists the signal driving each gate input. Out lists the signal driven by
// each gate output; an empty name leaves that output unconnected.
//
type Part struct {
	Gate *logicsim.Gate
	In   []string
	Out  []string
}

// P is a shorthand for Part{g, in, out}.
//
func P(g *logicsim.Gate, in []string, out ...string) Part {
	return Part{Gate: g, In: in, Out: out}
}

// Chip builds a circuit from parts and promotes it into a new composite gate.
// The names in inputs and outputs are the chip pins, in order.
//
// Every gate input must be driven by a chip input or by exactly one gate
// output. The settle passes of the chip are set to the length of its longest
// gate chain, so that the chip output is settled after a single evaluation.
//
// An XOR gate could be created like this:
//
//	xor, err := Chip("XOR", []string{"a", "b"}, []string{"out"},
//		P(Nand(), []string{"a", "b"}, "nandAB"),
//		P(Nand(), []string{"a", "nandAB"}, "w0"),
//		P(Nand(), []string{"b", "nandAB"}, "w1"),
//		P(Nand(), []string{"w0", "w1"}, "out"),
//	)
//
func Chip(name string, inputs, outputs []string, parts ...Part) (*logicsim.Gate, error) {
	c, err := Circuit(name, inputs, outputs, parts...)
	if err != nil {
		return nil, err
	}
	return c.Promote(name), nil
}

// Circuit builds the circuit of a chip without promoting it. See Chip.
//
func Circuit(name string, inputs, outputs []string, parts ...Part) (*logicsim.Circuit, error) {
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, errors.Errorf("chip %s: needs at least one input and one output", name)
	}
	c := logicsim.New(name)
	for len(c.Inputs()) < len(inputs) {
		c.AddInput()
	}
	for len(c.Outputs()) < len(outputs) {
		c.AddOutput()
	}

	// signal name -> driver node, and driver part (-1 for chip inputs)
	drivers := make(map[string]*logicsim.Node)
	owner := make(map[string]int)
	for i, n := range inputs {
		if _, ok := drivers[n]; ok {
			return nil, errors.Errorf("chip %s: duplicate input %q", name, n)
		}
		drivers[n] = c.Inputs()[i]
		owner[n] = -1
	}
	gates := make([]*logicsim.Gate, len(parts))
	for pi, p := range parts {
		in, out := p.Gate.Arity()
		if len(p.In) != in || len(p.Out) > out {
			return nil, errors.Errorf("chip %s: part %d (%s): %d inputs and %d outputs connected, gate has %d and %d",
				name, pi, p.Gate.Name, len(p.In), len(p.Out), in, out)
		}
		g := c.Place(p.Gate, image.Pt(0, 0))
		gates[pi] = g
		for o, s := range p.Out {
			if s == "" {
				continue
			}
			if _, ok := drivers[s]; ok {
				return nil, errors.Errorf("chip %s: signal %q driven more than once", name, s)
			}
			drivers[s] = g.Outputs()[o]
			owner[s] = pi
		}
	}

	wire := func(s string, to *logicsim.Node, what string) error {
		from, ok := drivers[s]
		if !ok {
			return errors.Errorf("chip %s: %s: undriven signal %q", name, what, s)
		}
		if err := c.Connect(from); err != nil {
			return errors.Wrapf(err, "chip %s: %s", name, what)
		}
		return errors.Wrapf(c.Connect(to), "chip %s: %s", name, what)
	}
	for pi, p := range parts {
		for i, s := range p.In {
			if err := wire(s, gates[pi].Inputs()[i], p.Gate.Name+" input"); err != nil {
				return nil, err
			}
		}
	}
	for i, s := range outputs {
		if err := wire(s, c.Outputs()[i], "output "+s); err != nil {
			return nil, err
		}
	}

	depth := depths(parts, owner)
	passes := 1
	for pi, g := range gates {
		g.SetPos(image.Pt(depth[pi]*ColumnWidth, logicsim.PortTop+pi*RowHeight))
		if depth[pi] > passes {
			passes = depth[pi]
		}
	}
	c.SetSettlePasses(passes)
	return c, nil
}

// depths returns the length of the longest gate chain from a chip input to
// each part. Chains are cut at len(parts) so that feedback loops terminate.
func depths(parts []Part, owner map[string]int) []int {
	d := make([]int, len(parts))
	for i := range d {
		d[i] = 1
	}
	for iter := 0; iter < len(parts); iter++ {
		changed := false
		for pi, p := range parts {
			for _, s := range p.In {
				if o := owner[s]; o >= 0 && d[o]+1 > d[pi] && d[o] < len(parts) {
					d[pi] = d[o] + 1
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return d
}

// must panics if err is not nil. The gates of this package are static
// definitions, failing to build one is a bug.
func must(g *logicsim.Gate, err error) *logicsim.Gate {
	if err != nil {
		panic(err)
	}
	return g
}
