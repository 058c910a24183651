// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package logicsim is the simulation core of an interactive logic circuit editor.

A Circuit owns gates, wires and its own input and output nodes. Gates are
either primitive (And, Not and a free running Timer) or composite: a composite
gate embeds a private copy of a circuit, obtained by promoting that circuit
with Circuit.Promote. Composites can be nested to any depth.

The simulation is tick driven. Each call to Circuit.Update moves signals
through exactly one gate, so that a chain of N gates takes N ticks to settle
and feedback loops oscillate or settle over several ticks instead of
recursing:

	c := logicsim.New("osc")
	not := c.Place(logicsim.NewNot(), image.Pt(100, 100))
	c.Connect(not.Outputs()[0])
	c.Connect(not.Inputs()[0])
	for i := 0; i < 4; i++ {
		c.Update()
		fmt.Println(not.OutputStates()[0]) // true, false, true, false
	}

Composite gates hide that delay by running a fixed number of update passes of
their embedded circuit on every evaluation (see Circuit.SetSettlePasses).

Wires are created with a two-click protocol: the first Connect call creates a
pending wire attached to the clicked node, the second one completes it, or
rejects it if both nodes face the same way.

Circuits are saved as plain nested maps (see Circuit.ToMapping and
FromMapping). Wires reference the nodes they connect by index in the list of
all circuit nodes: circuit inputs, then each gate's inputs and outputs, then
circuit outputs.
*/
package logicsim
