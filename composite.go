// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

// A Composite is a behavior delegated to a private copy of a circuit.
//
// Evaluation drives the inputs into the embedded circuit's inputs, force
// settles the circuit and reads its outputs. The embedded circuit keeps its
// state between evaluations, so composites built from feedback loops behave
// as memory.
//
type Composite struct {
	c *Circuit
}

// NewComposite returns a composite behavior embedding a copy of c.
//
func NewComposite(c *Circuit) *Composite {
	return &Composite{c: c.Copy()}
}

// Circuit returns a copy of the embedded circuit.
//
func (b *Composite) Circuit() *Circuit { return b.c.Copy() }

// Arity implements Behavior.
//
func (b *Composite) Arity() (in, out int) { return len(b.c.inputs), len(b.c.outputs) }

func (b *Composite) eval(in []bool) []bool {
	for i, v := range in {
		b.c.inputs[i].state = v
	}
	b.c.Settle()
	return b.c.OutputStates()
}

func (b *Composite) clone() Behavior { return &Composite{c: b.c.Copy()} }

// pure reports whether the circuit holds no timer and no feedback loop, its
// outputs then only depend on its inputs.
func (b *Composite) pure() bool {
	for _, g := range b.c.gates {
		if !g.b.pure() {
			return false
		}
	}
	return !b.c.cyclic()
}

// cyclic reports whether some gate of c feeds back into itself through wires
// and other gates.
func (c *Circuit) cyclic() bool {
	owner := make(map[*Node]int)
	for i, g := range c.gates {
		for _, n := range g.ins {
			owner[n] = i
		}
	}
	next := make([][]int, len(c.gates))
	for i, g := range c.gates {
		for _, o := range g.outs {
			for _, w := range o.wires {
				if j, ok := owner[w.in]; ok {
					next[i] = append(next[i], j)
				}
			}
		}
	}
	const (
		unseen = iota
		active
		done
	)
	mark := make([]int, len(c.gates))
	var visit func(i int) bool
	visit = func(i int) bool {
		mark[i] = active
		for _, j := range next[i] {
			if mark[j] == active || mark[j] == unseen && visit(j) {
				return true
			}
		}
		mark[i] = done
		return false
	}
	for i := range c.gates {
		if mark[i] == unseen && visit(i) {
			return true
		}
	}
	return false
}

func (b *Composite) mapping() any { return b.c.ToMapping() }
