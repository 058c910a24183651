// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "github.com/pkg/errors"

// arena returns every node of c in a deterministic order: circuit inputs,
// then the inputs and outputs of each gate in gate order, then circuit
// outputs. Wires are addressed by positions in this list across copies and
// save files.
func (c *Circuit) arena() []*Node {
	ns := make([]*Node, 0, len(c.inputs)+len(c.outputs)+2*len(c.gates))
	ns = append(ns, c.inputs...)
	for _, g := range c.gates {
		ns = append(ns, g.ins...)
		ns = append(ns, g.outs...)
	}
	return append(ns, c.outputs...)
}

// settled returns the wires of c that connect two nodes of c, along with
// the sorted arena indices of their endpoints. The pending wire and wires left
// with a missing or foreign endpoint by a direct Disconnect are skipped.
func (c *Circuit) settled() ([]*Wire, [][]int) {
	pos := make(map[*Node]int)
	for i, n := range c.arena() {
		pos[n] = i
	}
	ws := make([]*Wire, 0, len(c.wires))
	idx := make([][]int, 0, len(c.wires))
	for _, w := range c.wires {
		if w == c.pending || !w.Complete() {
			continue
		}
		i, ok := pos[w.out]
		k, ok2 := pos[w.in]
		if !ok || !ok2 {
			continue
		}
		if k < i {
			i, k = k, i
		}
		ws = append(ws, w)
		idx = append(idx, []int{i, k})
	}
	return ws, idx
}

// ConnectionIndexes returns for each connected wire, pending wire excluded,
// the positions of the nodes it connects in the list of all circuit nodes:
// circuit inputs, each gate's inputs then outputs, circuit outputs.
//
func (c *Circuit) ConnectionIndexes() [][]int {
	_, idx := c.settled()
	return idx
}

// reconnect connects each wire of c, which must all be disconnected, to the
// nodes at the given arena indices.
func (c *Circuit) reconnect(idx [][]int) error {
	if len(idx) != len(c.wires) {
		return errors.Wrapf(ErrMalformedSave, "%d wires but %d connection index lists", len(c.wires), len(idx))
	}
	ns := c.arena()
	for i, w := range c.wires {
		if len(idx[i]) != 2 {
			return errors.Wrapf(ErrMalformedSave, "wire %d: %d connection indexes, want 2", i, len(idx[i]))
		}
		for _, k := range idx[i] {
			if k < 0 || k >= len(ns) {
				return errors.Wrapf(ErrMalformedSave, "wire %d: node index %d out of range [0, %d)", i, k, len(ns))
			}
			if err := ns[k].Connect(w); err != nil {
				return errors.Wrapf(ErrMalformedSave, "wire %d: node %d: %v", i, k, err)
			}
		}
		if !w.Complete() {
			return errors.Wrapf(ErrMalformedSave, "wire %d: connects two %s nodes", i, ns[idx[i][0]].dir)
		}
	}
	return nil
}

// Copy returns a deep copy of c. The pending wire is not copied.
//
func (c *Circuit) Copy() *Circuit {
	ws, idx := c.settled()
	cp := &Circuit{
		Name:    c.Name,
		Theme:   c.Theme,
		inputs:  make([]*Node, len(c.inputs)),
		outputs: make([]*Node, len(c.outputs)),
		gates:   make([]*Gate, len(c.gates)),
		passes:  c.passes,
	}
	for i, n := range c.inputs {
		cp.inputs[i] = n.clone()
	}
	for i, g := range c.gates {
		cp.gates[i] = g.Copy()
	}
	for i, n := range c.outputs {
		cp.outputs[i] = n.clone()
	}
	for _, w := range ws {
		cp.wires = append(cp.wires, w.clone())
	}
	if err := cp.reconnect(idx); err != nil {
		panic(err)
	}
	return cp
}
