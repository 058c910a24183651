// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "github.com/pkg/errors"

// MaxTableInputs is the maximum number of inputs of a tabulated gate.
//
const MaxTableInputs = 16

// A Table is a behavior backed by a precomputed truth table.
//
// A table serializes as the behavior it was computed from.
//
type Table struct {
	src     Behavior
	in, out int
	rows    [][]bool
}

// Tabulate returns a copy of g whose behavior is the truth table of g's
// behavior, computed by evaluating a copy of it over every input vector in
// increasing order, input 0 being the least significant bit.
//
// The table is only faithful for gates whose internal depth does not exceed
// their settle passes. Gates containing a Timer or a feedback loop, such as
// a latch, are rejected with ErrImpure.
//
func Tabulate(g *Gate) (*Gate, error) {
	in, out := g.b.Arity()
	if in > MaxTableInputs {
		return nil, errors.Wrapf(ErrTooManyInputs, "tabulate %s: %d inputs", g.Name, in)
	}
	if !g.b.pure() {
		return nil, errors.Wrapf(ErrImpure, "tabulate %s", g.Name)
	}
	b := g.b.clone()
	t := &Table{src: b.clone(), in: in, out: out, rows: make([][]bool, 1<<uint(in))}
	v := make([]bool, in)
	for k := range t.rows {
		for i := range v {
			v[i] = k&(1<<uint(i)) != 0
		}
		t.rows[k] = append([]bool(nil), b.eval(v)...)
	}
	cp := g.Copy()
	cp.b = t
	return cp, nil
}

// Source returns a copy of the behavior the table was computed from.
//
func (t *Table) Source() Behavior { return t.src.clone() }

// Arity implements Behavior.
//
func (t *Table) Arity() (in, out int) { return t.in, t.out }

func (t *Table) eval(in []bool) []bool {
	k := 0
	for i, v := range in {
		if v {
			k |= 1 << uint(i)
		}
	}
	return append([]bool(nil), t.rows[k]...)
}

// tables are immutable.
func (t *Table) clone() Behavior { return t }
func (t *Table) pure() bool      { return true }
func (t *Table) mapping() any    { return t.src.mapping() }
