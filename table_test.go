// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim_test

import (
	"image"
	"reflect"
	"testing"

	sim "github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

func Test_tabulate(t *testing.T) {
	ha := halfAdderGate(t)
	tab, err := sim.Tabulate(ha)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	if _, ok := tab.Behavior().(*sim.Table); !ok {
		t.Fatalf("expected a table behavior, got %T", tab.Behavior())
	}
	if !reflect.DeepEqual(ha.ToMapping(), tab.ToMapping()) {
		t.Fatal("table does not serialize as its source")
	}
	table := [][]bool{
		{false, false, false, false},
		{false, true, true, false},
		{true, false, true, false},
		{true, true, false, true},
	}
	checkTable(t, ha, table)
	checkTable(t, tab, table)

	l, err := sim.GateFromMapping(tab.ToMapping())
	if err != nil {
		t.Fatal(err)
	}
	checkTable(t, l, table)
}

func Test_tabulate_impure(t *testing.T) {
	c := sim.New("clock")
	tm := c.Place(sim.NewTimer(), image.Pt(100, 20))
	connect(t, c, tm.Outputs()[0], c.Outputs()[0])
	g := c.Promote("CLK")
	if _, err := sim.Tabulate(g); errors.Cause(err) != sim.ErrImpure {
		t.Fatalf("expected ErrImpure, got %v", err)
	}
	if _, err := sim.Tabulate(sim.NewTimer()); errors.Cause(err) != sim.ErrImpure {
		t.Fatalf("expected ErrImpure, got %v", err)
	}

	// a NOT gate looped on itself holds state
	c = sim.New("LOOP")
	not := c.Place(sim.NewNot(), image.Pt(100, 20))
	connect(t, c, not.Outputs()[0], not.Inputs()[0])
	connect(t, c, not.Outputs()[0], c.Outputs()[0])
	if _, err := sim.Tabulate(c.Promote("LOOP")); errors.Cause(err) != sim.ErrImpure {
		t.Fatalf("expected ErrImpure, got %v", err)
	}
	// and so does any gate embedding it
	outer := sim.New("OUTER")
	inner := outer.Place(c.Promote("LOOP"), image.Pt(100, 20))
	connect(t, outer, inner.Outputs()[0], outer.Outputs()[0])
	if _, err := sim.Tabulate(outer.Promote("OUTER")); errors.Cause(err) != sim.ErrImpure {
		t.Fatalf("expected ErrImpure, got %v", err)
	}
}

func Test_tabulate_too_many_inputs(t *testing.T) {
	c := sim.New("wide")
	for i := 0; i < sim.MaxTableInputs; i++ {
		c.AddInput()
	}
	if _, err := sim.Tabulate(c.Promote("WIDE")); errors.Cause(err) != sim.ErrTooManyInputs {
		t.Fatalf("expected ErrTooManyInputs, got %v", err)
	}
}
