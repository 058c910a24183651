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

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

// connect wires from to to with two Connect calls.
func connect(t *testing.T, c *sim.Circuit, from, to *sim.Node) {
	t.Helper()
	for _, n := range []*sim.Node{from, to} {
		if err := c.Connect(n); err != nil {
			trace(t, err)
			t.Fatal(err)
		}
	}
}

// andCircuit returns a circuit with two inputs driving an AND gate.
func andCircuit(t *testing.T) *sim.Circuit {
	c := sim.New("AND2")
	c.AddInput()
	g := c.Place(sim.NewAnd(), image.Pt(200, 20))
	ins := c.Inputs()
	connect(t, c, ins[0], g.Inputs()[0])
	connect(t, c, ins[1], g.Inputs()[1])
	connect(t, c, g.Outputs()[0], c.Outputs()[0])
	return c
}

// nandCircuit returns a two gates deep NAND circuit settling in two passes.
func nandCircuit(t *testing.T) *sim.Circuit {
	c := sim.New("NAND")
	c.AddInput()
	c.SetSettlePasses(2)
	and := c.Place(sim.NewAnd(), image.Pt(200, 20))
	not := c.Place(sim.NewNot(), image.Pt(300, 20))
	ins := c.Inputs()
	connect(t, c, ins[0], and.Inputs()[0])
	connect(t, c, ins[1], and.Inputs()[1])
	connect(t, c, and.Outputs()[0], not.Inputs()[0])
	connect(t, c, not.Outputs()[0], c.Outputs()[0])
	return c
}

func nandGate(t *testing.T) *sim.Gate {
	return nandCircuit(t).Promote("NAND")
}

// halfAdderGate returns a 2 inputs, 2 outputs gate built from NAND gates.
func halfAdderGate(t *testing.T) *sim.Gate {
	nand := nandGate(t)
	c := sim.New("HA")
	c.AddInput()
	c.AddOutput()
	c.SetSettlePasses(12)
	n0 := c.Place(nand, image.Pt(100, 0))
	n1 := c.Place(nand, image.Pt(200, 0))
	n2 := c.Place(nand, image.Pt(200, 50))
	n3 := c.Place(nand, image.Pt(300, 0))
	n4 := c.Place(nand, image.Pt(300, 50))
	a, b := c.Inputs()[0], c.Inputs()[1]
	connect(t, c, a, n0.Inputs()[0])
	connect(t, c, b, n0.Inputs()[1])
	connect(t, c, a, n1.Inputs()[0])
	connect(t, c, n0.Outputs()[0], n1.Inputs()[1])
	connect(t, c, b, n2.Inputs()[0])
	connect(t, c, n0.Outputs()[0], n2.Inputs()[1])
	connect(t, c, n1.Outputs()[0], n3.Inputs()[0])
	connect(t, c, n2.Outputs()[0], n3.Inputs()[1])
	connect(t, c, n0.Outputs()[0], n4.Inputs()[0])
	connect(t, c, n0.Outputs()[0], n4.Inputs()[1])
	connect(t, c, n3.Outputs()[0], c.Outputs()[0])
	connect(t, c, n4.Outputs()[0], c.Outputs()[1])
	return c.Promote("HA")
}

func Test_new_circuit(t *testing.T) {
	c := sim.New("main")
	if len(c.Inputs()) != 1 || len(c.Outputs()) != 1 {
		t.Fatalf("expected one input and one output, got %d, %d", len(c.Inputs()), len(c.Outputs()))
	}
	if c.Inputs()[0].Direction() != sim.Output || c.Outputs()[0].Direction() != sim.Input {
		t.Fatal("circuit ports face the wrong way")
	}
	if c.SettlePasses() != 1 || c.Pending() != nil {
		t.Fatal("unexpected initial state")
	}
}

func Test_connection_protocol(t *testing.T) {
	c := sim.New("proto")
	not := c.Place(sim.NewNot(), image.Pt(100, 100))

	t.Run("output_then_input", func(t *testing.T) {
		connect(t, c, c.Inputs()[0], not.Inputs()[0])
		ws := c.Wires()
		if len(ws) != 1 || c.Pending() != nil {
			t.Fatalf("expected one settled wire, got %d, pending %v", len(ws), c.Pending())
		}
		if !ws[0].OutputConnected() || !ws[0].InputConnected() {
			t.Fatal("wire not fully connected")
		}
	})
	t.Run("input_then_output", func(t *testing.T) {
		connect(t, c, c.Outputs()[0], not.Outputs()[0])
		if len(c.Wires()) != 2 || !c.Wires()[1].Complete() {
			t.Fatal("reverse click order did not complete the wire")
		}
	})
	t.Run("two_inputs", func(t *testing.T) {
		d := sim.New("reject")
		g := d.Place(sim.NewAnd(), image.Pt(100, 100))
		if err := d.Connect(g.Inputs()[0]); err != nil {
			t.Fatal(err)
		}
		if d.Pending() == nil || len(d.Wires()) != 1 {
			t.Fatal("first click did not create a pending wire")
		}
		err := d.Connect(g.Inputs()[1])
		if errors.Cause(err) != sim.ErrInvalidConnection {
			t.Fatalf("expected ErrInvalidConnection, got %v", err)
		}
		if d.Pending() != nil || len(d.Wires()) != 0 || len(g.Inputs()[0].Wires()) != 0 {
			t.Fatal("rejected wire was not discarded")
		}
		// back to idle: the next click starts a new wire
		if err := d.Connect(g.Outputs()[0]); err != nil || d.Pending() == nil {
			t.Fatalf("protocol not idle after rejection: %v", err)
		}
	})
	t.Run("same_node", func(t *testing.T) {
		d := sim.New("self")
		n := d.Inputs()[0]
		if err := d.Connect(n); err != nil {
			t.Fatal(err)
		}
		if err := d.Connect(n); errors.Cause(err) != sim.ErrInvalidConnection {
			t.Fatalf("expected ErrInvalidConnection, got %v", err)
		}
		if len(d.Wires()) != 0 {
			t.Fatal("self connection left a wire")
		}
	})
	t.Run("foreign", func(t *testing.T) {
		if err := c.Connect(sim.NewNode(sim.Input)); errors.Cause(err) != sim.ErrForeign {
			t.Fatalf("expected ErrForeign, got %v", err)
		}
	})
}

func Test_pending_wire(t *testing.T) {
	c := sim.New("pending")
	src := c.Inputs()[0]
	if err := c.Connect(src); err != nil {
		t.Fatal(err)
	}
	c.ClickEmpty(image.Pt(104, 57))
	c.Drag(image.Pt(300, 300))
	w := c.Pending()
	if bp := w.Breakpoints(); len(bp) != 1 || bp[0] != image.Pt(100, 50) {
		t.Fatalf("expected a breakpoint at (100,50), got %v", bp)
	}
	if pts := w.Points(); pts[len(pts)-1] != image.Pt(300, 300) {
		t.Fatalf("free end did not follow drag: %v", pts)
	}
	if len(c.Copy().Wires()) != 0 {
		t.Fatal("pending wire was copied")
	}
	if len(c.ConnectionIndexes()) != 0 {
		t.Fatal("pending wire has connection indexes")
	}
	c.CancelPending()
	if c.Pending() != nil || len(c.Wires()) != 0 || len(src.Wires()) != 0 {
		t.Fatal("CancelPending left the wire behind")
	}
}

func Test_feedback_oscillation(t *testing.T) {
	c := sim.New("osc")
	not := c.Place(sim.NewNot(), image.Pt(100, 100))
	connect(t, c, not.Outputs()[0], not.Inputs()[0])

	prev := not.OutputStates()[0]
	for k := 1; k <= 32; k++ {
		c.Update()
		s := not.OutputStates()[0]
		if s == prev {
			t.Fatalf("tick %d: state %v did not flip", k, s)
		}
		prev = s
	}
	if c.Steps() != 32 {
		t.Fatalf("expected 32 steps, got %d", c.Steps())
	}
}

func Test_chain_latency(t *testing.T) {
	c := sim.New("chain")
	// placed in reverse order: latency must not depend on gate order
	g3 := c.Place(sim.NewNot(), image.Pt(300, 20))
	g2 := c.Place(sim.NewNot(), image.Pt(200, 20))
	g1 := c.Place(sim.NewNot(), image.Pt(100, 20))
	connect(t, c, c.Inputs()[0], g1.Inputs()[0])
	connect(t, c, g1.Outputs()[0], g2.Inputs()[0])
	connect(t, c, g2.Outputs()[0], g3.Inputs()[0])
	connect(t, c, g3.Outputs()[0], c.Outputs()[0])

	c.Run(5)
	if !c.OutputStates()[0] {
		t.Fatal("chain did not settle to true")
	}
	if err := c.ToggleInput(0); err != nil {
		t.Fatal(err)
	}
	for k, exp := range []bool{true, true, false, false} {
		c.Update()
		if out := c.OutputStates()[0]; out != exp {
			t.Fatalf("tick %d: expected %v, got %v", k+1, exp, out)
		}
	}
}

func Test_promote(t *testing.T) {
	td := []struct {
		name  string
		c     *sim.Circuit
		table [][]bool
	}{
		{"AND", andCircuit(t), [][]bool{
			{false, false, false},
			{false, true, false},
			{true, false, false},
			{true, true, true},
		}},
		{"NAND", nandCircuit(t), [][]bool{
			{false, false, true},
			{false, true, true},
			{true, false, true},
			{true, true, false},
		}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			g := d.c.Promote(d.name)
			if in, out := g.Arity(); in != 2 || out != 1 {
				t.Fatalf("bad arity %d, %d", in, out)
			}
			checkTable(t, g, d.table)

			// same results as driving the live circuit
			for _, row := range d.table {
				for i, v := range row[:2] {
					if err := d.c.SetInput(i, v); err != nil {
						t.Fatal(err)
					}
				}
				d.c.Settle()
				if got := d.c.OutputStates(); !reflect.DeepEqual(got, g.Evaluate(row[:2])) {
					t.Errorf("%v: circuit %v, gate %v", row[:2], got, g.Evaluate(row[:2]))
				}
			}

			// later edits do not reach the gate
			for len(d.c.Gates()) > 0 {
				if err := d.c.RemoveGate(0); err != nil {
					t.Fatal(err)
				}
			}
			checkTable(t, g, d.table)
		})
	}
}

func Test_single_pass_depth_limit(t *testing.T) {
	c := nandCircuit(t)
	c.SetSettlePasses(1)
	g := c.Promote("NAND1")
	// the first evaluation only crosses the AND gate: NOT still sees false
	if out := g.Evaluate([]bool{true, true})[0]; !out {
		t.Fatal("expected stale output after a single pass")
	}
	if out := g.Evaluate([]bool{true, true})[0]; out {
		t.Fatal("expected settled output after a second evaluation")
	}
}

func Test_settle_passes(t *testing.T) {
	c := sim.New("p")
	for _, d := range []struct{ in, exp int }{{0, 1}, {-3, 1}, {5, 5}, {1000, sim.MaxSettlePasses}} {
		c.SetSettlePasses(d.in)
		if got := c.SettlePasses(); got != d.exp {
			t.Errorf("SetSettlePasses(%d): got %d, expected %d", d.in, got, d.exp)
		}
	}
}

// checkNoDangling makes sure that no wire of c references a node that c does
// not own, and that wire and node registrations agree.
func checkNoDangling(t *testing.T, c *sim.Circuit) {
	t.Helper()
	owned := make(map[*sim.Node]bool)
	for _, n := range c.Inputs() {
		owned[n] = true
	}
	for _, n := range c.Outputs() {
		owned[n] = true
	}
	for _, g := range c.Gates() {
		for _, n := range append(g.Inputs(), g.Outputs()...) {
			owned[n] = true
		}
	}
	for _, w := range c.Wires() {
		for _, n := range []*sim.Node{w.Source(), w.Sink()} {
			if n == nil {
				continue
			}
			if !owned[n] {
				t.Fatal("wire references a node not owned by the circuit")
			}
			if !n.IsConnected(w) {
				t.Fatal("wire endpoint does not know the wire")
			}
		}
	}
}

func Test_remove_gate(t *testing.T) {
	c := andCircuit(t)
	c.AddOutput()
	g := c.Gates()[0]
	connect(t, c, g.Outputs()[0], c.Outputs()[1])
	connect(t, c, c.Inputs()[0], c.Outputs()[1])

	if err := c.RemoveGate(0); err != nil {
		t.Fatal(err)
	}
	if len(c.Gates()) != 0 {
		t.Fatal("gate not removed")
	}
	for _, w := range c.Wires() {
		for _, n := range append(g.Inputs(), g.Outputs()...) {
			if w.IsConnectedTo(n) {
				t.Fatal("wire still references a removed node")
			}
		}
	}
	for _, n := range append(g.Inputs(), g.Outputs()...) {
		if len(n.Wires()) != 0 {
			t.Fatal("removed gate node still holds wires")
		}
	}
	if len(c.Wires()) != 1 {
		t.Fatalf("expected the wire not touching the gate to survive, got %d wires", len(c.Wires()))
	}
	checkNoDangling(t, c)

	if err := c.RemoveGate(0); errors.Cause(err) != sim.ErrIndex {
		t.Fatalf("expected ErrIndex, got %v", err)
	}
}

func Test_remove_ports(t *testing.T) {
	c := andCircuit(t)
	if err := c.RemoveOutput(0); errors.Cause(err) != sim.ErrLastPort {
		t.Fatalf("expected ErrLastPort, got %v", err)
	}
	in1 := c.Inputs()[1]
	if err := c.RemoveInput(1); err != nil {
		t.Fatal(err)
	}
	if len(c.Inputs()) != 1 || len(in1.Wires()) != 0 || len(c.Wires()) != 2 {
		t.Fatal("input removal left wires behind")
	}
	checkNoDangling(t, c)
	if err := c.RemoveInput(0); errors.Cause(err) != sim.ErrLastPort {
		t.Fatalf("expected ErrLastPort, got %v", err)
	}
	in := c.AddInput()
	if in.Rect.Min.Y != sim.PortTop+sim.PortPitch {
		t.Fatalf("new input not laid out below the first one: %v", in.Rect)
	}
	if err := c.RemoveInput(0); err != nil {
		t.Fatal(err)
	}
	if in.Rect.Min.Y != sim.PortTop {
		t.Fatalf("inputs not laid out again after removal: %v", in.Rect)
	}
	checkNoDangling(t, c)
}

func Test_click_events(t *testing.T) {
	c := andCircuit(t)
	g := c.Gates()[0]
	c.Update()

	if err := c.ClickNode(g.Inputs()[0], sim.Middle); err != nil || len(c.Gates()) != 1 {
		t.Fatal("middle click on a node changed the circuit")
	}

	w := c.Wires()[0]
	segs := len(w.Segments())
	mid := w.Segments()[0]
	p := image.Pt((mid.From.X+mid.To.X)/2, (mid.From.Y+mid.To.Y)/2)
	if err := c.ClickWire(w, sim.Middle, p); err != nil {
		t.Fatal(err)
	}
	if len(w.Segments()) != segs+1 {
		t.Fatal("middle click did not split the segment")
	}
	if err := c.ClickWire(w, sim.Right, p); err != nil {
		t.Fatal(err)
	}
	if len(w.Segments()) != segs || len(c.Wires()) != 3 {
		t.Fatal("right click on a handle did not remove the breakpoint only")
	}
	if err := c.ClickWire(w, sim.Right, image.Pt(-100, -100)); err != nil {
		t.Fatal(err)
	}
	if len(c.Wires()) != 2 || w.Complete() {
		t.Fatal("right click did not remove the wire")
	}
	if err := c.ClickWire(w, sim.Right, p); errors.Cause(err) != sim.ErrForeign {
		t.Fatalf("expected ErrForeign, got %v", err)
	}

	if err := c.ClickNode(g.Outputs()[0], sim.Right); err != nil {
		t.Fatal(err)
	}
	if len(c.Gates()) != 0 || len(c.Wires()) != 0 {
		t.Fatal("right click on a gate node did not remove the gate")
	}
	if err := c.ClickNode(c.Outputs()[0], sim.Right); errors.Cause(err) != sim.ErrLastPort {
		t.Fatalf("expected ErrLastPort, got %v", err)
	}
}

func Test_copy_independence(t *testing.T) {
	c := andCircuit(t)
	cp := c.Copy()

	if !reflect.DeepEqual(c.ConnectionIndexes(), cp.ConnectionIndexes()) {
		t.Fatalf("copy topology differs: %v vs %v", c.ConnectionIndexes(), cp.ConnectionIndexes())
	}
	for i, w := range cp.Wires() {
		if w == c.Wires()[i] {
			t.Fatal("copy shares a wire")
		}
	}
	checkNoDangling(t, cp)

	pos := c.Gates()[0].Pos()
	idx := c.ConnectionIndexes()
	for i := range cp.Inputs() {
		if err := cp.SetInput(i, true); err != nil {
			t.Fatal(err)
		}
	}
	cp.Gates()[0].SetPos(image.Pt(400, 400))
	cp.Run(3)
	if err := cp.RemoveWire(cp.Wires()[0]); err != nil {
		t.Fatal(err)
	}

	if !cp.OutputStates()[0] {
		t.Fatal("copy does not simulate")
	}
	if reflect.DeepEqual(c.InputStates(), cp.InputStates()) || c.OutputStates()[0] {
		t.Fatal("original states changed")
	}
	if c.Gates()[0].Pos() != pos || !reflect.DeepEqual(c.ConnectionIndexes(), idx) {
		t.Fatal("original topology changed")
	}
}

func Test_dispose(t *testing.T) {
	c := andCircuit(t)
	ins := c.Inputs()
	c.Dispose()
	if len(c.Wires()) != 0 || len(ins[0].Wires()) != 0 || len(c.Gates()[0].Inputs()[0].Wires()) != 0 {
		t.Fatal("Dispose left connected wires")
	}
}

// Wires broken by calling Disconnect directly on a node, gate or wire are
// skipped by copies and mappings, and forgotten on the next Update.
func Test_direct_disconnect(t *testing.T) {
	td := []struct {
		name  string
		cut   func(c *sim.Circuit)
		idx   [][]int
		wires int // after Update
	}{
		{"gate", func(c *sim.Circuit) { c.Gates()[0].DisconnectAll() }, [][]int{}, 0},
		{"node", func(c *sim.Circuit) { c.Inputs()[0].DisconnectAll() }, [][]int{{1, 3}, {4, 5}}, 2},
		{"wire", func(c *sim.Circuit) { c.Wires()[2].Disconnect() }, [][]int{{0, 2}, {1, 3}}, 2},
		{"foreign", func(c *sim.Circuit) {
			w := c.Wires()[2]
			w.Sink().Disconnect(w)
			if err := sim.New("other").Outputs()[0].Connect(w); err != nil {
				t.Fatal(err)
			}
		}, [][]int{{0, 2}, {1, 3}}, 3},
		{"pending", func(c *sim.Circuit) {
			if err := c.Connect(c.Inputs()[0]); err != nil {
				t.Fatal(err)
			}
			c.Inputs()[0].DisconnectAll()
		}, [][]int{{1, 3}, {4, 5}}, 2},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c := andCircuit(t)
			d.cut(c)
			if idx := c.ConnectionIndexes(); !reflect.DeepEqual(idx, d.idx) {
				t.Fatalf("connection indexes %v, expected %v", idx, d.idx)
			}
			g := c.Promote("P")
			if in, out := g.Arity(); in != 2 || out != 1 {
				t.Fatalf("promoted arity (%d, %d)", in, out)
			}
			l, err := sim.FromMapping(c.ToMapping())
			if err != nil {
				trace(t, err)
				t.Fatal(err)
			}
			if idx := l.ConnectionIndexes(); !reflect.DeepEqual(idx, d.idx) {
				t.Fatalf("reloaded connection indexes %v, expected %v", idx, d.idx)
			}
			c.Update()
			if len(c.Wires()) != d.wires || c.Pending() != nil {
				t.Fatalf("%d wires after Update, expected %d", len(c.Wires()), d.wires)
			}
			checkNoDangling(t, c)
		})
	}
}
