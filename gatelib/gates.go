// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package gatelib provides a library of composite gates built from the
// logicsim primitives.
//
// Every function returns a new, independent gate.
//
package gatelib

import "github.com/db47h/logicsim"

// common pin names
var (
	pAB    = []string{"a", "b"}
	pOut   = []string{"out"}
	pInSel = []string{"in", "sel"}
)

func pins(names ...string) []string { return names }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand() *logicsim.Gate {
	return must(Chip("NAND", pAB, pOut,
		P(logicsim.NewAnd(), pAB, "ab"),
		P(logicsim.NewNot(), pins("ab"), "out"),
	))
}

// Or returns an OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func Or() *logicsim.Gate {
	return must(Chip("OR", pAB, pOut,
		P(logicsim.NewNot(), pins("a"), "notA"),
		P(logicsim.NewNot(), pins("b"), "notB"),
		P(Nand(), pins("notA", "notB"), "out"),
	))
}

// Nor returns a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
func Nor() *logicsim.Gate {
	return must(Chip("NOR", pAB, pOut,
		P(Or(), pAB, "or"),
		P(logicsim.NewNot(), pins("or"), "out"),
	))
}

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && !b || !a && b
//
func Xor() *logicsim.Gate {
	nand := Nand()
	return must(Chip("XOR", pAB, pOut,
		P(nand, pAB, "nandAB"),
		P(nand, pins("a", "nandAB"), "w0"),
		P(nand, pins("b", "nandAB"), "w1"),
		P(nand, pins("w0", "w1"), "out"),
	))
}

// Xnor returns a XNOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b || !a && !b
//
func Xnor() *logicsim.Gate {
	return must(Chip("XNOR", pAB, pOut,
		P(Xor(), pAB, "xor"),
		P(logicsim.NewNot(), pins("xor"), "out"),
	))
}

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: If sel=0 then out=a else out=b.
//
func Mux() *logicsim.Gate {
	return must(Chip("MUX", pins("a", "b", "sel"), pOut,
		P(logicsim.NewNot(), pins("sel"), "notSel"),
		P(logicsim.NewAnd(), pins("a", "notSel"), "w0"),
		P(logicsim.NewAnd(), pins("b", "sel"), "w1"),
		P(Or(), pins("w0", "w1"), "out"),
	))
}

// DMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: If sel=0 then {a=in, b=0} else {a=0, b=in}
//
func DMux() *logicsim.Gate {
	return must(Chip("DMUX", pInSel, pAB,
		P(logicsim.NewNot(), pins("sel"), "notSel"),
		P(logicsim.NewAnd(), pins("in", "notSel"), "a"),
		P(logicsim.NewAnd(), pins("in", "sel"), "b"),
	))
}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: sum, carry
//	Function: sum = a ^ b, carry = a && b
//
func HalfAdder() *logicsim.Gate {
	return must(Chip("HA", pAB, pins("sum", "carry"),
		P(Xor(), pAB, "sum"),
		P(logicsim.NewAnd(), pAB, "carry"),
	))
}

// FullAdder returns a full adder.
//
//	Inputs: a, b, c
//	Outputs: sum, carry
//	Function: sum = a ^ b ^ c, carry = a+b+c > 1
//
func FullAdder() *logicsim.Gate {
	ha := HalfAdder()
	return must(Chip("FA", pins("a", "b", "c"), pins("sum", "carry"),
		P(ha, pAB, "s0", "c0"),
		P(ha, pins("s0", "c"), "sum", "c1"),
		P(Or(), pins("c0", "c1"), "carry"),
	))
}

// SRLatch returns a set-reset latch made of two cross-coupled NOR gates.
// Setting both inputs is undefined.
//
//	Inputs: s, r
//	Outputs: q
//	Function: If s then q=1, if r then q=0, else q keeps its value.
//
func SRLatch() *logicsim.Gate {
	nor := Nor()
	return must(Chip("SR", pins("s", "r"), pins("q"),
		P(nor, pins("r", "notQ"), "q"),
		P(nor, pins("s", "q"), "notQ"),
	))
}

// Gates returns one of each gate in this package.
//
func Gates() []*logicsim.Gate {
	return []*logicsim.Gate{
		Nand(), Or(), Nor(), Xor(), Xnor(), Mux(), DMux(), HalfAdder(), FullAdder(), SRLatch(),
	}
}
