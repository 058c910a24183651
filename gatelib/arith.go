// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatelib

import (
	"strconv"

	"github.com/db47h/logicsim"
)

// Bus returns the pin names name[0] to name[bits-1] for each name.
//
func Bus(bits int, names ...string) []string {
	b := make([]string, 0, len(names)*bits)
	for _, n := range names {
		for j := 0; j < bits; j++ {
			b = append(b, n+"["+strconv.Itoa(j)+"]")
		}
	}
	return b
}

// AdderN returns a ripple carry adder. It panics if bits < 1.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = lsb(a + b), c = carry out
//
func AdderN(bits int) *logicsim.Gate {
	if bits < 1 {
		panic("gatelib: AdderN needs at least one bit")
	}
	a, b, out := Bus(bits, "a"), Bus(bits, "b"), Bus(bits, "out")
	carry := func(i int) string {
		if i == bits-1 {
			return "c"
		}
		return "c" + strconv.Itoa(i)
	}
	parts := []Part{P(HalfAdder(), pins(a[0], b[0]), out[0], carry(0))}
	fa := FullAdder()
	for i := 1; i < bits; i++ {
		parts = append(parts, P(fa, pins(a[i], b[i], carry(i-1)), out[i], carry(i)))
	}
	return must(Chip("ADD"+strconv.Itoa(bits), append(a, b...), append(out, "c"), parts...))
}
