// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing gates and circuits.
//
package simtest

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/logicsim"
)

// MaxExhaustive is the maximum number of gate inputs for which every input
// vector is checked. Wider gates are checked on random vectors.
//
const MaxExhaustive = 12

func vecString(v []bool) string {
	var b strings.Builder
	for _, s := range v {
		if s {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// vectors calls f with every input vector of length n if n <= MaxExhaustive,
// or 1<<MaxExhaustive random vectors otherwise. Input 0 is the least
// significant bit.
func vectors(n int, f func(v []bool) bool) {
	v := make([]bool, n)
	if n <= MaxExhaustive {
		for k := 0; k < 1<<uint(n); k++ {
			for i := range v {
				v[i] = k&(1<<uint(i)) != 0
			}
			if !f(v) {
				return
			}
		}
		return
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for k := 0; k < 1<<MaxExhaustive; k++ {
		for i := range v {
			v[i] = r.Int63()&(1<<62) != 0
		}
		if !f(v) {
			return
		}
	}
}

func equal(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CheckTable checks g against a truth table. Each row lists the input values
// followed by the expected output values.
//
func CheckTable(t *testing.T, g *logicsim.Gate, table [][]bool) {
	t.Helper()
	in, out := g.Arity()
	for _, row := range table {
		if len(row) != in+out {
			t.Fatalf("%s: table row %v has %d values, want %d", g.Name, row, len(row), in+out)
		}
		got := g.Evaluate(row[:in])
		for o := 0; o < out; o++ {
			if got[o] != row[in+o] {
				t.Errorf("%s(%s): expected %s, got %s", g.Name, vecString(row[:in]), vecString(row[in:]), vecString(got))
				break
			}
		}
	}
}

// CheckFunc checks g against a reference function over every input vector.
//
func CheckFunc(t *testing.T, g *logicsim.Gate, fn func(in []bool) []bool) {
	t.Helper()
	in, _ := g.Arity()
	vectors(in, func(v []bool) bool {
		exp, got := fn(v), g.Evaluate(v)
		if !equal(exp, got) {
			t.Errorf("%s(%s): expected %s, got %s", g.Name, vecString(v), vecString(exp), vecString(got))
			return false
		}
		return true
	})
}

// CompareGates takes two gates and compares their outputs given the same
// inputs. Both gates must have the same arity.
//
func CompareGates(t *testing.T, g1, g2 *logicsim.Gate) {
	t.Helper()
	in1, out1 := g1.Arity()
	in2, out2 := g2.Arity()
	if in1 != in2 || out1 != out2 {
		t.Fatalf("%s has arity (%d, %d), %s has arity (%d, %d)", g1.Name, in1, out1, g2.Name, in2, out2)
	}
	CheckFunc(t, g2, g1.Evaluate)
}

// Drive sets the inputs of c, runs ticks updates and returns the output
// states.
//
func Drive(t *testing.T, c *logicsim.Circuit, in []bool, ticks int) []bool {
	t.Helper()
	for i, v := range in {
		if err := c.SetInput(i, v); err != nil {
			t.Fatal(err)
		}
	}
	c.Run(ticks)
	return c.OutputStates()
}
