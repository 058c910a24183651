// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"strings"
	"time"
)

// FunctionTag prefixes the save tag of primitive behaviors.
//
const FunctionTag = "#function"

// now is the clock read by the Timer gate.
var now = time.Now

// A Primitive is a behavior implemented by a plain Go function.
//
// Primitives are immutable and shared by every gate using them.
//
type Primitive struct {
	name    string
	in, out int
	fn      func([]bool) []bool
	impure  bool
}

// NewPrimitive returns a pure primitive behavior with the given arity. fn
// must return a slice of length out.
//
// Only built-in primitives can be loaded back from a saved mapping.
//
func NewPrimitive(name string, in, out int, fn func([]bool) []bool) *Primitive {
	return &Primitive{name: name, in: in, out: out, fn: fn}
}

// Name returns the primitive name.
//
func (p *Primitive) Name() string { return p.name }

// Arity implements Behavior.
//
func (p *Primitive) Arity() (in, out int) { return p.in, p.out }

func (p *Primitive) eval(in []bool) []bool { return p.fn(in) }
func (p *Primitive) clone() Behavior       { return p }
func (p *Primitive) pure() bool            { return !p.impure }
func (p *Primitive) mapping() any          { return FunctionTag + p.name }

var (
	and = NewPrimitive("And", 2, 1, func(in []bool) []bool {
		return []bool{in[0] && in[1]}
	})

	not = NewPrimitive("Not", 1, 1, func(in []bool) []bool {
		return []bool{!in[0]}
	})

	// timer toggles every wall-clock second.
	timer = &Primitive{name: "Timer", in: 0, out: 1, impure: true,
		fn: func([]bool) []bool {
			return []bool{now().Unix()&1 == 1}
		}}
)

var builtins = []*Primitive{and, not, timer}

// BuiltinNames returns the names of the built-in gates, in library order.
//
func BuiltinNames() []string {
	ns := make([]string, len(builtins))
	for i, p := range builtins {
		ns[i] = p.name
	}
	return ns
}

// Builtin returns a new gate using the built-in primitive with the given name.
//
func Builtin(name string) (*Gate, bool) {
	p := lookupBuiltin(name)
	if p == nil {
		return nil, false
	}
	return NewGate(p.name, p), true
}

func lookupBuiltin(name string) *Primitive {
	for _, p := range builtins {
		if p.name == name {
			return p
		}
	}
	return nil
}

// builtinTag resolves a save tag of the form "#function<Name>".
func builtinTag(tag string) *Primitive {
	if !strings.HasPrefix(tag, FunctionTag) {
		return nil
	}
	return lookupBuiltin(strings.TrimPrefix(tag, FunctionTag))
}

// NewAnd returns a new 2 inputs AND gate.
//
func NewAnd() *Gate { return NewGate(and.name, and) }

// NewNot returns a new NOT gate.
//
func NewNot() *Gate { return NewGate(not.name, not) }

// NewTimer returns a new free running clock gate with no input and one output
// equal to the low bit of the current wall-clock second.
//
func NewTimer() *Gate { return NewGate(timer.name, timer) }
