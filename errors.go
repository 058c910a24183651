// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "github.com/pkg/errors"

// Errors returned by the simulator. Use errors.Cause to compare a returned
// error against one of these values.
//
var (
	// ErrAlreadyConnected is returned when connecting a node to a wire whose
	// endpoint for the node's direction is already occupied.
	ErrAlreadyConnected = errors.New("wire endpoint already connected")

	// ErrInvalidConnection is returned by the connection protocol when the
	// second click would give a wire two endpoints of the same direction. The
	// pending wire is discarded.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrMalformedSave is returned when loading a mapping that cannot be
	// turned back into a circuit.
	ErrMalformedSave = errors.New("malformed save")

	// ErrForeign is returned when an operation targets a node or wire that
	// is not owned by the circuit.
	ErrForeign = errors.New("node or wire not owned by circuit")

	// ErrIndex is returned by index based operations given an out of range
	// index.
	ErrIndex = errors.New("index out of range")

	// ErrLastPort is returned when removing the only circuit input or output.
	ErrLastPort = errors.New("cannot remove last circuit port")

	// ErrImpure is returned when tabulating a gate whose outputs do not only
	// depend on its inputs: it holds a Timer or a feedback loop.
	ErrImpure = errors.New("gate is not a pure function of its inputs")

	// ErrTooManyInputs is returned when tabulating a gate with more than
	// MaxTableInputs inputs.
	ErrTooManyInputs = errors.New("too many inputs")
)

func indexError(what string, i, n int) error {
	return errors.Wrapf(ErrIndex, "%s %d (have %d)", what, i, n)
}
