// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package workspace holds the state of a circuit editing session: a set of
// circuit editors, one of them current, and a library of gates that can be
// placed in any of them.
//
// The library lists the built-in gates first, followed by user gates promoted
// from circuits. A user gate can be opened for editing: a copy of its circuit
// becomes a new editor, and promoting that editor replaces the gate in the
// library.
//
package workspace

import (
	"fmt"
	"image"

	"github.com/db47h/logicsim"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Errors returned by workspace operations.
//
var (
	ErrFull        = errors.New("too many circuits")
	ErrLastCircuit = errors.New("cannot remove last circuit")
	ErrBuiltin     = errors.New("built-in gate")
)

// Mapping keys of a workspace.
//
const (
	KeyTheme    = "theme_color"
	KeyIndex    = "circuit_index"
	KeyCircuits = "circuits"
	KeyGates    = "gate_options"
	KeyLinks    = "circuit_links"
)

// Options configures a workspace.
//
type Options struct {
	MaxCircuits  int    // maximum number of editors
	Theme        string // theme color of new circuits
	SettlePasses int    // forced settle passes of new circuits
}

// DefaultOptions returns the default workspace options.
//
func DefaultOptions() Options {
	return Options{MaxCircuits: 8, Theme: logicsim.DefaultTheme, SettlePasses: 1}
}

type editor struct {
	c    *logicsim.Circuit
	link int // index of the user gate being edited, or -1
}

// A Workspace is a set of circuit editors and a gate library.
//
type Workspace struct {
	opts    Options
	editors []editor
	cur     int
	builtin []*logicsim.Gate
	user    []*logicsim.Gate
	count   int // circuits created, for default names
}

// New returns a new workspace with a single empty circuit.
//
func New(opts Options) *Workspace {
	def := DefaultOptions()
	if opts.MaxCircuits < 1 {
		opts.MaxCircuits = def.MaxCircuits
	}
	if opts.Theme == "" {
		opts.Theme = def.Theme
	}
	if opts.SettlePasses < 1 {
		opts.SettlePasses = def.SettlePasses
	}
	w := &Workspace{opts: opts}
	for _, n := range logicsim.BuiltinNames() {
		g, _ := logicsim.Builtin(n)
		w.builtin = append(w.builtin, g)
	}
	_, _ = w.NewCircuit("")
	return w
}

// Options returns the workspace options.
//
func (w *Workspace) Options() Options { return w.opts }

// NewCircuit adds an empty circuit editor and makes it current. An empty
// name is replaced by a default one.
//
func (w *Workspace) NewCircuit(name string) (int, error) {
	if len(w.editors) >= w.opts.MaxCircuits {
		return -1, errors.Wrapf(ErrFull, "max %d", w.opts.MaxCircuits)
	}
	w.count++
	if name == "" {
		name = fmt.Sprintf("Circuit %d", w.count)
	}
	c := logicsim.New(name)
	c.Theme = w.opts.Theme
	c.SetSettlePasses(w.opts.SettlePasses)
	return w.add(c, -1), nil
}

func (w *Workspace) add(c *logicsim.Circuit, link int) int {
	w.editors = append(w.editors, editor{c: c, link: link})
	w.cur = len(w.editors) - 1
	logicsim.Logger().Debug("circuit opened", zap.String("circuit", c.Name), zap.Int("index", w.cur))
	return w.cur
}

// Len returns the number of circuit editors.
//
func (w *Workspace) Len() int { return len(w.editors) }

// Circuit returns the circuit of editor i.
//
func (w *Workspace) Circuit(i int) *logicsim.Circuit {
	return w.editors[i].c
}

// Current returns the current circuit.
//
func (w *Workspace) Current() *logicsim.Circuit { return w.editors[w.cur].c }

// CurrentIndex returns the index of the current editor.
//
func (w *Workspace) CurrentIndex() int { return w.cur }

// Select makes editor i current.
//
func (w *Workspace) Select(i int) error {
	if i < 0 || i >= len(w.editors) {
		return errors.Wrapf(logicsim.ErrIndex, "circuit %d (have %d)", i, len(w.editors))
	}
	w.cur = i
	return nil
}

// RemoveCircuit closes the current editor and disposes its circuit. The
// previous editor becomes current. The last editor cannot be removed.
//
func (w *Workspace) RemoveCircuit() error {
	if len(w.editors) == 1 {
		return ErrLastCircuit
	}
	e := w.editors[w.cur]
	e.c.Dispose()
	w.editors = append(w.editors[:w.cur], w.editors[w.cur+1:]...)
	if w.cur > 0 {
		w.cur--
	}
	logicsim.Logger().Debug("circuit closed", zap.String("circuit", e.c.Name))
	return nil
}

// Update advances the current circuit by one tick.
//
func (w *Workspace) Update() { w.Current().Update() }

// Library returns the gate library: built-in gates followed by user gates.
// The returned gates are prototypes, use PlaceGate to add them to a circuit.
//
func (w *Workspace) Library() []*logicsim.Gate {
	gs := make([]*logicsim.Gate, 0, len(w.builtin)+len(w.user))
	return append(append(gs, w.builtin...), w.user...)
}

// UserGates returns the user gates of the library.
//
func (w *Workspace) UserGates() []*logicsim.Gate { return append([]*logicsim.Gate(nil), w.user...) }

// AddGates appends copies of gs to the user gates of the library.
//
func (w *Workspace) AddGates(gs ...*logicsim.Gate) {
	for _, g := range gs {
		w.user = append(w.user, g.Copy())
	}
}

func (w *Workspace) userIndex(i int) (int, error) {
	if i < 0 || i >= len(w.builtin)+len(w.user) {
		return -1, errors.Wrapf(logicsim.ErrIndex, "library gate %d (have %d)", i, len(w.builtin)+len(w.user))
	}
	if i < len(w.builtin) {
		return -1, errors.Wrap(ErrBuiltin, w.builtin[i].Name)
	}
	return i - len(w.builtin), nil
}

// MakeGate promotes the current circuit into a gate named after it. If the
// current editor was opened with EditGate, the edited library gate is
// replaced. Otherwise the gate is appended to the library.
//
// MakeGate returns the library index of the gate.
//
func (w *Workspace) MakeGate() int {
	e := &w.editors[w.cur]
	g := e.c.Promote(e.c.Name)
	if e.link >= 0 {
		w.user[e.link] = g
		logicsim.Logger().Debug("library gate replaced", zap.String("gate", g.Name), zap.Int("index", e.link))
		return len(w.builtin) + e.link
	}
	w.user = append(w.user, g)
	e.link = len(w.user) - 1
	logicsim.Logger().Debug("library gate added", zap.String("gate", g.Name))
	return len(w.builtin) + e.link
}

// EditGate opens a copy of the circuit of library gate i in a new editor.
//
func (w *Workspace) EditGate(i int) (int, error) {
	u, err := w.userIndex(i)
	if err != nil {
		return -1, err
	}
	g := w.user[u]
	b, ok := g.Behavior().(*logicsim.Composite)
	if !ok {
		if t, isTable := g.Behavior().(*logicsim.Table); isTable {
			b, ok = t.Source().(*logicsim.Composite)
		}
	}
	if !ok {
		return -1, errors.Errorf("gate %s has no circuit", g.Name)
	}
	if len(w.editors) >= w.opts.MaxCircuits {
		return -1, errors.Wrapf(ErrFull, "max %d", w.opts.MaxCircuits)
	}
	c := b.Circuit()
	c.Name = g.Name
	return w.add(c, u), nil
}

// RemoveGate removes library gate i. Built-in gates cannot be removed.
// Editors opened on that gate are unlinked from it.
//
func (w *Workspace) RemoveGate(i int) error {
	u, err := w.userIndex(i)
	if err != nil {
		return err
	}
	name := w.user[u].Name
	w.user = append(w.user[:u], w.user[u+1:]...)
	for k := range w.editors {
		switch e := &w.editors[k]; {
		case e.link == u:
			e.link = -1
		case e.link > u:
			e.link--
		}
	}
	logicsim.Logger().Debug("library gate removed", zap.String("gate", name))
	return nil
}

// PlaceGate places a copy of library gate i in the current circuit at p.
//
func (w *Workspace) PlaceGate(i int, p image.Point) (*logicsim.Gate, error) {
	lib := w.Library()
	if i < 0 || i >= len(lib) {
		return nil, errors.Wrapf(logicsim.ErrIndex, "library gate %d (have %d)", i, len(lib))
	}
	return w.Current().Place(lib[i], p), nil
}
