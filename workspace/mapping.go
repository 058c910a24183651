// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package workspace

import (
	"github.com/db47h/logicsim"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ToMapping returns the mapping of w. Only user gates are saved in the
// library. For each editor, KeyLinks holds the index of the user gate it was
// opened from with EditGate, or -1.
//
func (w *Workspace) ToMapping() logicsim.Mapping {
	cs := make([]any, len(w.editors))
	links := make([]any, len(w.editors))
	for i, e := range w.editors {
		cs[i] = e.c.ToMapping()
		links[i] = e.link
	}
	gs := make([]any, len(w.user))
	for i, g := range w.user {
		gs[i] = g.ToMapping()
	}
	return logicsim.Mapping{
		KeyTheme:    w.opts.Theme,
		KeyIndex:    w.cur,
		KeyCircuits: cs,
		KeyGates:    gs,
		KeyLinks:    links,
	}
}

type record struct {
	Theme    string             `mapstructure:"theme_color"`
	Index    int                `mapstructure:"circuit_index"`
	Circuits []logicsim.Mapping `mapstructure:"circuits"`
	Gates    []logicsim.Mapping `mapstructure:"gate_options"`
	Links    []int              `mapstructure:"circuit_links"`
}

// FromMapping rebuilds a workspace from its mapping. A saved theme overrides
// opts.Theme.
//
// Errors have logicsim.ErrMalformedSave as their cause.
//
func FromMapping(m logicsim.Mapping, opts Options) (*Workspace, error) {
	var r record
	if err := logicsim.Decode(m, &r); err != nil {
		return nil, errors.Wrapf(logicsim.ErrMalformedSave, "workspace: %v", err)
	}
	if r.Theme != "" {
		opts.Theme = r.Theme
	}
	w := New(opts)
	if len(r.Circuits) == 0 {
		return nil, errors.Wrap(logicsim.ErrMalformedSave, "workspace: no circuit")
	}
	if len(r.Circuits) > w.opts.MaxCircuits {
		return nil, errors.Wrapf(logicsim.ErrMalformedSave, "workspace: %d circuits, max %d", len(r.Circuits), w.opts.MaxCircuits)
	}
	if r.Index < 0 || r.Index >= len(r.Circuits) {
		return nil, errors.Wrapf(logicsim.ErrMalformedSave, "workspace: circuit index %d out of range", r.Index)
	}
	if r.Links != nil && len(r.Links) != len(r.Circuits) {
		return nil, errors.Wrapf(logicsim.ErrMalformedSave, "workspace: %d circuit links for %d circuits", len(r.Links), len(r.Circuits))
	}
	for i, l := range r.Links {
		if l < -1 || l >= len(r.Gates) {
			return nil, errors.Wrapf(logicsim.ErrMalformedSave, "workspace: circuit %d: link %d out of range", i, l)
		}
	}
	for i, gm := range r.Gates {
		g, err := logicsim.GateFromMapping(gm)
		if err != nil {
			return nil, errors.Wrapf(err, "workspace: gate %d", i)
		}
		w.user = append(w.user, g)
	}
	w.editors = w.editors[:0]
	for i, cm := range r.Circuits {
		c, err := logicsim.FromMapping(cm)
		if err != nil {
			return nil, errors.Wrapf(err, "workspace: circuit %d", i)
		}
		link := -1
		if r.Links != nil {
			link = r.Links[i]
		}
		w.editors = append(w.editors, editor{c: c, link: link})
	}
	w.count = len(w.editors)
	w.cur = r.Index
	logicsim.Logger().Debug("workspace loaded",
		zap.Int("circuits", len(w.editors)),
		zap.Int("gates", len(w.user)))
	return w, nil
}
