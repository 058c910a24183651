// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"image"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// A Mapping is the plain nested map representation of a circuit or gate, as
// written to save files. Numbers may be any numeric type when loading, as
// produced by JSON or YAML decoders.
//
type Mapping = map[string]any

// Mapping keys of a circuit.
//
const (
	KeyName         = "name"
	KeyTheme        = "theme"
	KeyInputs       = "circuit_inputs"
	KeyOutputs      = "circuit_outputs"
	KeyGates        = "gates"
	KeyWires        = "wires"
	KeyWireIndexes  = "wire_connection_indexes"
	KeySettlePasses = "settle_passes"
	KeyBehavior     = "behavior"
	KeyInputCount   = "input_count"
	KeyOutputCount  = "output_count"
	KeyBreakpoints  = "breakpoints"
	KeyDirection    = "direction"
	KeyPos          = "pos"
	KeyInputStates  = "input_states"
	KeyOutputStates = "output_states"
	keySize         = "size"
	keyColor        = "color"
	keyTextColor    = "text_color"
	keyColorOn      = "color_on"
	keyColorOff     = "color_off"
	keyStatic       = "static"
	keyState        = "state"
	keyWidth        = "width"
)

func point(p image.Point) []any { return []any{p.X, p.Y} }

func boolList(bs []bool) []any {
	l := make([]any, len(bs))
	for i, b := range bs {
		l[i] = b
	}
	return l
}

func nodeMapping(n *Node) Mapping {
	return Mapping{
		KeyPos:       point(n.Rect.Min),
		keySize:      point(n.Rect.Size()),
		KeyDirection: n.dir.String(),
		keyColorOn:   n.OnColor,
		keyColorOff:  n.OffColor,
		keyStatic:    n.Static,
		keyState:     n.state,
	}
}

func wireMapping(w *Wire) Mapping {
	bps := make([]any, len(w.segs))
	for i, s := range w.segs {
		bps[i] = []any{point(s.From), point(s.To)}
	}
	return Mapping{
		KeyBreakpoints: bps,
		keyWidth:       w.Width,
		keyColorOn:     w.OnColor,
		keyColorOff:    w.OffColor,
		keyState:       w.state,
	}
}

// ToMapping returns the mapping of g. The behavior is either the tag
// "#function<Name>" of a built-in primitive or a nested circuit mapping.
//
func (g *Gate) ToMapping() Mapping {
	return Mapping{
		KeyName:         g.Name,
		KeyInputCount:   len(g.ins),
		KeyOutputCount:  len(g.outs),
		KeyBehavior:     g.b.mapping(),
		KeyPos:          point(g.pos),
		keyColor:        g.Color,
		keyTextColor:    g.TextColor,
		KeyInputStates:  boolList(g.InputStates()),
		KeyOutputStates: boolList(g.OutputStates()),
	}
}

// ToMapping returns the mapping of c. The pending wire is not saved.
//
func (c *Circuit) ToMapping() Mapping {
	nodes := func(ns []*Node) []any {
		l := make([]any, len(ns))
		for i, n := range ns {
			l[i] = nodeMapping(n)
		}
		return l
	}
	gates := make([]any, len(c.gates))
	for i, g := range c.gates {
		gates[i] = g.ToMapping()
	}
	ws, idx := c.settled()
	wires := make([]any, len(ws))
	for i, w := range ws {
		wires[i] = wireMapping(w)
	}
	wi := make([]any, len(idx))
	for i, ix := range idx {
		l := make([]any, len(ix))
		for j, k := range ix {
			l[j] = k
		}
		wi[i] = l
	}
	return Mapping{
		KeyName:         c.Name,
		KeyTheme:        c.Theme,
		KeyInputs:       nodes(c.inputs),
		KeyOutputs:      nodes(c.outputs),
		KeyGates:        gates,
		KeyWires:        wires,
		KeyWireIndexes:  wi,
		KeySettlePasses: c.passes,
	}
}

type nodeRecord struct {
	Pos       []int  `mapstructure:"pos"`
	Size      []int  `mapstructure:"size"`
	Direction string `mapstructure:"direction"`
	ColorOn   string `mapstructure:"color_on"`
	ColorOff  string `mapstructure:"color_off"`
	Static    bool   `mapstructure:"static"`
	State     bool   `mapstructure:"state"`
}

type wireRecord struct {
	Breakpoints [][][]int `mapstructure:"breakpoints"`
	Width       int       `mapstructure:"width"`
	ColorOn     string    `mapstructure:"color_on"`
	ColorOff    string    `mapstructure:"color_off"`
	State       bool      `mapstructure:"state"`
}

type gateRecord struct {
	Name         string `mapstructure:"name"`
	InputCount   int    `mapstructure:"input_count"`
	OutputCount  int    `mapstructure:"output_count"`
	Behavior     any    `mapstructure:"behavior"`
	Pos          []int  `mapstructure:"pos"`
	Color        string `mapstructure:"color"`
	TextColor    string `mapstructure:"text_color"`
	InputStates  []bool `mapstructure:"input_states"`
	OutputStates []bool `mapstructure:"output_states"`
}

type circuitRecord struct {
	Name         string       `mapstructure:"name"`
	Theme        string       `mapstructure:"theme"`
	Inputs       []nodeRecord `mapstructure:"circuit_inputs"`
	Outputs      []nodeRecord `mapstructure:"circuit_outputs"`
	Gates        []Mapping    `mapstructure:"gates"`
	Wires        []wireRecord `mapstructure:"wires"`
	WireIndexes  [][]int      `mapstructure:"wire_connection_indexes"`
	SettlePasses int          `mapstructure:"settle_passes"`
}

// Decode decodes a plain value as produced by JSON or YAML decoders into the
// record pointed to by out. Numbers are converted as needed.
//
func Decode(in any, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return d.Decode(in)
}

func decodePoint(v []int, what string) (image.Point, error) {
	if len(v) != 2 {
		return image.Point{}, errors.Wrapf(ErrMalformedSave, "%s: point has %d coordinates", what, len(v))
	}
	return image.Pt(v[0], v[1]), nil
}

func (r *nodeRecord) node(dir Direction, what string) (*Node, error) {
	if r.Direction != "" && r.Direction != dir.String() {
		return nil, errors.Wrapf(ErrMalformedSave, "%s: direction %q, want %q", what, r.Direction, dir)
	}
	n := NewNode(dir)
	n.state = r.State
	n.Static = r.Static
	if r.ColorOn != "" {
		n.OnColor = r.ColorOn
	}
	if r.ColorOff != "" {
		n.OffColor = r.ColorOff
	}
	if r.Pos != nil {
		p, err := decodePoint(r.Pos, what)
		if err != nil {
			return nil, err
		}
		sz := image.Pt(NodeSize, NodeSize)
		if r.Size != nil {
			if sz, err = decodePoint(r.Size, what); err != nil {
				return nil, err
			}
		}
		n.Rect = image.Rectangle{Min: p, Max: p.Add(sz)}
	}
	return n, nil
}

func (r *wireRecord) wire(what string) (*Wire, error) {
	if len(r.Breakpoints) == 0 {
		return nil, errors.Wrapf(ErrMalformedSave, "%s: no segment", what)
	}
	w := NewWire(image.Point{}, image.Point{})
	w.segs = make([]Segment, len(r.Breakpoints))
	for i, s := range r.Breakpoints {
		if len(s) != 2 {
			return nil, errors.Wrapf(ErrMalformedSave, "%s: segment %d has %d points", what, i, len(s))
		}
		from, err := decodePoint(s[0], what)
		if err != nil {
			return nil, err
		}
		to, err := decodePoint(s[1], what)
		if err != nil {
			return nil, err
		}
		w.segs[i] = Segment{from, to}
	}
	if r.Width > 0 {
		w.Width = r.Width
	}
	if r.ColorOn != "" {
		w.OnColor = r.ColorOn
	}
	if r.ColorOff != "" {
		w.OffColor = r.ColorOff
	}
	w.state = r.State
	return w, nil
}

// GateFromMapping builds a gate from its mapping.
//
// Errors have ErrMalformedSave as their cause.
//
func GateFromMapping(m Mapping) (*Gate, error) {
	var r gateRecord
	if err := Decode(m, &r); err != nil {
		return nil, errors.Wrapf(ErrMalformedSave, "gate: %v", err)
	}
	what := "gate " + r.Name
	var b Behavior
	switch v := r.Behavior.(type) {
	case string:
		p := builtinTag(v)
		if p == nil {
			return nil, errors.Wrapf(ErrMalformedSave, "%s: unknown function %q", what, v)
		}
		b = p
	case Mapping:
		c, err := FromMapping(v)
		if err != nil {
			return nil, errors.Wrap(err, what)
		}
		b = &Composite{c: c}
	default:
		return nil, errors.Wrapf(ErrMalformedSave, "%s: invalid behavior of type %T", what, r.Behavior)
	}
	if in, out := b.Arity(); in != r.InputCount || out != r.OutputCount {
		return nil, errors.Wrapf(ErrMalformedSave, "%s: behavior arity (%d, %d), saved counts (%d, %d)",
			what, in, out, r.InputCount, r.OutputCount)
	}
	g := NewGate(r.Name, b)
	if r.Color != "" {
		g.Color = r.Color
	}
	if r.TextColor != "" {
		g.TextColor = r.TextColor
	}
	if r.Pos != nil {
		p, err := decodePoint(r.Pos, what)
		if err != nil {
			return nil, err
		}
		g.SetPos(p)
	}
	if err := restoreStates(g.ins, r.InputStates, what); err != nil {
		return nil, err
	}
	if err := restoreStates(g.outs, r.OutputStates, what); err != nil {
		return nil, err
	}
	return g, nil
}

func restoreStates(ns []*Node, s []bool, what string) error {
	if s == nil {
		return nil
	}
	if len(s) != len(ns) {
		return errors.Wrapf(ErrMalformedSave, "%s: %d node states for %d nodes", what, len(s), len(ns))
	}
	for i, n := range ns {
		n.state = s[i]
	}
	return nil
}

// FromMapping builds a circuit from its mapping: every node, gate and wire is
// built disconnected, then each wire is connected to the nodes named by its
// connection indexes.
//
// Errors have ErrMalformedSave as their cause.
//
func FromMapping(m Mapping) (*Circuit, error) {
	var r circuitRecord
	if err := Decode(m, &r); err != nil {
		return nil, errors.Wrapf(ErrMalformedSave, "circuit: %v", err)
	}
	what := "circuit " + r.Name
	if len(r.Inputs) == 0 || len(r.Outputs) == 0 {
		return nil, errors.Wrapf(ErrMalformedSave, "%s: missing circuit inputs or outputs", what)
	}
	c := &Circuit{Name: r.Name, Theme: r.Theme}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	c.SetSettlePasses(r.SettlePasses)
	for i := range r.Inputs {
		n, err := r.Inputs[i].node(Output, what+": input")
		if err != nil {
			return nil, err
		}
		c.inputs = append(c.inputs, n)
	}
	for i := range r.Outputs {
		n, err := r.Outputs[i].node(Input, what+": output")
		if err != nil {
			return nil, err
		}
		c.outputs = append(c.outputs, n)
	}
	for _, gm := range r.Gates {
		g, err := GateFromMapping(gm)
		if err != nil {
			return nil, errors.Wrap(err, what)
		}
		c.gates = append(c.gates, g)
	}
	for i := range r.Wires {
		w, err := r.Wires[i].wire(what + ": wire")
		if err != nil {
			return nil, err
		}
		c.wires = append(c.wires, w)
	}
	if err := c.reconnect(r.WireIndexes); err != nil {
		return nil, errors.Wrap(err, what)
	}
	Logger().Debug("circuit loaded",
		zap.String("circuit", c.Name),
		zap.Int("gates", len(c.gates)),
		zap.Int("wires", len(c.wires)))
	return c, nil
}
