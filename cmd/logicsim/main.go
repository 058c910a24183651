// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command logicsim loads a circuit or workspace file and runs it, either
// headless, printing the circuit outputs after every tick, or interactively
// in the terminal.
//
// Usage:
//
//	logicsim [flags] [file]
//
// Without a file, the -gate flag opens a library gate for simulation.
//
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/db47h/logicsim"
	gl "github.com/db47h/logicsim/gatelib"
	"github.com/db47h/logicsim/internal/config"
	"github.com/db47h/logicsim/internal/render"
	"github.com/db47h/logicsim/internal/tui"
	"github.com/db47h/logicsim/savefile"
	"github.com/db47h/logicsim/workspace"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	stdlib := flag.Bool("stdlib", false, "add the standard gate library to the workspace")
	gate := flag.String("gate", "", "simulate the named library gate (built-in gates are wired to the circuit ports)")
	ticks := flag.Int("ticks", -1, "number of ticks of a headless run (overrides sim.ticks)")
	inputs := flag.String("inputs", "", "initial circuit inputs, as a string of 0 and 1")
	pngPath := flag.String("png", "", "write a PNG snapshot of the circuit after the run")
	savePath := flag.String("save", "", "save the workspace after the run")
	interactive := flag.Bool("tui", false, "run interactively in the terminal")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logicsim.SetLogger(logger)

	if *ticks >= 0 {
		cfg.Sim.Ticks = *ticks
	}
	if err = run(cfg, flag.Arg(0), *stdlib, *gate, *inputs, *pngPath, *savePath, *interactive); err != nil {
		logger.Fatal("logicsim", zap.Error(err))
	}
}

func run(cfg *config.Config, path string, stdlib bool, gate, inputs, pngPath, savePath string, interactive bool) error {
	opts := workspace.Options{
		MaxCircuits:  cfg.Workspace.MaxCircuits,
		Theme:        cfg.Workspace.Theme,
		SettlePasses: cfg.Sim.SettlePasses,
	}
	var w *workspace.Workspace
	var err error
	if path != "" {
		if w, err = savefile.LoadWorkspace(path, opts); err != nil {
			return err
		}
		logicsim.Logger().Info("loaded", zap.String("path", path), zap.Int("circuits", w.Len()))
	} else {
		w = workspace.New(opts)
	}
	if stdlib {
		w.AddGates(gl.Gates()...)
	}
	if gate != "" {
		if err = openGate(w, gate); err != nil {
			return err
		}
	}

	c := w.Current()
	for i, r := range inputs {
		if err = c.SetInput(i, r == '1'); err != nil {
			return errors.Wrap(err, "-inputs")
		}
	}

	if interactive {
		err = tui.Run(c, cfg.Sim.TickRate)
	} else {
		headless(c, cfg.Sim.Ticks)
	}
	if err != nil {
		return err
	}

	if pngPath != "" {
		ro := render.Options{Scale: cfg.Render.Scale, Margin: cfg.Render.Margin}
		if err = render.SavePNG(pngPath, c, ro); err != nil {
			return err
		}
	}
	if savePath != "" {
		return savefile.SaveWorkspace(savePath, w)
	}
	return nil
}

// openGate opens the library gate with the given name in a new editor. User
// gates open their circuit; built-in gates are placed in a new circuit wired
// to its ports.
func openGate(w *workspace.Workspace, name string) error {
	for i, g := range w.Library() {
		if !strings.EqualFold(g.Name, name) {
			continue
		}
		_, err := w.EditGate(i)
		if errors.Cause(err) == workspace.ErrBuiltin {
			err = wrapGate(w, i)
		}
		return errors.Wrapf(err, "gate %s", name)
	}
	return errors.Errorf("no gate named %q in the library", name)
}

// wrapGate places library gate i in a new circuit with one port per gate pin.
func wrapGate(w *workspace.Workspace, i int) error {
	proto := w.Library()[i]
	if _, err := w.NewCircuit(proto.Name); err != nil {
		return err
	}
	c := w.Current()
	in, out := proto.Arity()
	for len(c.Inputs()) < in {
		c.AddInput()
	}
	for len(c.Outputs()) < out {
		c.AddOutput()
	}
	g, err := w.PlaceGate(i, image.Pt(logicsim.OutputColumnX/2, logicsim.PortTop))
	if err != nil {
		return err
	}
	connect := func(from, to *logicsim.Node) error {
		if err := c.Connect(from); err != nil {
			return err
		}
		return c.Connect(to)
	}
	for k, n := range g.Inputs() {
		if err = connect(c.Inputs()[k], n); err != nil {
			return err
		}
	}
	for k, n := range g.Outputs() {
		if err = connect(n, c.Outputs()[k]); err != nil {
			return err
		}
	}
	return nil
}

func bits(bs []bool) string {
	var sb strings.Builder
	for _, b := range bs {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func headless(c *logicsim.Circuit, ticks int) {
	fmt.Printf("%s: %d inputs, %d outputs, %d gates\n", c.Name, len(c.Inputs()), len(c.Outputs()), len(c.Gates()))
	for i := 0; i < ticks; i++ {
		c.Update()
		fmt.Printf("tick %4d  in %s  out %s\n", c.Steps(), bits(c.InputStates()), bits(c.OutputStates()))
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
