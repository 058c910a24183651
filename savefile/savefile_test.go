// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package savefile_test

import (
	"image"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/db47h/logicsim"
	gl "github.com/db47h/logicsim/gatelib"
	"github.com/db47h/logicsim/savefile"
	"github.com/db47h/logicsim/workspace"
	"github.com/pkg/errors"
)

func xorCircuit(t *testing.T) *logicsim.Circuit {
	c, err := gl.Circuit("XOR", []string{"a", "b"}, []string{"out"},
		gl.P(gl.Nand(), []string{"a", "b"}, "nandAB"),
		gl.P(gl.Nand(), []string{"a", "nandAB"}, "w0"),
		gl.P(gl.Nand(), []string{"b", "nandAB"}, "w1"),
		gl.P(gl.Nand(), []string{"w0", "w1"}, "out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	c.Update()
	return c
}

func Test_circuit_files(t *testing.T) {
	dir := t.TempDir()
	c := xorCircuit(t)
	m := c.ToMapping()
	for _, name := range []string{"xor.json", "xor.lsim", "xor.yaml", "xor.YML"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := savefile.SaveCircuit(path, c); err != nil {
				t.Fatal(err)
			}
			rm, err := savefile.Read(path)
			if err != nil {
				t.Fatal(err)
			}
			if k := savefile.KindOf(rm); k != savefile.Circuit {
				t.Fatalf("expected a circuit, got %v", k)
			}
			l, err := logicsim.FromMapping(rm)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(m, l.ToMapping()) {
				t.Fatal("circuit differs after reload")
			}

			w, err := savefile.LoadWorkspace(path, workspace.DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if w.Len() != 1 || w.Current().Name != "XOR" {
				t.Fatal("circuit file not opened as a single editor workspace")
			}
		})
	}
}

func Test_workspace_files(t *testing.T) {
	dir := t.TempDir()
	w := workspace.New(workspace.DefaultOptions())
	w.AddGates(gl.Xor(), gl.HalfAdder())
	if _, err := w.PlaceGate(4, image.Pt(120, 40)); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ws.json", "ws.yaml"} {
		path := filepath.Join(dir, name)
		if err := savefile.SaveWorkspace(path, w); err != nil {
			t.Fatal(err)
		}
		l, err := savefile.LoadWorkspace(path, workspace.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(w.ToMapping(), l.ToMapping()) {
			t.Fatalf("%s: workspace differs after reload", name)
		}
	}
}

func Test_errors(t *testing.T) {
	dir := t.TempDir()
	if err := savefile.Write(filepath.Join(dir, "c.txt"), logicsim.New("c").ToMapping()); errors.Cause(err) != savefile.ErrFormat {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	td := []struct{ name, data string }{
		{"garbage.json", "{not json"},
		{"empty.yaml", ""},
		{"other.json", `{"hello": "world"}`},
		{"list.yml", "- 1\n- 2\n"},
	}
	for _, d := range td {
		path := filepath.Join(dir, d.name)
		if err := os.WriteFile(path, []byte(d.data), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := savefile.LoadWorkspace(path, workspace.DefaultOptions()); errors.Cause(err) != logicsim.ErrMalformedSave {
			t.Errorf("%s: expected ErrMalformedSave, got %v", d.name, err)
		}
	}
	if _, err := savefile.Read(filepath.Join(dir, "missing.json")); err == nil || !os.IsNotExist(errors.Cause(err)) {
		t.Fatalf("expected a not exist error, got %v", err)
	}
}
