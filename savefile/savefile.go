// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package savefile reads and writes circuit and workspace mappings.
//
// The file format is chosen from the file extension: JSON for ".json" and
// ".lsim", YAML for ".yaml" and ".yml".
//
package savefile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/db47h/logicsim"
	"github.com/db47h/logicsim/workspace"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrFormat is returned for files with an unknown extension.
//
var ErrFormat = errors.New("unknown save file format")

// Format is a save file encoding.
//
type Format int

// Supported formats.
//
const (
	JSON Format = iota
	YAML
)

// FormatOf returns the format matching the extension of path.
//
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".lsim":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, errors.Wrap(ErrFormat, path)
}

// Kind tells what a mapping holds.
//
type Kind int

// Mapping kinds.
//
const (
	Unknown Kind = iota
	Circuit
	Workspace
)

func (k Kind) String() string {
	switch k {
	case Circuit:
		return "circuit"
	case Workspace:
		return "workspace"
	}
	return "unknown"
}

// KindOf returns the kind of m.
//
func KindOf(m logicsim.Mapping) Kind {
	if _, ok := m[workspace.KeyCircuits]; ok {
		return Workspace
	}
	if _, ok := m[logicsim.KeyWireIndexes]; ok {
		return Circuit
	}
	return Unknown
}

// Encode encodes m in the given format.
//
func Encode(m logicsim.Mapping, f Format) ([]byte, error) {
	if f == YAML {
		return yaml.Marshal(m)
	}
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetIndent("", "\t")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decode decodes a mapping in the given format.
//
func Decode(data []byte, f Format) (logicsim.Mapping, error) {
	var m logicsim.Mapping
	var err error
	if f == YAML {
		err = yaml.Unmarshal(data, &m)
	} else {
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, errors.Wrap(logicsim.ErrMalformedSave, err.Error())
	}
	if m == nil {
		return nil, errors.Wrap(logicsim.ErrMalformedSave, "empty document")
	}
	return m, nil
}

// Write writes m to the file at path.
//
func Write(path string, m logicsim.Mapping) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(m, f)
	if err != nil {
		return errors.Wrap(err, path)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write save file")
	}
	logicsim.Logger().Debug("saved", zap.String("path", path), zap.Stringer("kind", KindOf(m)))
	return nil
}

// Read reads a mapping from the file at path.
//
func Read(path string) (logicsim.Mapping, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read save file")
	}
	m, err := Decode(data, f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return m, nil
}

// LoadWorkspace reads a workspace from path. A file holding a single circuit
// is opened as a workspace with one editor.
//
func LoadWorkspace(path string, opts workspace.Options) (*workspace.Workspace, error) {
	m, err := Read(path)
	if err != nil {
		return nil, err
	}
	switch KindOf(m) {
	case Workspace:
		return workspace.FromMapping(m, opts)
	case Circuit:
		return workspace.FromMapping(logicsim.Mapping{
			workspace.KeyTheme:    opts.Theme,
			workspace.KeyIndex:    0,
			workspace.KeyCircuits: []any{m},
			workspace.KeyGates:    []any{},
		}, opts)
	}
	return nil, errors.Wrapf(logicsim.ErrMalformedSave, "%s: neither a circuit nor a workspace", path)
}

// SaveCircuit writes the mapping of c to path.
//
func SaveCircuit(path string, c *logicsim.Circuit) error {
	return Write(path, c.ToMapping())
}

// SaveWorkspace writes the mapping of w to path.
//
func SaveWorkspace(path string, w *workspace.Workspace) error {
	return Write(path, w.ToMapping())
}
