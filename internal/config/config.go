// Package config loads witgen.toml and witgen.yaml project files.
//
// A project file lists generation targets:
//
//	[[target]]
//	name = "calculator"
//	wit = "wit"
//	world = "calculator"
//	package = "calculator"
//	output = "bindings.go"
//
// Relative paths are resolved against the directory holding the file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FileNames are the project files Find looks for, in order.
var FileNames = []string{"witgen.toml", "witgen.yaml", "witgen.yml"}

var (
	ErrNoTargets       = errors.New("no targets")
	ErrMissingSource   = errors.New("missing wit source")
	ErrTwoSources      = errors.New("both wit path and inline source")
	ErrConflictingMode = errors.New("imports-only and exports-only")
	ErrMissingOutput   = errors.New("missing output")
	ErrDuplicate       = errors.New("duplicate target")
	ErrFormat          = errors.New("unknown config format")
)

// Target is one generation unit: a WIT source, a world in it, and where
// the bindings go.
type Target struct {
	Name string `toml:"name" yaml:"name"`
	// WIT is a .wit file, a directory of them, or a wasm-tools resolve
	// JSON document.
	WIT string `toml:"wit" yaml:"wit"`
	// Source is inline WIT text, used instead of WIT.
	Source      string `toml:"source" yaml:"source"`
	World       string `toml:"world" yaml:"world"`
	Package     string `toml:"package" yaml:"package"`
	Output      string `toml:"output" yaml:"output"`
	Manifest    string `toml:"manifest" yaml:"manifest"`
	ImportsOnly bool   `toml:"imports_only" yaml:"imports_only"`
	ExportsOnly bool   `toml:"exports_only" yaml:"exports_only"`
}

// Label names the target in messages.
func (t *Target) Label() string {
	switch {
	case t.Name != "":
		return t.Name
	case t.World != "":
		return t.World
	case t.WIT != "":
		return t.WIT
	default:
		return "inline"
	}
}

// Validate checks that the target can be generated.
func (t *Target) Validate() error {
	var err error
	switch {
	case t.WIT == "" && strings.TrimSpace(t.Source) == "":
		err = errors.WithHint(ErrMissingSource, "set wit to a .wit file or directory, or source to inline WIT text")
	case t.WIT != "" && t.Source != "":
		err = errors.WithHint(ErrTwoSources, "set either wit or source, not both")
	case t.ImportsOnly && t.ExportsOnly:
		err = errors.WithHint(ErrConflictingMode, "drop one of imports_only and exports_only to generate both sides")
	case t.Output == "":
		err = errors.WithHint(ErrMissingOutput, "set output to the .go file to write, or - for stdout")
	}
	if err != nil {
		return errors.Wrapf(err, "target %q", t.Label())
	}
	return nil
}

// File is a parsed project file.
type File struct {
	Path    string   `toml:"-" yaml:"-"`
	Targets []Target `toml:"target" yaml:"target"`
}

// Validate checks every target and that no two targets share a name or an
// output file.
func (f *File) Validate() error {
	if len(f.Targets) == 0 {
		return errors.WithHint(errors.Wrapf(ErrNoTargets, "%s", f.Path), "add a [[target]] table")
	}
	names := map[string]bool{}
	outputs := map[string]bool{}
	for i := range f.Targets {
		t := &f.Targets[i]
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "%s", f.Path)
		}
		if t.Name != "" {
			if names[t.Name] {
				return errors.Wrapf(ErrDuplicate, "%s: name %q", f.Path, t.Name)
			}
			names[t.Name] = true
		}
		if t.Output != "-" {
			if outputs[t.Output] {
				return errors.WithHint(errors.Wrapf(ErrDuplicate, "%s: output %q", f.Path, t.Output),
					"each target needs its own output file")
			}
			outputs[t.Output] = true
		}
	}
	return nil
}

// Load reads and validates a project file. The format follows the file
// extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	f := &File{Path: path}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), f); err != nil {
			return nil, errors.Wrapf(err, "%s: parse TOML", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, errors.Wrapf(err, "%s: parse YAML", path)
		}
	default:
		return nil, errors.WithHint(errors.Wrapf(ErrFormat, "%s", path), "use a .toml, .yaml or .yml file")
	}

	f.resolve(filepath.Dir(path))
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// resolve makes relative paths relative to dir.
func (f *File) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || p == "-" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range f.Targets {
		t := &f.Targets[i]
		t.WIT = abs(t.WIT)
		t.Output = abs(t.Output)
		t.Manifest = abs(t.Manifest)
	}
}

// Find looks for a project file in dir and its parents.
func Find(dir string) (string, bool, error) {
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, errors.Wrap(err, "resolve start directory")
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, errors.Wrapf(err, "stat %s", candidate)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
