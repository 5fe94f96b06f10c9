package linker

import (
	"strings"

	"github.com/wippyai/witgen/errors"
)

// Options configures linker behavior.
type Options struct {
	// SemverMatching lets lookups of "pkg/iface@0.2.0" resolve to a
	// compatible "pkg/iface@0.2.3" when no exact match exists.
	SemverMatching bool
}

// DefaultOptions returns default linker configuration.
func DefaultOptions() Options {
	return Options{
		SemverMatching: true,
	}
}

// Linker holds host function definitions in a namespace tree. It implements
// Definer, so generated Register*Host functions can target it directly.
// Thread-safe.
type Linker struct {
	root    *Namespace
	options Options
}

var _ Definer = (*Linker)(nil)

// New creates a new Linker with the given options.
func New(opts Options) *Linker {
	return &Linker{
		root:    NewNamespace(),
		options: opts,
	}
}

// NewWithDefaults creates a new Linker with default options.
func NewWithDefaults() *Linker {
	return New(DefaultOptions())
}

// Options returns the configuration.
func (l *Linker) Options() Options {
	return l.options
}

// Namespace returns the root namespace.
func (l *Linker) Namespace() *Namespace {
	return l.root
}

// Root returns the root namespace as a definer for world-level functions.
func (l *Linker) Root() InstanceDefiner {
	return l.root
}

// DefineInstance returns the namespace for an interface name such as
// "wasi:io/streams@0.2.0", creating it if needed.
func (l *Linker) DefineInstance(name string) (InstanceDefiner, error) {
	if strings.TrimSpace(name) == "" || strings.Contains(name, "#") {
		return nil, errors.Registration(errors.PhaseLinking, name, "",
			errors.InvalidInput(errors.PhaseLinking, "invalid instance name"))
	}
	return l.root.Instance(name), nil
}

// DefineFunc registers a function by full path: "ns#func", or "func" for
// the root.
func (l *Linker) DefineFunc(path string, ft FuncType, fn HostFunc) error {
	idx := strings.LastIndex(path, "#")
	if idx < 0 {
		return l.root.DefineFunc(path, ft, fn)
	}
	ns, err := l.DefineInstance(path[:idx])
	if err != nil {
		return err
	}
	return ns.DefineFunc(path[idx+1:], ft, fn)
}

// Resolve looks up a function by full path, honoring SemverMatching.
func (l *Linker) Resolve(path string) *FuncDef {
	if !strings.Contains(path, "#") {
		return l.root.GetFunc(path)
	}
	return l.root.ResolveWithSemver(path, l.options.SemverMatching)
}

// Instantiate exposes the defined namespaces as an Instance: every defined
// interface becomes an export with the same functions. Calls validate
// parameters and results against the declared FuncType.
func (l *Linker) Instantiate() *LocalInstance {
	return &LocalInstance{root: l.root, semver: l.options.SemverMatching}
}
