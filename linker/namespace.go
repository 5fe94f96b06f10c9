package linker

import (
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/wippyai/witgen/errors"
)

// FuncDef defines a host function
type FuncDef struct {
	Handler HostFunc
	Name    string
	Type    FuncType
}

// Namespace represents a hierarchical namespace node with optional version
type Namespace struct {
	version  *semver.Version
	funcs    map[string]*FuncDef
	children map[string]*Namespace
	parent   *Namespace
	name     string
	mu       sync.RWMutex
}

// NewNamespace creates a root namespace
func NewNamespace() *Namespace {
	return &Namespace{
		funcs:    make(map[string]*FuncDef),
		children: make(map[string]*Namespace),
	}
}

// Name returns the namespace name
func (ns *Namespace) Name() string {
	return ns.name
}

// Version returns the namespace version, or nil if unversioned
func (ns *Namespace) Version() *semver.Version {
	return ns.version
}

// FullPath returns the full namespace path like "wasi:io/streams@0.2.0"
func (ns *Namespace) FullPath() string {
	if ns.parent == nil {
		return ns.name
	}
	self := ns.name
	if ns.version != nil {
		self += "@" + ns.version.String()
	}
	parentPath := ns.parent.FullPath()
	if parentPath == "" {
		return self
	}
	return parentPath + "/" + self
}

// Instance returns or creates the namespace at path, creating intermediate
// nodes. path accepts an optional version: "wasi:io/streams@0.2.0".
func (ns *Namespace) Instance(path string) *Namespace {
	current := ns
	for _, seg := range parseNamespacePath(path) {
		current = current.child(seg)
	}
	return current
}

func (ns *Namespace) child(seg pathSegment) *Namespace {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	key := seg.key()
	if child, ok := ns.children[key]; ok {
		return child
	}

	child := &Namespace{
		name:     seg.name,
		version:  seg.version,
		funcs:    make(map[string]*FuncDef),
		children: make(map[string]*Namespace),
		parent:   ns,
	}
	ns.children[key] = child
	return child
}

// DefineFunc registers a host function in this namespace.
// DefineFunc overwrites any existing function with the same name.
func (ns *Namespace) DefineFunc(name string, ft FuncType, fn HostFunc) error {
	if name == "" {
		return errors.Registration(errors.PhaseLinking, ns.FullPath(), name,
			errors.InvalidInput(errors.PhaseLinking, "empty function name"))
	}
	if fn == nil {
		return errors.Registration(errors.PhaseLinking, ns.FullPath(), name,
			errors.InvalidInput(errors.PhaseLinking, "nil handler"))
	}
	for i, t := range ft.Params {
		if !t.Valid() {
			return errors.Registration(errors.PhaseLinking, ns.FullPath(), name,
				errors.OutOfBounds(errors.PhaseLinking, []string{"params"}, i, len(ft.Params)))
		}
	}
	for i, t := range ft.Results {
		if !t.Valid() {
			return errors.Registration(errors.PhaseLinking, ns.FullPath(), name,
				errors.OutOfBounds(errors.PhaseLinking, []string{"results"}, i, len(ft.Results)))
		}
	}

	ns.mu.Lock()
	_, replaced := ns.funcs[name]
	ns.funcs[name] = &FuncDef{
		Name:    name,
		Type:    ft,
		Handler: fn,
	}
	ns.mu.Unlock()

	Logger().Debug("defined host function",
		zap.String("namespace", ns.FullPath()),
		zap.String("name", name),
		zap.Stringer("type", ft),
		zap.Bool("replaced", replaced))
	return nil
}

// GetFunc returns a function by name, or nil if not found
func (ns *Namespace) GetFunc(name string) *FuncDef {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.funcs[name]
}

// GetChild returns a child namespace by key ("streams@0.2.0"), or nil
func (ns *Namespace) GetChild(key string) *Namespace {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.children[key]
}

// Resolve looks up a function by full path: "wasi:io/streams@0.2.0#read"
// Resolve supports semver-compatible matching when exact version not found.
func (ns *Namespace) Resolve(path string) *FuncDef {
	return ns.ResolveWithSemver(path, true)
}

// ResolveExact looks up a function requiring exact version match
func (ns *Namespace) ResolveExact(path string) *FuncDef {
	return ns.ResolveWithSemver(path, false)
}

// ResolveWithSemver looks up a function with configurable semver matching
func (ns *Namespace) ResolveWithSemver(path string, semverMatching bool) *FuncDef {
	idx := strings.LastIndex(path, "#")
	if idx < 0 {
		return nil
	}
	target := ns.Lookup(path[:idx], semverMatching)
	if target == nil {
		return nil
	}
	return target.GetFunc(path[idx+1:])
}

// Lookup finds a namespace by path. With semverMatching, a versioned segment
// that has no exact match resolves to the highest caret-compatible version
// (same major, or same minor below 1.0).
func (ns *Namespace) Lookup(path string, semverMatching bool) *Namespace {
	if path == "" {
		return ns
	}

	current := ns
	for _, seg := range parseNamespacePath(path) {
		next := current.GetChild(seg.key())
		if next == nil && seg.version != nil && semverMatching {
			next = current.compatibleChild(seg)
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

func (ns *Namespace) compatibleChild(seg pathSegment) *Namespace {
	c, err := semver.NewConstraint("^" + seg.version.String())
	if err != nil {
		return nil
	}

	ns.mu.RLock()
	defer ns.mu.RUnlock()

	var best *Namespace
	for _, child := range ns.children {
		if child.name != seg.name || child.version == nil || !c.Check(child.version) {
			continue
		}
		if best == nil || child.version.GreaterThan(best.version) {
			best = child
		}
	}
	return best
}

// AllFuncs returns all functions defined in this namespace
func (ns *Namespace) AllFuncs() map[string]*FuncDef {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	result := make(map[string]*FuncDef, len(ns.funcs))
	for k, v := range ns.funcs {
		result[k] = v
	}
	return result
}

// AllChildren returns all child namespaces
func (ns *Namespace) AllChildren() map[string]*Namespace {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	result := make(map[string]*Namespace, len(ns.children))
	for k, v := range ns.children {
		result[k] = v
	}
	return result
}

// pathSegment represents a parsed namespace path segment
type pathSegment struct {
	version *semver.Version
	name    string
}

func (s pathSegment) key() string {
	if s.version == nil {
		return s.name
	}
	return s.name + "@" + s.version.String()
}

// parseNamespacePath parses "wasi:io/streams@0.2.0" into segments
func parseNamespacePath(path string) []pathSegment {
	var segments []pathSegment

	// "wasi:io" stays one segment
	colonIdx := strings.Index(path, ":")
	if colonIdx > 0 {
		slashIdx := strings.Index(path[colonIdx:], "/")
		if slashIdx < 0 {
			return append(segments, parseSingleSegment(path))
		}
		segments = append(segments, parseSingleSegment(path[:colonIdx+slashIdx]))
		path = path[colonIdx+slashIdx+1:]
	}

	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, parseSingleSegment(part))
		}
	}
	return segments
}

// parseSingleSegment parses "streams@0.2.0" into name and version
func parseSingleSegment(s string) pathSegment {
	idx := strings.LastIndex(s, "@")
	if idx < 0 {
		return pathSegment{name: s}
	}
	v, err := semver.NewVersion(s[idx+1:])
	if err != nil {
		return pathSegment{name: s}
	}
	return pathSegment{name: s[:idx], version: v}
}
