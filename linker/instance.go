package linker

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/value"
)

// LocalInstance serves a Linker's host definitions back as component
// exports. It lets generated export accessors be exercised in-process
// against host implementations registered through the generated import
// bindings.
type LocalInstance struct {
	root   *Namespace
	semver bool
}

var _ Instance = (*LocalInstance)(nil)

// Exports returns the root of the export tree.
func (i *LocalInstance) Exports() Exports {
	return nsExports{ns: i.root, semver: i.semver}
}

type nsExports struct {
	ns     *Namespace
	semver bool
}

func (e nsExports) Name() string { return e.ns.FullPath() }

func (e nsExports) Instance(name string) (Exports, bool) {
	ns := e.ns.Lookup(name, e.semver)
	if ns == nil || ns == e.ns {
		return nil, false
	}
	return nsExports{ns: ns, semver: e.semver}, true
}

func (e nsExports) Func(name string) (Func, bool) {
	def := e.ns.GetFunc(name)
	if def == nil {
		return nil, false
	}
	return &localFunc{def: def, path: qualify(e.ns.FullPath(), name)}, true
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "#" + name
}

type localFunc struct {
	def  *FuncDef
	path string
}

func (f *localFunc) Name() string { return f.def.Name }

func (f *localFunc) Type() FuncType { return f.def.Type }

func (f *localFunc) Call(ctx context.Context, params, results []value.Value) error {
	ft := f.def.Type
	if len(params) != len(ft.Params) {
		return errors.CallFailed(f.path, errors.InvalidInput(errors.PhaseCall,
			"expected "+strconv.Itoa(len(ft.Params))+" params, got "+strconv.Itoa(len(params))))
	}
	if len(results) != len(ft.Results) {
		return errors.CallFailed(f.path, errors.InvalidInput(errors.PhaseCall,
			"expected "+strconv.Itoa(len(ft.Results))+" result slots, got "+strconv.Itoa(len(results))))
	}
	for i, p := range params {
		if err := value.Check(ft.Params[i], p); err != nil {
			return errors.CallFailed(f.path, errors.WithPath(err, "param"+strconv.Itoa(i)))
		}
	}

	if err := f.def.Handler(ctx, params, results); err != nil {
		Logger().Debug("host call failed", zap.String("func", f.path), zap.Error(err))
		return errors.CallFailed(f.path, err)
	}

	for i, r := range results {
		if err := value.Check(ft.Results[i], r); err != nil {
			return errors.CallFailed(f.path, errors.WithPath(err, "result"+strconv.Itoa(i)))
		}
	}
	return nil
}
