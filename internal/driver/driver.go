// Package driver runs generation targets: load the IR, select the world,
// generate, and write bindings and manifests.
package driver

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/witgen/bindgen"
	"github.com/wippyai/witgen/internal/config"
	"github.com/wippyai/witgen/ir"
)

// Loader produces the IR of a target.
type Loader func(t *config.Target) (*ir.Resolve, error)

// LoadIR is the default Loader. Inline source is parsed directly, .json
// files are read as wasm-tools resolve documents, anything else as WIT.
func LoadIR(t *config.Target) (*ir.Resolve, error) {
	switch {
	case t.Source != "":
		return ir.ParseWIT(t.Source)
	case strings.EqualFold(filepath.Ext(t.WIT), ".json"):
		return ir.LoadJSON(t.WIT)
	default:
		return ir.LoadWIT(t.WIT)
	}
}

// Driver generates targets.
type Driver struct {
	// Load defaults to LoadIR.
	Load Loader
	// Jobs bounds parallel targets in RunAll. Zero means GOMAXPROCS.
	Jobs int
	// Stdout receives targets whose output is "-".
	Stdout io.Writer

	stdoutMu sync.Mutex
}

// New returns a driver writing "-" outputs to os.Stdout.
func New() *Driver {
	return &Driver{Load: LoadIR, Stdout: os.Stdout}
}

// Outcome reports one generated target.
type Outcome struct {
	Target      *config.Target
	World       string
	Output      string
	Bytes       int
	Changed     bool
	Diagnostics []bindgen.Diagnostic
}

// Generate loads t and returns the generator result without writing
// anything.
func (d *Driver) Generate(t *config.Target) (*bindgen.Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	load := d.Load
	if load == nil {
		load = LoadIR
	}

	res, err := load(t)
	if err != nil {
		return nil, errors.Wrapf(err, "target %q: load", t.Label())
	}

	world, err := res.SelectWorld(t.World)
	if err != nil {
		err = errors.Wrapf(err, "target %q: select world", t.Label())
		if names := res.WorldNames(); len(names) > 0 {
			err = errors.WithHintf(err, "set the world explicitly; available worlds: %s", strings.Join(names, ", "))
		}
		return nil, err
	}

	out, err := bindgen.Generate(res, world, bindgen.Options{
		Package:     t.Package,
		ImportsOnly: t.ImportsOnly,
		ExportsOnly: t.ExportsOnly,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "target %q: generate", t.Label())
	}
	return out, nil
}

// Run generates one target and writes its output and manifest. A file
// whose content would not change is left untouched.
func (d *Driver) Run(ctx context.Context, t *config.Target) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := d.Generate(t)
	if err != nil {
		return nil, err
	}

	o := &Outcome{
		Target:      t,
		World:       out.Manifest.World,
		Output:      t.Output,
		Bytes:       len(out.Source),
		Diagnostics: out.Diagnostics,
	}

	if t.Output == "-" {
		d.stdoutMu.Lock()
		_, err = d.Stdout.Write(out.Source)
		d.stdoutMu.Unlock()
		if err != nil {
			return nil, errors.Wrap(err, "write stdout")
		}
		o.Changed = true
	} else if o.Changed, err = writeIfChanged(t.Output, out.Source); err != nil {
		return nil, err
	}

	if t.Manifest != "" {
		data, err := EncodeManifest(out.Manifest)
		if err != nil {
			return nil, err
		}
		if _, err := writeIfChanged(t.Manifest, data); err != nil {
			return nil, err
		}
	}

	Logger().Info("generated target",
		zap.String("target", t.Label()),
		zap.String("world", o.World),
		zap.String("output", o.Output),
		zap.Bool("changed", o.Changed),
		zap.Int("diagnostics", len(o.Diagnostics)))
	return o, nil
}

// RunAll generates targets in parallel. Outcomes are in target order; the
// first error cancels the remaining targets.
func (d *Driver) RunAll(ctx context.Context, targets []config.Target) ([]*Outcome, error) {
	jobs := d.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]*Outcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range targets {
		g.Go(func() error {
			o, err := d.Run(gctx, &targets[i])
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// EncodeManifest renders m the way Run writes manifest files.
func EncodeManifest(m bindgen.Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode manifest")
	}
	return append(data, '\n'), nil
}

func writeIfChanged(path string, data []byte) (bool, error) {
	old, err := os.ReadFile(path)
	if err == nil && bytes.Equal(old, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrapf(err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, errors.Wrapf(err, "write %s", path)
	}
	return true, nil
}
