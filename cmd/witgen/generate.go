package main

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/wippyai/witgen/bindgen"
	"github.com/wippyai/witgen/internal/config"
	"github.com/wippyai/witgen/internal/driver"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [wit-path]",
	Short: "Generate bindings for one world or for every target of a project file",
	Long: `Generate bindings for a WIT world.

With a WIT path (argument or --wit) or --source, a single target is built from
the flags. Otherwise the targets of witgen.toml or witgen.yaml are run; the
file is looked up from the working directory upwards unless --config names it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

type generateOptions struct {
	config      string
	wit         string
	source      string
	world       string
	pkg         string
	output      string
	manifest    string
	importsOnly bool
	exportsOnly bool
	only        []string
	watch       bool
	debounce    time.Duration
	jobs        int
}

var genOpts generateOptions

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.config, "config", "", "project file with [[target]] entries")
	f.StringVar(&genOpts.wit, "wit", "", "WIT file, directory or resolve JSON")
	f.StringVar(&genOpts.source, "source", "", "inline WIT source")
	f.StringVar(&genOpts.world, "world", "", "world to generate (name or qualified name)")
	f.StringVar(&genOpts.pkg, "package", "", "Go package name of the output")
	f.StringVarP(&genOpts.output, "output", "o", "-", "output file, - for stdout")
	f.StringVar(&genOpts.manifest, "manifest", "", "write a JSON manifest of generated names")
	f.BoolVar(&genOpts.importsOnly, "imports-only", false, "emit only host interfaces")
	f.BoolVar(&genOpts.exportsOnly, "exports-only", false, "emit only export accessors")
	f.StringSliceVar(&genOpts.only, "target", nil, "run only the named project targets")
	f.BoolVar(&genOpts.watch, "watch", false, "regenerate when WIT files change")
	f.DurationVar(&genOpts.debounce, "debounce", driver.DefaultDebounce, "quiet period before regenerating in watch mode")
	f.IntVar(&genOpts.jobs, "jobs", 0, "max parallel targets (0=auto)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	targets, err := genOpts.targets(cmd.Flags().Changed, args)
	if err != nil {
		return err
	}

	d := driver.New()
	d.Jobs = genOpts.jobs
	d.Stdout = cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if !genOpts.watch {
		outcomes, err := d.RunAll(cmd.Context(), targets)
		report(stderr, outcomes)
		return err
	}

	ctx := cmd.Context()
	outcomes, err := d.RunAll(ctx, targets)
	report(stderr, outcomes)
	if err != nil {
		printError(err)
	}
	faint.Fprintln(stderr, "watching for changes, ctrl+c to stop")
	return d.Watch(ctx, targets, genOpts.debounce, func(outcomes []*driver.Outcome, err error) {
		report(stderr, outcomes)
		if err != nil {
			printError(err)
		}
	})
}

// targets builds the targets to run. changed reports whether a flag was
// set explicitly; explicit flags override the matching fields of project
// targets.
func (o *generateOptions) targets(changed func(string) bool, args []string) ([]config.Target, error) {
	if len(args) == 1 {
		if o.wit != "" {
			return nil, errors.WithHint(errors.New("WIT path given twice"), "pass either an argument or --wit")
		}
		o.wit = args[0]
	}

	if o.wit != "" || o.source != "" {
		if len(o.only) > 0 {
			return nil, errors.New("--target selects project targets and cannot be combined with a WIT path")
		}
		t := config.Target{
			WIT:         o.wit,
			Source:      o.source,
			World:       o.world,
			Package:     o.pkg,
			Output:      o.output,
			Manifest:    o.manifest,
			ImportsOnly: o.importsOnly,
			ExportsOnly: o.exportsOnly,
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		return []config.Target{t}, nil
	}

	file, err := o.loadFile()
	if err != nil {
		return nil, err
	}

	var out []config.Target
	for _, t := range file.Targets {
		if len(o.only) > 0 && !slices.Contains(o.only, t.Name) {
			continue
		}
		out = append(out, t)
	}
	for _, name := range o.only {
		if !slices.ContainsFunc(file.Targets, func(t config.Target) bool { return t.Name == name }) {
			return nil, errors.WithHintf(errors.Newf("no target named %q", name), "targets are defined in %s", file.Path)
		}
	}

	if changed("output") || changed("manifest") || changed("world") || changed("package") {
		if len(out) != 1 {
			return nil, errors.New("--output, --manifest, --world and --package need exactly one selected target")
		}
	}
	for i := range out {
		t := &out[i]
		if changed("world") {
			t.World = o.world
		}
		if changed("package") {
			t.Package = o.pkg
		}
		if changed("output") {
			t.Output = o.output
		}
		if changed("manifest") {
			t.Manifest = o.manifest
		}
		if changed("imports-only") {
			t.ImportsOnly = o.importsOnly
		}
		if changed("exports-only") {
			t.ExportsOnly = o.exportsOnly
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (o *generateOptions) loadFile() (*config.File, error) {
	path := o.config
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.WithHint(config.ErrNoTargets, "pass a WIT path, --source, or create witgen.toml")
		}
		path = found
	}
	return config.Load(path)
}

// report prints diagnostics and one status line per outcome.
func report(w io.Writer, outcomes []*driver.Outcome) {
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		for _, d := range o.Diagnostics {
			label := warnLabel
			if d.Severity == bindgen.SeverityError {
				label = errorLabel
			}
			fmt.Fprintf(w, "%s: ", o.Target.Label())
			label.Fprintln(w, d)
		}
		if o.Output == "-" {
			continue
		}
		if o.Changed {
			okLabel.Fprint(w, "wrote ")
			fmt.Fprintf(w, "%s (%s, %d bytes)\n", o.Output, o.World, o.Bytes)
		} else {
			faint.Fprintf(w, "unchanged %s\n", o.Output)
		}
	}
}
