// Command witgen generates Go bindings for WIT worlds.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/witgen/bindgen"
	"github.com/wippyai/witgen/internal/driver"
	"github.com/wippyai/witgen/ir"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:               "witgen",
	Short:             "Generate Go bindings for WIT worlds",
	Long:              `witgen turns a resolved WIT world into typed Go host interfaces, export accessors and value codecs.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(worldsCmd)
	rootCmd.AddCommand(browseCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log generation details")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|always|never)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// setup applies the global flags before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stderr)
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		return errors.WithHint(errors.Newf("unknown color mode %q", mode), "use auto, always or never")
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	log, err := newLogger(verbose)
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	ir.SetLogger(log)
	bindgen.SetLogger(log)
	driver.SetLogger(log)
	return nil
}

// newLogger returns a development logger for --verbose and an error-only
// console logger otherwise; diagnostics are printed by the commands.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	warnLabel  = color.New(color.FgYellow, color.Bold)
	hintLabel  = color.New(color.FgCyan)
	okLabel    = color.New(color.FgGreen, color.Bold)
	faint      = color.New(color.Faint)
)

func printError(err error) {
	errorLabel.Fprint(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, err)
	for _, hint := range strings.Split(errors.FlattenHints(err), "\n") {
		if hint = strings.TrimSpace(hint); hint != "" && !strings.HasPrefix(hint, "--") {
			hintLabel.Fprint(os.Stderr, "hint: ")
			fmt.Fprintln(os.Stderr, hint)
		}
	}
}
