// Package cmd implements the bmconf CLI.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/maryjis/brainmagick-MICCAI/internal/config"
	"github.com/maryjis/brainmagick-MICCAI/internal/logging"
	"github.com/maryjis/brainmagick-MICCAI/internal/schema"
	"github.com/maryjis/brainmagick-MICCAI/internal/sweep"
	"github.com/maryjis/brainmagick-MICCAI/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the bmconf CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bmconf", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")
	logLevel := fs.String("log-level", "info", "Log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		printUsage(os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(*logLevel)
	logger := logging.New(opts)

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(os.Stderr)
		return fmt.Errorf("missing command")
	}
	subcommand := remaining[0]
	remaining = remaining[1:]

	switch subcommand {
	case "validate":
		return validateCommand(logger, remaining)
	case "show":
		return showCommand(logger, remaining)
	case "example":
		return exampleCommand()
	case "convert":
		return convertCommand(logger, remaining)
	case "sweep":
		return sweepCommand(logger, remaining)
	case "tui":
		return tuiCommand(ctx, remaining)
	case "version":
		return versionCommand()
	case "help":
		printUsage(os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// validateCommand loads a config file and reports the first failure,
// running the document through schema validation before the loader's
// invariant checks.
func validateCommand(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("bmconf validate", flag.ContinueOnError)
	strict := fs.Bool("strict", false, "Fail on unknown document keys")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singlePathArg(fs, "validate")
	if err != nil {
		return err
	}

	format, err := config.FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	doc, err := config.DecodeDocument(data, format)
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	cfg, err := config.LoadFile(path, loadOptions(logger, *strict)...)
	if err != nil {
		return err
	}

	logger.Info("config valid",
		"file", path,
		"model", cfg.ModelName,
		"depth", cfg.SimpleConv.Depth,
		"batch_size", cfg.Optim.BatchSize,
	)
	return nil
}

// showCommand prints the fully resolved config and the per-layer
// geometry table.
func showCommand(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("bmconf show", flag.ContinueOnError)
	strict := fs.Bool("strict", false, "Fail on unknown document keys")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singlePathArg(fs, "show")
	if err != nil {
		return err
	}

	cfg, err := config.LoadFile(path, loadOptions(logger, *strict)...)
	if err != nil {
		return err
	}

	data, err := config.Encode(cfg, config.FormatYAML)
	if err != nil {
		return err
	}
	os.Stdout.Write(data)
	fmt.Println()
	printGeometry(os.Stdout, &cfg.SimpleConv)
	return nil
}

func exampleCommand() error {
	fmt.Print(config.ExampleConfig())
	return nil
}

// convertCommand rewrites a config in another format. Environment
// overrides are deliberately not applied so the conversion is a pure
// round trip.
func convertCommand(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("bmconf convert", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: bmconf convert <in> <out>")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	cfg, err := config.LoadFile(in, config.WithoutEnv(), config.WithUnknownKeyFunc(warnUnknown(logger)))
	if err != nil {
		return err
	}
	if err := config.Save(cfg, out); err != nil {
		return err
	}
	logger.Info("converted", "from", in, "to", out)
	return nil
}

// sweepCommand expands a grid sweep into numbered config files.
func sweepCommand(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("bmconf sweep", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singlePathArg(fs, "sweep")
	if err != nil {
		return err
	}

	spec, err := sweep.ParseSpecFile(path)
	if err != nil {
		return err
	}
	format, err := config.FormatForPath(spec.Base)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(spec.Base)
	if err != nil {
		return fmt.Errorf("read base config %s: %w", spec.Base, err)
	}
	baseDoc, err := config.DecodeDocument(data, format)
	if err != nil {
		return err
	}

	variants, err := spec.Expand(baseDoc)
	if err != nil {
		return err
	}
	stem := strings.TrimSuffix(filepath.Base(spec.Base), filepath.Ext(spec.Base))
	paths, err := sweep.WriteFiles(variants, spec.OutDir, stem)
	if err != nil {
		return err
	}
	for i, p := range paths {
		logger.Info("wrote variant", "file", p, "overrides", variants[i].Overrides)
	}
	logger.Info("sweep expanded", "variants", len(paths), "dir", spec.OutDir)
	return nil
}

func tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bmconf tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singlePathArg(fs, "tui")
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, path)
}

func versionCommand() error {
	fmt.Printf("bmconf %s\n", Version)
	return nil
}

func loadOptions(logger *log.Logger, strict bool) []config.Option {
	if strict {
		return []config.Option{config.WithStrict()}
	}
	return []config.Option{config.WithUnknownKeyFunc(warnUnknown(logger))}
}

func warnUnknown(logger *log.Logger) func(string) {
	return func(key string) {
		logger.Warn("unknown config key ignored", "key", key)
	}
}

func singlePathArg(fs *flag.FlagSet, name string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("usage: bmconf %s <config-file>", name)
	}
	return fs.Arg(0), nil
}

func printGeometry(w io.Writer, sc *config.SimpleConv) {
	fmt.Fprintf(w, "%-6s %-8s %-8s %-10s %-8s\n", "layer", "kernel", "stride", "dilation", "padding")
	for _, l := range sc.Layers() {
		fmt.Fprintf(w, "%-6d %-8d %-8d %-10d %-8d\n", l.Index, l.Kernel, l.Stride, l.Dilation, l.Padding)
	}
	fmt.Fprintf(w, "receptive field: %d samples\n", sc.ReceptiveField())
	if out := sc.ConfiguredOutputLen(); out >= 0 {
		fmt.Fprintf(w, "output length:   %d\n", out)
	} else {
		fmt.Fprintf(w, "output length:   inferred from input\n")
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `bmconf — brainmagick training-config toolkit

Usage:
  bmconf [flags] <command> [args]

Commands:
  validate <file>      Check a config against the schema and invariants
  show <file>          Print the resolved config and layer geometry
  example              Print a commented example config
  convert <in> <out>   Rewrite a config in another format (yaml|toml|json)
  sweep <file>         Expand a grid sweep into config files
  tui <file>           Interactive config inspector
  version              Print version

Flags:
  --log-level <level>  Log level: debug, info, warn, error (default info)
  -h, --help           Show help
  -v, --version        Show version

Environment:
  BM_NUM_WORKERS, BM_EPOCHS, BM_MAX_BATCHES, BM_BATCH_SIZE,
  BM_OFFSET_MEG_MS override the matching config fields.
`)
}
