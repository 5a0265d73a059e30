package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/eseries"
	"github.com/atlantix-eda/aeda/pkg/library"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
	"github.com/atlantix-eda/aeda/pkg/render/kicad"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

// Default output directories of the export commands.
const (
	defaultKicadDir  = "kicad_libs"
	defaultAltiumDir = "altium_libs"
)

// =============================================================================
// Shared generation flags
// =============================================================================

// genFlags are the parameter-space flags shared by generate and export.
type genFlags struct {
	series        string
	packages      []string
	decades       []int64
	manufacturers []string
	descriptor    string
	workers       int
	refresh       bool
	progress      string
}

func (f *genFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.series, "series", "s", "", "E-series (E3, E6, E12, E24, E48, E96, E192)")
	flags.StringSliceVarP(&f.packages, "packages", "p", nil, "comma-separated package codes (e.g. 0603,0805)")
	flags.Int64SliceVar(&f.decades, "decades", nil, "comma-separated decade multipliers (e.g. 1,10,100)")
	flags.StringSliceVarP(&f.manufacturers, "manufacturers", "m", nil, "manufacturers to emit part numbers for")
	flags.StringVar(&f.descriptor, "descriptor", "", "take series, packages and base values from a stencil descriptor")
	flags.IntVar(&f.workers, "workers", 0, "parallel expansion workers (0 = config or one per CPU)")
	flags.BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts and regenerate")
	flags.StringVar(&f.progress, "progress", progressAuto, "progress display: "+strings.Join(progressModes, ", "))

	_ = cmd.RegisterFlagCompletionFunc("series", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, s := range eseries.All() {
			names = append(names, s.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("packages", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return smd.Codes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("progress", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return progressModes, cobra.ShellCompDirectiveNoFileComp
	})
}

// options builds run options from config defaults overridden by flags.
func (c *CLI) options(f *genFlags) (pipeline.Options, error) {
	gen := c.cfg.Generation
	opts := pipeline.Options{
		Series:        c.cfg.Series(),
		Packages:      gen.DefaultPackages,
		Decades:       gen.Decades,
		Manufacturers: gen.Manufacturers,
		SymbolStyle:   gen.SymbolStyle,
		Workers:       gen.Workers,
		Refresh:       f.refresh,
	}

	if f.descriptor != "" {
		d, err := library.LoadDescriptor(f.descriptor)
		if err != nil {
			return opts, err
		}
		if err := opts.ApplyDescriptor(d); err != nil {
			return opts, err
		}
	}
	if f.series != "" {
		s, err := eseries.Parse(f.series)
		if err != nil {
			return opts, err
		}
		opts.Series = s
		if f.descriptor != "" {
			// Explicit series wins over the descriptor's base values.
			opts.BaseValues = nil
		}
	}
	if len(f.packages) > 0 {
		opts.Packages = trimAll(f.packages)
	}
	if len(f.decades) > 0 {
		opts.Decades = f.decades
	}
	if len(f.manufacturers) > 0 {
		opts.Manufacturers = trimAll(f.manufacturers)
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	return opts, nil
}

func trimAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// =============================================================================
// export
// =============================================================================

// exportCommand creates the export command and its format subcommands.
func (c *CLI) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export libraries for an EDA tool",
		Long: `Export expands the configured E-series values across the selected packages
and writes libraries for KiCad, Altium or Stencil.

Unset flags fall back to config.toml, then to the built-in defaults.`,
	}
	cmd.AddCommand(c.exportKicadCommand())
	cmd.AddCommand(c.exportAltiumCommand())
	cmd.AddCommand(c.exportStencilCommand())
	return cmd
}

func (c *CLI) exportKicadCommand() *cobra.Command {
	var (
		flags          genFlags
		output         string
		style          string
		targetLib      string
		footprintLib   string
		symbolsOnly    bool
		footprintsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "kicad",
		Short: "Export KiCad symbol and footprint libraries",
		Example: `  aeda export kicad --series E96 --packages 0603,0805
  aeda export kicad --target-lib ~/kicad/Atlantix --style american
  aeda export kicad --symbols-only -o ./libs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if symbolsOnly && footprintsOnly {
				return errs.New(errs.ErrCodeInvalidInput, "--symbols-only and --footprints-only are mutually exclusive")
			}
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			switch {
			case symbolsOnly:
				opts.Formats = []string{pipeline.FormatKicadSymbols}
			case footprintsOnly:
				opts.Formats = []string{pipeline.FormatKicadFootprints}
			default:
				opts.Formats = []string{pipeline.FormatKicad}
			}
			if style != "" {
				opts.SymbolStyle = style
			}
			opts.FootprintLibrary = footprintLib
			opts.KicadTargetLib = targetLib
			opts.OutputDir = output
			if output == "" {
				opts.OutputDir = defaultKicadDir
			}
			if output == "" && targetLib == "" {
				opts.SymbolDir = c.cfg.Paths.Symbols
				opts.FootprintDir = c.cfg.Paths.Footprints
			}
			return c.export(cmd, "Exporting KiCad libraries", opts, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default ./"+defaultKicadDir+")")
	cmd.Flags().StringVar(&style, "style", "", "symbol style: european or american")
	cmd.Flags().StringVar(&targetLib, "target-lib", "", "write into an existing KiCad library tree ({dir}/symbols, {dir}/footprints)")
	cmd.Flags().StringVar(&footprintLib, "footprint-lib", kicad.DefaultFootprintLibrary, "footprint library nickname")
	cmd.Flags().BoolVar(&symbolsOnly, "symbols-only", false, "write only symbol libraries")
	cmd.Flags().BoolVar(&footprintsOnly, "footprints-only", false, "write only footprints")
	_ = cmd.RegisterFlagCompletionFunc("style", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(kicad.StyleEuropean), string(kicad.StyleAmerican)}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *CLI) exportAltiumCommand() *cobra.Command {
	var (
		flags  genFlags
		output string
	)

	cmd := &cobra.Command{
		Use:     "altium",
		Short:   "Export Altium database-library CSV tables",
		Example: `  aeda export altium --series E24 --packages 0402,0603 --manufacturers Yageo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			opts.Formats = []string{pipeline.FormatAltium}
			opts.OutputDir = output
			return c.export(cmd, "Exporting Altium tables", opts, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", defaultAltiumDir, "output directory")
	return cmd
}

func (c *CLI) exportStencilCommand() *cobra.Command {
	var (
		flags  genFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "stencil",
		Short: "Export Stencil library descriptors",
		Long: `Write one Stencil library descriptor per package. Without --output the
descriptors go into the data directory and are registered in the manifest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			if output == "" {
				return c.generateResistors(cmd, opts, &flags)
			}
			opts.Formats = []string{pipeline.FormatStencil}
			opts.OutputDir = output
			if err := c.export(cmd, "Exporting Stencil descriptors", opts, &flags); err != nil {
				return err
			}
			if len(opts.Packages) > 0 {
				printNewline()
				printStencilUsage(library.ResistorName(opts.Series, opts.Packages[0]))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: the data directory)")
	return cmd
}

// export runs opts and prints the result.
func (c *CLI) export(cmd *cobra.Command, title string, opts pipeline.Options, flags *genFlags) error {
	prog := newProgress(loggerFromContext(cmd.Context()))
	res, err := c.runJob(cmd.Context(), title, opts, flags.progress)
	if res == nil {
		return err
	}
	printResult(res, displayPath(opts.OutputDir))
	if err != nil {
		return err
	}
	prog.done("Export complete")
	if len(res.FilesOf(pipeline.FormatKicadSymbols))+len(res.FilesOf(pipeline.FormatKicadFootprints)) > 0 {
		printNewline()
		printNextStep("Add the libraries in KiCad", "Preferences > Manage Symbol/Footprint Libraries")
	}
	return nil
}

// printStencilUsage prints how to load a generated library from Stencil.
func printStencilUsage(name string) {
	printInfo("Use in Stencil:")
	printCommand(`local r = library("resistor::` + name + `")`)
	printCommand(`r:and_value("10k"):at(10, 20):place()`)
}

// displayPath returns the absolute form of p for messages.
func displayPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
