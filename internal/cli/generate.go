package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/atlantix-eda/aeda/pkg/eseries"
	"github.com/atlantix-eda/aeda/pkg/library"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
)

// generateCommand creates the generate command for stencil descriptors.
func (c *CLI) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate library descriptors in the data directory",
		Long: `Generate writes Stencil library descriptors into the data directory and
records them in libraries/manifest.json.`,
	}
	cmd.AddCommand(c.generateResistorsCommand())
	cmd.AddCommand(c.generateCapacitorsCommand())
	return cmd
}

func (c *CLI) generateResistorsCommand() *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "resistors",
		Short: "Generate resistor libraries for an E-series",
		Example: `  aeda generate resistors --series E96 --packages 0603,0805,1206
  aeda generate resistors --series E24`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			return c.generateResistors(cmd, opts, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// generateResistors writes one descriptor per package into the data
// directory and registers each in the manifest.
func (c *CLI) generateResistors(cmd *cobra.Command, opts pipeline.Options, flags *genFlags) error {
	m, err := library.LoadOrDefault(c.dataDir)
	if err != nil {
		return err
	}

	opts.Formats = []string{pipeline.FormatStencil}
	opts.OutputDir = c.dataDir

	printInfo("Generating %s resistor libraries...", StyleHighlight.Render(opts.Series.String()))
	prog := newProgress(loggerFromContext(cmd.Context()))
	res, runErr := c.runJob(cmd.Context(), "Generating descriptors", opts, flags.progress)
	if res == nil {
		return runErr
	}

	count := len(opts.BaseValues)
	if count == 0 {
		values, err := eseries.Expand(opts.Series)
		if err != nil {
			return err
		}
		count = len(values)
	}

	for _, f := range res.FilesOf(pipeline.FormatStencil) {
		ref := library.Ref{Category: "resistor", Name: library.ResistorName(opts.Series, f.Package)}
		m.Add(ref)
		printDetail("Created: %s (%d base values)", ref, count)
	}
	for _, f := range res.Failed {
		printError("%s: %s", f.Path, f.Message)
	}
	if err := library.SaveManifest(c.dataDir, m); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	prog.done(fmt.Sprintf("Generated %d libraries", len(res.Files)))
	printNewline()
	printSuccess("Done! Libraries available at: %s", filepath.Join(c.dataDir, "libraries"))
	return nil
}

func (c *CLI) generateCapacitorsCommand() *cobra.Command {
	var (
		dielectric string
		packages   []string
	)

	cmd := &cobra.Command{
		Use:     "capacitors",
		Short:   "Generate MLCC capacitor libraries",
		Example: `  aeda generate capacitors --dielectric C0G --packages 0402,0603`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(packages) == 0 {
				packages = c.cfg.Generation.DefaultPackages
			}
			m, err := library.LoadOrDefault(c.dataDir)
			if err != nil {
				return err
			}

			printInfo("Generating %s capacitor libraries...", StyleHighlight.Render(dielectric))
			for _, pkg := range trimAll(packages) {
				d, err := library.NewCapacitorLibrary(dielectric, pkg)
				if err != nil {
					return err
				}
				data, err := library.Marshal(d)
				if err != nil {
					return err
				}
				if err := pipeline.WriteFile(library.DescriptorPath(c.dataDir, d.Ref()), data); err != nil {
					return err
				}
				m.Add(d.Ref())
				printDetail("Created: %s (%d values)", d.Ref(), len(d.Values))
			}
			if err := library.SaveManifest(c.dataDir, m); err != nil {
				return err
			}

			printNewline()
			printSuccess("Done! Libraries available at: %s", filepath.Join(c.dataDir, "libraries"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dielectric, "dielectric", "d", library.DefaultDielectric, "dielectric class (X7R, X5R, C0G, ...)")
	cmd.Flags().StringSliceVarP(&packages, "packages", "p", nil, "comma-separated package codes")
	return cmd
}
