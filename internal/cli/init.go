package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/atlantix-eda/aeda/pkg/config"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/library"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
)

// initCommand creates the init command that scaffolds the data directory.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the Atlantix EDA data directory",
		Long: `Create the data directory tree, a commented config.toml and an empty
library manifest. Existing files are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			printInfo("Initializing Atlantix EDA data directory: %s", StyleHighlight.Render(c.dataDir))

			for _, dir := range config.Layout {
				path := filepath.Join(c.dataDir, filepath.FromSlash(dir))
				if err := os.MkdirAll(path, 0o755); err != nil {
					return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "create directory")
				}
				printDetail("Created: %s", dir)
			}

			cfgPath := config.Path(c.dataDir)
			if wrote, err := writeIfMissing(cfgPath, []byte(config.Template()), force); err != nil {
				return err
			} else if wrote {
				printDetail("Created: %s", config.FileName)
			} else {
				logger.Debug("keeping existing config", "path", cfgPath)
			}

			manifestPath := filepath.Join(c.dataDir, filepath.FromSlash(library.ManifestFile))
			if _, err := os.Stat(manifestPath); force || os.IsNotExist(err) {
				if err := library.SaveManifest(c.dataDir, library.DefaultManifest()); err != nil {
					return err
				}
				printDetail("Created: %s", library.ManifestFile)
			} else {
				logger.Debug("keeping existing manifest", "path", manifestPath)
			}

			printNewline()
			printSuccess("Initialization complete!")
			printNewline()
			printInfo("Next steps:")
			printCommand("aeda generate resistors --series E96 --packages 0603,0805,1206")
			printCommand("aeda export stencil")
			printCommand("aeda list")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config.toml and manifest")
	return cmd
}

// writeIfMissing writes data to path unless the file exists and force is
// false. It reports whether the file was written.
func writeIfMissing(path string, data []byte, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := pipeline.WriteFile(path, data); err != nil {
		return false, err
	}
	return true, nil
}
