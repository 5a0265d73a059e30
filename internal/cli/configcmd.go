package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atlantix-eda/aeda/pkg/config"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/library"
)

// layoutDescriptions explains each directory init creates.
var layoutDescriptions = map[string]string{
	"libraries/resistor":  "resistor descriptors",
	"libraries/capacitor": "capacitor descriptors",
	"libraries/inductor":  "inductor descriptors",
	"libraries/diode":     "diode descriptors",
	"libraries/ic":        "IC descriptors",
	"footprints":          "custom footprints",
	"symbols":             "custom symbols",
	"3d_models":           "3D package models",
	"cache":               "scratch space",
}

// configCommand creates the config command that shows or edits config.toml.
func (c *CLI) configCommand() *cobra.Command {
	var edit bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the configuration and data directory status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if edit {
				return c.editConfig(cmd)
			}
			c.printConfig()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "open config.toml in $EDITOR")
	return cmd
}

func (c *CLI) printConfig() {
	printTitle("Atlantix EDA Configuration")
	printKeyValue("Data dir:", c.dataDir)
	printNewline()

	for _, dir := range config.Layout {
		status := styleIconError.Render(iconError)
		if info, err := os.Stat(filepath.Join(c.dataDir, filepath.FromSlash(dir))); err == nil && info.IsDir() {
			status = styleIconSuccess.Render(iconSuccess)
		}
		fmt.Fprintf(out, "  %s %-22s %s\n", status, dir+"/", StyleDim.Render(layoutDescriptions[dir]))
	}
	printNewline()

	printKeyValue("Config:", fileStatus(config.Path(c.dataDir)))
	printKeyValue("Manifest:", fileStatus(filepath.Join(c.dataDir, filepath.FromSlash(library.ManifestFile))))
	if dir, err := cacheDir(); err == nil {
		printKeyValue("Cache:", fmt.Sprintf("%s (%s)", dir, c.cfg.Cache.Backend))
	}
	printKeyValue("HOME:", os.Getenv("HOME"))
	printNewline()

	gen := c.cfg.Generation
	printKeyValue("Series:", gen.DefaultResistorSeries)
	printKeyValue("Packages:", strings.Join(gen.DefaultPackages, ", "))
	printKeyValue("Makers:", strings.Join(gen.Manufacturers, ", "))
	printKeyValue("Style:", gen.SymbolStyle)
}

func fileStatus(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path + " (missing)"
	}
	return path
}

// editConfig opens config.toml in $VISUAL or $EDITOR, writing the template
// first when the file does not exist.
func (c *CLI) editConfig(cmd *cobra.Command) error {
	path := config.Path(c.dataDir)
	if _, err := writeIfMissing(path, []byte(config.Template()), false); err != nil {
		return err
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	fields := strings.Fields(editor)
	ed := exec.CommandContext(cmd.Context(), fields[0], append(fields[1:], path)...)
	ed.Stdin, ed.Stdout, ed.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := ed.Run(); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "run editor %s", fields[0])
	}

	if _, err := config.Load(path); err != nil {
		printWarning("config.toml no longer loads: %s", errs.UserMessage(err))
		return err
	}
	printSuccess("Saved %s", path)
	return nil
}
