package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/library"
)

// infoPreview is how many values info prints before summarizing the rest.
const infoPreview = 10

// infoCommand creates the info command that summarizes one library.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "info category::name",
		Short:   "Show details of a library",
		Example: `  aeda info resistor::E96_0603`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := library.ParseRef(args[0])
			if err != nil {
				return err
			}
			m, err := library.LoadManifest(c.dataDir)
			if err != nil {
				return err
			}
			rel, ok := m.Resolve(ref)
			if !ok {
				return errs.New(errs.ErrCodeLibraryNotFound, "library %s is not in the manifest", ref)
			}
			d, err := library.LoadDescriptor(filepath.Join(c.dataDir, "libraries", filepath.FromSlash(rel)))
			if err != nil {
				return err
			}
			printDescriptor(ref, d)
			return nil
		},
	}
}

func printDescriptor(ref library.Ref, d *library.Descriptor) {
	printTitle("Library: " + ref.String())
	printKeyValue("Name:", d.Name)
	printKeyValue("Type:", string(d.Type))
	printKeyValue("Description:", d.Description)
	printKeyValue("Package:", d.Package)
	printKeyValue("Footprint:", d.Footprint)
	printKeyValue("Prefix:", d.Prefix)
	printKeyValue("Pins:", strings.Join(d.Pins, ", "))
	if d.Tolerance != "" {
		printKeyValue("Tolerance:", d.Tolerance)
	}
	if d.PowerRating != "" {
		printKeyValue("Power:", d.PowerRating)
	}
	if d.Dielectric != "" {
		printKeyValue("Dielectric:", d.Dielectric)
	}
	if d.VoltageRating != "" {
		printKeyValue("Voltage:", d.VoltageRating)
	}

	if len(d.BaseValues) > 0 {
		printNewline()
		fmt.Fprintf(out, "Base values: %s values in series\n", StyleNumber.Render(strconv.Itoa(len(d.BaseValues))))
		shown := make([]string, 0, infoPreview)
		for _, v := range d.BaseValues[:min(infoPreview, len(d.BaseValues))] {
			shown = append(shown, strconv.FormatFloat(v, 'g', -1, 64))
		}
		printDetail("%s%s", strings.Join(shown, ", "), more(len(d.BaseValues)))
	}
	if len(d.Values) > 0 {
		printNewline()
		fmt.Fprintf(out, "Values: %s discrete values\n", StyleNumber.Render(strconv.Itoa(len(d.Values))))
		printDetail("%s%s", strings.Join(d.Values[:min(infoPreview, len(d.Values))], ", "), more(len(d.Values)))
	}
}

func more(n int) string {
	if n <= infoPreview {
		return ""
	}
	return fmt.Sprintf(" ... and %d more", n-infoPreview)
}
