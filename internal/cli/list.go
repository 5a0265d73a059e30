package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/library"
)

// listCommand creates the list command that prints the library manifest.
func (c *CLI) listCommand() *cobra.Command {
	var asTable bool

	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "List generated libraries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := library.LoadManifest(c.dataDir)
			if err != nil {
				return err
			}

			categories := m.CategoryNames()
			if len(args) == 1 {
				cat := strings.ToLower(args[0])
				if _, ok := m.Libraries[cat]; !ok {
					return errs.New(errs.ErrCodeNotFound, "unknown category %q (have %s)", args[0], strings.Join(categories, ", "))
				}
				categories = []string{cat}
			}

			fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("Atlantix EDA Libraries (%s)", m.Name)))
			printKeyValue("Version:", m.Version)
			printNewline()

			if m.Empty() {
				printInfo("No libraries generated yet.")
				printNewline()
				printNextStep("Generate resistors", "aeda generate resistors --series E96")
				printNextStep("Generate capacitors", "aeda generate capacitors --dielectric X7R")
				return nil
			}

			if asTable {
				fmt.Fprintln(out, renderLibraryTable(m))
				return nil
			}

			for _, cat := range categories {
				refs := m.Refs(cat)
				if len(refs) == 0 {
					fmt.Fprintln(out, StyleValue.Render(cat+"/")+" "+StyleDim.Render("(empty - run 'aeda generate')"))
					continue
				}
				fmt.Fprintln(out, StyleValue.Render(cat+"/"))
				for _, ref := range refs {
					rel, _ := m.Resolve(ref)
					printRef(ref.String(), filepath.ToSlash(rel))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTable, "table", false, "render the libraries as a table")
	return cmd
}
