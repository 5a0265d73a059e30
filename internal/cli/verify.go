package cli

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/kicad/sexp"
	"github.com/atlantix-eda/aeda/pkg/library"
	"github.com/atlantix-eda/aeda/pkg/render/altium"
)

// verifyCommand creates the verify command that reads generated files back.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify file...",
		Short: "Check generated library files",
		Long: `Parse generated files and report what they contain. Supported types are
.kicad_sym, .kicad_mod, Altium .csv tables and Stencil .json descriptors.
Directories are walked recursively.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPaths(args)
			if err != nil {
				return err
			}
			var failures []error
			for _, path := range files {
				summary, err := verifyFile(path)
				if err != nil {
					printError("%s: %s", path, errs.UserMessage(err))
					failures = append(failures, err)
					continue
				}
				printSuccess("%s %s", path, StyleDim.Render(summary))
			}
			if len(failures) > 0 {
				printNewline()
				printWarning("%d of %d files failed verification", len(failures), len(files))
				return errors.Join(failures...)
			}
			return nil
		},
	}
}

// expandPaths replaces directories with the verifiable files below them.
func expandPaths(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeNotFound, &errs.FileError{Path: arg, Err: err}, "verify")
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && verifiable(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: arg, Err: err}, "walk")
		}
	}
	return files, nil
}

func verifiable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kicad_sym", ".kicad_mod", ".csv", ".json":
		return filepath.Base(path) != "manifest.json"
	}
	return false
}

// verifyFile parses one file and returns a short description of it.
func verifyFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		d, err := library.LoadDescriptor(path)
		if err != nil {
			return "", err
		}
		if err := d.Validate(); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s library %s", d.Type, d.Name), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "read")
	}

	switch ext {
	case ".kicad_sym":
		lib, err := sexp.ReadSymbolLibrary(data)
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse symbol library")
		}
		if len(lib.Symbols) == 0 {
			return "", errs.New(errs.ErrCodeInvalidFormat, "symbol library has no symbols")
		}
		return fmt.Sprintf("%d symbols (version %s)", len(lib.Symbols), lib.Version), nil
	case ".kicad_mod":
		fp, err := sexp.ReadFootprint(data)
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse footprint")
		}
		if len(fp.Pads) != 2 {
			return "", errs.New(errs.ErrCodeInvalidFormat, "footprint %s has %d pads, want 2", fp.Name, len(fp.Pads))
		}
		return fmt.Sprintf("footprint %s, %d pads", fp.Name, len(fp.Pads)), nil
	case ".csv":
		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse csv")
		}
		if len(rows) == 0 || !slices.Equal(rows[0], altium.Header) {
			return "", errs.New(errs.ErrCodeInvalidFormat, "not an Altium table: unexpected header")
		}
		return fmt.Sprintf("%d rows", len(rows)-1), nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "cannot verify %s files", ext)
}
