package pipeline

import (
	"os"
	"path/filepath"

	"github.com/atlantix-eda/aeda/pkg/component"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/library"
	"github.com/atlantix-eda/aeda/pkg/render/altium"
	"github.com/atlantix-eda/aeda/pkg/render/kicad"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

// Render serializes one package's artifact in format. records must be the
// package's records; footprints and stencils ignore them.
func Render(format string, spec smd.Spec, records []component.Record, opts Options) ([]byte, error) {
	switch format {
	case FormatKicadSymbols:
		style, err := kicad.ParseStyle(opts.SymbolStyle)
		if err != nil {
			return nil, err
		}
		return kicad.SymbolLibrary(records,
			kicad.WithStyle(style),
			kicad.WithFootprintLibrary(opts.FootprintLibrary)), nil
	case FormatKicadFootprints:
		var fopts []kicad.FootprintOption
		if !opts.Timestamp.IsZero() {
			fopts = append(fopts, kicad.WithTimestamp(opts.Timestamp))
		}
		return kicad.Footprint(spec, fopts...), nil
	case FormatAltium:
		return altium.CSV(records)
	case FormatStencil:
		d, err := library.NewResistorLibrary(opts.Series, spec.Imperial, opts.BaseValues)
		if err != nil {
			return nil, err
		}
		return library.Marshal(d)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %s", format)
}

// cacheable reports whether an artifact's bytes depend only on its inputs.
func cacheable(format string) bool {
	return format != FormatKicadFootprints
}

// WriteFile replaces path with data atomically: the bytes go to a temporary
// file in the same directory which is then renamed over the destination.
// A failed write leaves any previous file untouched.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError(path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return ioError(path, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return ioError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return ioError(path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return ioError(path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return ioError(path, err)
	}
	return nil
}

func ioError(path string, err error) error {
	return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "write %s", path)
}
