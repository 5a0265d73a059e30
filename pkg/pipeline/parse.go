package pipeline

import (
	"strings"

	"github.com/atlantix-eda/aeda/pkg/library"
)

// ParseFormats splits a comma-separated format list ("kicad,altium").
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ApplyDescriptor takes the series, package and base values of a stencil
// descriptor in place of the command-line parameters. Descriptor methods are
// accepted and ignored.
func (o *Options) ApplyDescriptor(d *library.Descriptor) error {
	req, err := d.Request()
	if err != nil {
		return err
	}
	o.Series = req.Series
	o.Packages = req.Packages
	o.BaseValues = req.BaseValues
	o.validated = false
	return nil
}
