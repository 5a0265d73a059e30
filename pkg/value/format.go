// Package value formats and parses component values.
//
// [Format] is the single display formatter for resistance. Every part number,
// description and serialized field derives from its output, so KiCad and
// Altium libraries agree on the same logical component.
//
// [Parse] is the inverse direction: it reads value strings written by people
// or by other tools ("4.99K", "4K99", "2.2nF", "10 kΩ") into numbers.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Format renders a resistance in ohms using decade-dependent precision:
//
//	ohms < 10        "9.99"
//	ohms < 100       "10.0"
//	ohms < 1000      "100"
//	ohms < 10k       "1.00K"
//	ohms < 100k      "10.0K"
//	ohms < 1M        "100K"
//	otherwise        "1.00M"
func Format(ohms float64) string {
	switch {
	case ohms < 10:
		return fmt.Sprintf("%.2f", ohms)
	case ohms < 100:
		return fmt.Sprintf("%.1f", ohms)
	case ohms < 1000:
		return fmt.Sprintf("%.0f", ohms)
	case ohms < 10000:
		return fmt.Sprintf("%.2fK", ohms/1000)
	case ohms < 100000:
		return fmt.Sprintf("%.1fK", ohms/1000)
	case ohms < 1000000:
		return fmt.Sprintf("%.0fK", ohms/1000)
	default:
		return fmt.Sprintf("%.2fM", ohms/1000000)
	}
}

var faradUnits = []struct {
	scale  float64
	suffix string
}{
	{1, "F"},
	{1e-3, "mF"},
	{1e-6, "uF"},
	{1e-9, "nF"},
	{1e-12, "pF"},
}

// FormatFarads renders a capacitance with the largest SI prefix that keeps
// the mantissa at or above one, e.g. 2.2e-9 -> "2.2nF".
func FormatFarads(farads float64) string {
	for _, u := range faradUnits {
		if farads >= u.scale*(1-1e-9) {
			return shortest(farads/u.scale) + u.suffix
		}
	}
	last := faradUnits[len(faradUnits)-1]
	return shortest(farads/last.scale) + last.suffix
}

// shortest prints n rounded to three decimals without trailing zeros.
func shortest(n float64) string {
	return strconv.FormatFloat(math.Round(n*1000)/1000, 'f', -1, 64)
}
