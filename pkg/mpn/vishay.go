package mpn

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Vishay encodes Vishay Dale CRCW thick-film chip resistors:
//
//	CRCW{case}{resistance}FKEA
//
// FKEA fixes 1% tolerance, 100 ppm/K TCR, AEC-Q200 and tape packaging.
// The distributor number is the Digikey cross-reference (see [DigikeyPN]).
type Vishay struct{}

// Name implements Encoder.
func (Vishay) Name() string { return "Vishay" }

// Encode implements Encoder.
func (Vishay) Encode(in Input) Part {
	return Part{
		Manufacturer:  "Vishay",
		MPN:           VishayMPN(in.Formatted, in.Package),
		Distributor:   Digikey,
		DistributorPN: DigikeyPN(in),
	}
}

var vishayCases = map[string]bool{
	"0402": true, "0603": true, "0805": true, "1206": true,
	"1210": true, "2010": true, "2512": true,
}

// VishayMPN builds the CRCW part number from a formatted value.
// Cases outside the CRCW range map to 0603.
func VishayMPN(formatted, pkg string) string {
	if !vishayCases[pkg] {
		pkg = "0603"
	}
	return "CRCW" + pkg + VishayResistanceCode(formatted) + "FKEA"
}

// VishayResistanceCode rewrites a formatted value into the CRCW resistance
// field, where the multiplier letter stands in for the decimal point:
// "1.05K" -> "1K05", "49.9K" -> "49K0", "4.99" -> "4R99", "150" -> "150R".
func VishayResistanceCode(formatted string) string {
	for _, letter := range []string{"K", "M"} {
		if strings.Contains(formatted, letter) {
			num, err := strconv.ParseFloat(strings.ReplaceAll(formatted, letter, ""), 64)
			if err != nil {
				return "1" + letter + "00"
			}
			return multiplierCode(num, letter)
		}
	}

	num, err := strconv.ParseFloat(formatted, 64)
	if err != nil {
		return "1R00"
	}
	switch {
	case num >= 100:
		return fmt.Sprintf("%.0fR", num)
	case num >= 10:
		return fmt.Sprintf("%.0fR0", num)
	default:
		whole, frac := splitHundredths(num)
		return fmt.Sprintf("%dR%02d", whole, frac)
	}
}

func multiplierCode(num float64, letter string) string {
	switch {
	case num >= 10:
		return fmt.Sprintf("%d%s0", int(num), letter)
	case num >= 1:
		whole, frac := splitHundredths(num)
		return fmt.Sprintf("%d%s%02d", whole, letter, frac)
	default:
		return fmt.Sprintf("R%03d", int(num*1000))
	}
}

// splitHundredths returns the integer part of n and its fraction in
// hundredths, rounded.
func splitHundredths(n float64) (int, int) {
	whole := int(n)
	frac := int(math.Round((n - float64(whole)) * 100))
	return whole, frac
}
