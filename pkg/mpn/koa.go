package mpn

import (
	"fmt"
	"math"
)

// KOA encodes KOA Speer RK73H thick-film chip resistors:
//
//	RK73H{size}TTD{code}F
//
// Distributed through Digikey as "{mpn}-ND".
type KOA struct{}

// Name implements Encoder.
func (KOA) Name() string { return "KOA Speer" }

// Encode implements Encoder.
func (KOA) Encode(in Input) Part {
	mpn := KOAMPN(in.Ohms, in.Package)
	return Part{
		Manufacturer:  "KOA Speer",
		MPN:           mpn,
		Distributor:   Digikey,
		DistributorPN: mpn + "-ND",
	}
}

var koaSizes = map[string]string{
	"0402": "1E",
	"0603": "1J",
	"0805": "2A",
	"1206": "2B",
	"1210": "2E",
	"2010": "3A",
	"2512": "3E",
}

// KOAMPN builds the RK73H part number. Unknown packages use size 1J.
func KOAMPN(ohms float64, pkg string) string {
	size, ok := koaSizes[pkg]
	if !ok {
		size = "1J"
	}
	return "RK73H" + size + "TTD" + KOAResistanceCode(ohms) + "F"
}

// KOAResistanceCode returns the four-character resistance field: three
// significant digits followed by a power-of-ten exponent 0-5, or an RKM
// code with R as the decimal point below 10 ohm.
//
//	4.99   -> "05R0"    (49.9 rounded to 50 tenths)
//	49.9   -> "4990"
//	499    -> "4991"
//	1000   -> "1002"
//	49900  -> "4993"
//	499000 -> "4994"
//	4.99M  -> "4995"
func KOAResistanceCode(ohms float64) string {
	switch {
	case ohms < 10:
		v := int(math.Round(ohms * 10))
		return fmt.Sprintf("%02dR%d", v/10, v%10)
	case ohms < 100:
		return fmt.Sprintf("%03d0", int(math.Round(ohms*10)))
	case ohms < 1000:
		return fmt.Sprintf("%03d1", int(math.Round(ohms)))
	case ohms < 10000:
		return fmt.Sprintf("%03d2", int(math.Round(ohms/10)))
	case ohms < 100000:
		return fmt.Sprintf("%03d3", int(math.Round(ohms/100)))
	case ohms < 1000000:
		return fmt.Sprintf("%03d4", int(math.Round(ohms/1000)))
	default:
		return fmt.Sprintf("%03d5", int(math.Round(ohms/10000)))
	}
}
