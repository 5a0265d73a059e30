package mpn

import "strconv"

// Digikey suffixes for Vishay CRCW parts. The first decade of a generated
// library uses a different suffix set from every later decade.
var (
	digikeyFirstDecade = map[string]string{
		"0402": "LLCT",
		"0603": "HHCT",
		"0805": "CCCT",
		"1206": "FFCT",
		"1210": "AACT",
		"1218": "ANCT",
		"2010": "ACCT",
		"2512": "AFCT",
	}
	digikeyLaterDecades = map[string]string{
		"0402": "LCT",
		"0603": "HCT",
		"0805": "CCT",
		"1206": "FCT",
		"1210": "VCT",
		"1218": "KANCT",
		"2010": "KACCT",
		"2512": "KAFCT",
	}
)

// DigikeyPN returns the Digikey cross-reference for a Vishay CRCW part.
//
// In decade 1 the raw base value is printed in its shortest form ("1",
// "1.02") with the doubled suffix set; every other decade uses the formatted
// value ("1.02K") and the short suffix set. Unknown cases get XXXX / XXX.
func DigikeyPN(in Input) string {
	if in.Decade == 1 {
		suffix, ok := digikeyFirstDecade[in.Package]
		if !ok {
			suffix = "XXXX"
		}
		return "541-" + strconv.FormatFloat(in.Base, 'f', -1, 64) + suffix + "-ND"
	}
	suffix, ok := digikeyLaterDecades[in.Package]
	if !ok {
		suffix = "XXX"
	}
	return "541-" + in.Formatted + suffix + "-ND"
}
