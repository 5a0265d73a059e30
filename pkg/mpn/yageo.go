package mpn

// Yageo encodes Yageo RC-series chip resistors:
//
//	RC{case}FR-07{value}L
//
// Distributed through Mouser under the 603- vendor prefix.
type Yageo struct{}

// Name implements Encoder.
func (Yageo) Name() string { return "Yageo" }

// Encode implements Encoder.
func (Yageo) Encode(in Input) Part {
	return Part{
		Manufacturer:  "Yageo",
		MPN:           "RC" + in.Package + "FR-07" + in.Formatted + "L",
		Distributor:   Mouser,
		DistributorPN: "603-RC" + in.Package + "FR-07" + in.Formatted,
	}
}
