// Package library reads and writes the native JSON library format.
//
// A data directory holds one descriptor file per generated library under
// libraries/{category}/{name}.json, plus a manifest (libraries/manifest.json)
// that maps "category::name" references to those files:
//
//	{
//	  "name": "atlantix_eda",
//	  "version": "1.0.0",
//	  "description": "Atlantix EDA Component Libraries",
//	  "libraries": {
//	    "resistor": {"E96_0603": "resistor/E96_0603.json"}
//	  }
//	}
//
// Descriptors are also an input: [ReadDescriptor] and [Descriptor.Request]
// turn a resistor descriptor back into the parameters of a generation run.
package library
