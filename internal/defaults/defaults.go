// Package defaults embeds the sweep that runs when no sweep file is given:
// the full NRC-HPM renderer parameter space.
package defaults

import _ "embed"

// Name identifies the embedded sweep in logs and diagnostics.
const Name = "default.hcl"

//go:embed default.hcl
var source []byte

// Source returns a copy of the embedded sweep definition.
func Source() []byte {
	return append([]byte(nil), source...)
}
