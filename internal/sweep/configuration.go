package sweep

import (
	"slices"
	"strings"
)

// Separator joins option tokens on a manifest line.
const Separator = " "

// Configuration is one concrete combination of option values, one per
// dimension, together with its position in enumeration order.
type Configuration struct {
	Index  int
	Values []string
}

// Args returns the tokens in dimension order, ready to be used as process
// arguments.
func (c Configuration) Args() []string {
	return slices.Clone(c.Values)
}

// Line is the manifest form of the configuration, without the line break.
func (c Configuration) Line() string {
	return strings.Join(c.Values, Separator)
}

// Name is a filesystem-friendly identifier built from the tokens, matching
// the naming convention the renderer uses for its result files.
func (c Configuration) Name() string {
	return strings.Join(c.Values, "_")
}

// Equal reports whether two configurations carry the same index and tokens.
func (c Configuration) Equal(other Configuration) bool {
	return c.Index == other.Index && slices.Equal(c.Values, other.Values)
}
