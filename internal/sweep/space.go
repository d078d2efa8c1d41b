package sweep

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strings"
	"unicode"
)

// Dimension is one named axis of a sweep with its ordered candidate values.
type Dimension struct {
	Name    string
	Options []string
}

// Space is an ordered set of dimensions. Declaration order determines both
// enumeration order and the position of each token in a configuration.
type Space struct {
	Dimensions []Dimension
}

// NewSpace is a convenience constructor that keeps the given order.
func NewSpace(dims ...Dimension) Space {
	return Space{Dimensions: dims}
}

// Names returns the dimension names in declaration order.
func (s Space) Names() []string {
	names := make([]string, len(s.Dimensions))
	for i, d := range s.Dimensions {
		names[i] = d.Name
	}
	return names
}

// Validate checks that the space enumerates to at least one configuration
// and that every option can be written to a manifest line unchanged.
func (s Space) Validate() error {
	if len(s.Dimensions) == 0 {
		return &EmptySpaceError{}
	}
	seen := make(map[string]struct{}, len(s.Dimensions))
	for _, d := range s.Dimensions {
		if strings.TrimSpace(d.Name) == "" {
			return errors.New("dimension name cannot be empty")
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("dimension %q is declared more than once", d.Name)
		}
		seen[d.Name] = struct{}{}

		if len(d.Options) == 0 {
			return &EmptySpaceError{Dimension: d.Name}
		}
		for i, opt := range d.Options {
			if opt == "" {
				return &InvalidOptionError{Dimension: d.Name, Position: i, Option: opt, Reason: "option is empty"}
			}
			if strings.ContainsFunc(opt, unicode.IsSpace) {
				return &InvalidOptionError{Dimension: d.Name, Position: i, Option: opt, Reason: "option contains whitespace"}
			}
		}
	}
	return nil
}

// Count returns the number of configurations in the space, which is the
// product of all dimension sizes.
func (s Space) Count() (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	total := 1
	for _, d := range s.Dimensions {
		n := len(d.Options)
		if total > math.MaxInt/n {
			return 0, fmt.Errorf("parameter space is too large to enumerate (overflow at dimension %q)", d.Name)
		}
		total *= n
	}
	return total, nil
}

// All yields every configuration in enumeration order. It performs no
// validation; an empty dimension yields nothing.
func (s Space) All() iter.Seq[Configuration] {
	return func(yield func(Configuration) bool) {
		if len(s.Dimensions) == 0 {
			return
		}
		for _, d := range s.Dimensions {
			if len(d.Options) == 0 {
				return
			}
		}

		// Odometer over option positions; the last dimension is the
		// least significant digit.
		pos := make([]int, len(s.Dimensions))
		for index := 0; ; index++ {
			values := make([]string, len(pos))
			for i, p := range pos {
				values[i] = s.Dimensions[i].Options[p]
			}
			if !yield(Configuration{Index: index, Values: values}) {
				return
			}

			i := len(pos) - 1
			for ; i >= 0; i-- {
				pos[i]++
				if pos[i] < len(s.Dimensions[i].Options) {
					break
				}
				pos[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

// Enumerate validates the space and returns every configuration in order.
func (s Space) Enumerate() ([]Configuration, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	configs := make([]Configuration, 0, count)
	for c := range s.All() {
		configs = append(configs, c)
	}
	return configs, nil
}
