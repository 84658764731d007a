// Package datasets implements the dataset descriptors swept by rfsweep
package datasets

import (
	"errors"
	"fmt"
	"strings"
)

// Descriptor names a dataset known to the external tool and its attribute count.
// Name doubles as the tool's positional argument and as the output subdirectory.
type Descriptor struct {
	Name       string `mapstructure:"name" json:"name"`
	Attributes int    `mapstructure:"attributes" json:"attributes"`
}

// Default is the list of datasets swept when no configuration overrides it
var Default = []Descriptor{
	{"audiology.standardized", 69},
	{"crx", 15},
	{"hepatitis", 19},
	{"house-votes-84", 16},
	{"iris", 4},
	{"kr-vs-kp", 36},
	{"lenses", 4},
	{"soybean-small", 35},
	{"splice", 60},
	{"zoo", 17},
}

var ErrEmpty = errors.New("no datasets")

// Validate checks a single descriptor
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return errors.New("dataset name is empty")
	}
	if d.Name == "." || d.Name == ".." || strings.ContainsAny(d.Name, `/\`) {
		return fmt.Errorf("dataset name %q is not a single path segment", d.Name)
	}
	if d.Attributes < 1 {
		return fmt.Errorf("dataset %q: attribute count %d must be positive", d.Name, d.Attributes)
	}
	return nil
}

// ValidateAll checks every descriptor and rejects duplicate names,
// since two datasets cannot share an output directory.
func ValidateAll(list []Descriptor) error {
	if len(list) == 0 {
		return ErrEmpty
	}
	var seen = make(map[string]struct{}, len(list))
	for _, d := range list {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("dataset %q listed twice", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

// Select filters list down to the named datasets, keeping the order of list.
// An empty names slice selects everything.
func Select(list []Descriptor, names []string) ([]Descriptor, error) {
	if len(names) == 0 {
		return list, nil
	}
	var want = make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = false
	}
	var out []Descriptor
	for _, d := range list {
		if _, ok := want[d.Name]; ok {
			want[d.Name] = true
			out = append(out, d)
		}
	}
	for _, n := range names {
		if !want[n] {
			return nil, fmt.Errorf("unknown dataset %q", n)
		}
	}
	return out, nil
}
