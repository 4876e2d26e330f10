package domain

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Override is one caller-supplied variable, either single-valued or a list of values.
type Override struct {
	Name   string
	Values []string
	Multi  bool
}

// Overrides is an ordered set of caller-supplied variables keyed by name.
// The zero value is ready to use.
type Overrides struct {
	entries []Override
}

// Add declares a value for name. Declaring a name a second time turns it into a list.
func (o *Overrides) Add(name, value string) {
	if i := o.index(name); i >= 0 {
		o.entries[i].Values = append(o.entries[i].Values, value)
		o.entries[i].Multi = true
		return
	}
	o.entries = append(o.entries, Override{Name: name, Values: []string{value}})
}

// AddList declares a list of values for name, extending any earlier declaration.
func (o *Overrides) AddList(name string, values []string) {
	if i := o.index(name); i >= 0 {
		o.entries[i].Values = append(o.entries[i].Values, values...)
		o.entries[i].Multi = true
		return
	}
	o.entries = append(o.entries, Override{Name: name, Values: slices.Clone(values), Multi: true})
}

// Entries returns the overrides in declaration order.
func (o *Overrides) Entries() []Override {
	if o == nil {
		return nil
	}
	return slices.Clone(o.entries)
}

// Len returns the number of declared names.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

func (o *Overrides) index(name string) int {
	return slices.IndexFunc(o.entries, func(e Override) bool { return e.Name == name })
}

// Assignment is a single-valued variable of a combination.
type Assignment struct {
	Name  string
	Value string
}

// Combination is one fully single-valued selection drawn from Overrides.
type Combination []Assignment

// Map returns the combination as a name to value mapping.
func (c Combination) Map() map[string]string {
	m := make(map[string]string, len(c))
	for _, a := range c {
		m[a.Name] = a.Value
	}
	return m
}

// String renders the combination as "A=1, B=x".
func (c Combination) String() string {
	if len(c) == 0 {
		return "(default)"
	}
	parts := make([]string, 0, len(c))
	for _, a := range c {
		parts = append(parts, a.Name+"="+a.Value)
	}
	return strings.Join(parts, ", ")
}

// ID returns a short deterministic identifier of the combination's assignments.
func (c Combination) ID() string {
	sorted := slices.Clone(c)
	slices.SortFunc(sorted, func(a, b Assignment) int { return strings.Compare(a.Name, b.Name) })

	var builder strings.Builder
	for _, a := range sorted {
		builder.WriteString(a.Name)
		builder.WriteString("=")
		builder.WriteString(a.Value)
		builder.WriteString(";")
	}

	return strconv.FormatUint(xxhash.Sum64String(builder.String()), 16)
}
