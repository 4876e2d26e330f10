// Package combination expands caller overrides into single-valued environment combinations.
package combination

import (
	"slices"
	"strings"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
)

// buildTypeOrder is the preferred processing order of build type values.
var buildTypeOrder = []string{"Release", "RelWithDebInfo", "Debug", "MinSizeRel"}

// Expand returns every combination of the overrides in deterministic order.
//
// Single-valued overrides appear in every combination. Multi-valued overrides are
// multiplied out in declaration order, the last declared varying fastest. With no
// multi-valued overrides exactly one combination is returned.
func Expand(overrides *domain.Overrides) []domain.Combination {
	singles := domain.Combination{}
	var multis []domain.Override

	for _, o := range overrides.Entries() {
		if o.Multi {
			o.Values = Order(o.Name, o.Values)
			multis = append(multis, o)
			continue
		}
		singles = append(singles, domain.Assignment{Name: o.Name, Value: o.Values[0]})
	}

	combos := []domain.Combination{slices.Clone(singles)}
	for _, m := range multis {
		next := make([]domain.Combination, 0, len(combos)*len(m.Values))
		for _, c := range combos {
			for _, v := range m.Values {
				combo := slices.Clip(slices.Clone(c))
				next = append(next, append(combo, domain.Assignment{Name: m.Name, Value: v}))
			}
		}
		combos = next
	}

	return combos
}

// Count returns how many combinations Expand produces without building them.
func Count(overrides *domain.Overrides) int {
	n := 1
	for _, o := range overrides.Entries() {
		if o.Multi {
			n *= len(Order(o.Name, o.Values))
		}
	}
	return n
}

// Order returns the values of the named override in processing order.
// Build type keys follow Release, RelWithDebInfo, Debug, MinSizeRel, then any other value
// in its given order, each value listed once. Other keys keep their values as given.
func Order(name string, values []string) []string {
	if !strings.Contains(strings.ToUpper(name), "BUILD_TYPE") {
		return slices.Clone(values)
	}

	ordered := make([]string, 0, len(values))
	for _, preferred := range buildTypeOrder {
		if slices.Contains(values, preferred) {
			ordered = append(ordered, preferred)
		}
	}
	for _, v := range values {
		if !slices.Contains(ordered, v) {
			ordered = append(ordered, v)
		}
	}
	return ordered
}
