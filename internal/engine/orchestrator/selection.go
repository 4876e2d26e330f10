package orchestrator

import (
	"cmp"
	"slices"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/engine/combination"
	"go.trai.ch/zerr"
)

// Options describes one orchestration request.
type Options struct {
	// Packages restricts the run to the named packages; empty means every package.
	Packages []string
	// IncludeDependencies adds the transitive dependencies of Packages.
	IncludeDependencies bool
	// Stage selects the command lists to run.
	Stage domain.Stage
	// Overrides are the caller-supplied variables expanded into combinations.
	Overrides *domain.Overrides
}

// Selection is a validated, filtered view of a plan ready for execution.
type Selection struct {
	// Order lists the packages to process in build order.
	Order []string
	// Requested lists the packages named by the filter, or every package without one.
	Requested []string
	// Dependencies lists packages added only because a requested package depends on them.
	Dependencies []string
	// Stage is the requested stage.
	Stage domain.Stage
	// Combinations are the environment combinations, processed in order.
	Combinations []domain.Combination
}

// Builds returns the number of package runs the selection performs.
func (s *Selection) Builds() int {
	return len(s.Order) * len(s.Combinations)
}

// Select validates the filter against the plan, expands dependencies when asked,
// and orders the chosen packages by build index.
func Select(plan *domain.ResolvePlan, opts Options) (*Selection, error) {
	stage := opts.Stage
	if stage == "" {
		stage = domain.StageBuildAndInstall
	}
	if _, err := domain.ParseStage(string(stage)); err != nil {
		return nil, err
	}

	order := sortedOrder(plan)
	sel := &Selection{
		Stage:        stage,
		Combinations: combination.Expand(opts.Overrides),
	}

	if len(opts.Packages) == 0 {
		sel.Order = order
		sel.Requested = slices.Clone(order)
		return sel, nil
	}

	var missing []string
	for _, name := range opts.Packages {
		if _, ok := plan.Package(name); !ok && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		err := zerr.With(zerr.Wrap(domain.ErrUnknownPackage, "package filter names packages absent from the plan"), "missing", missing)
		return nil, zerr.With(err, "available", order)
	}

	selected := make(map[string]bool, len(opts.Packages))
	for _, name := range opts.Packages {
		selected[name] = true
	}
	if opts.IncludeDependencies {
		closure(plan, opts.Packages, selected)
	}

	for _, name := range order {
		if !selected[name] {
			continue
		}
		sel.Order = append(sel.Order, name)
		if slices.Contains(opts.Packages, name) {
			sel.Requested = append(sel.Requested, name)
		} else {
			sel.Dependencies = append(sel.Dependencies, name)
		}
	}

	return sel, nil
}

// closure marks every package reachable from roots through dependencies.
// Dependencies naming packages outside the plan are skipped.
func closure(plan *domain.ResolvePlan, roots []string, visited map[string]bool) {
	stack := slices.Clone(roots)
	expanded := make(map[string]bool, len(roots))
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if expanded[name] {
			continue
		}
		expanded[name] = true

		pkg, ok := plan.Package(name)
		if !ok {
			continue
		}
		for _, dep := range pkg.DependencyNames() {
			if _, known := plan.Package(dep); !known || expanded[dep] {
				continue
			}
			visited[dep] = true
			stack = append(stack, dep)
		}
	}
}

// sortedOrder returns the persisted install order, stably sorted by build index.
func sortedOrder(plan *domain.ResolvePlan) []string {
	order := plan.Names()
	index := func(name string) int {
		if pkg, ok := plan.Package(name); ok {
			return pkg.BuildIndex
		}
		return 0
	}
	slices.SortStableFunc(order, func(a, b string) int {
		return cmp.Compare(index(a), index(b))
	})
	return order
}
