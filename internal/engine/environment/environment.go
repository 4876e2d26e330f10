// Package environment composes the layered environment a package's commands run in.
package environment

import (
	"maps"
	"slices"
	"strings"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Layer names, lowest precedence first.
const (
	LayerInherited = "inherited"
	LayerFolders   = "folders"
	LayerPublic    = "public"
	LayerOverrides = "overrides"
	LayerPrivate   = "private"
	LayerAliases   = "aliases"
)

// Layer is one named set of assignments.
type Layer struct {
	Name string
	Vars []domain.Assignment
}

// Environment is an immutable variable mapping flattened from ordered layers.
type Environment struct {
	vars   map[string]string
	origin map[string]string
}

// Flatten applies layers in order; later layers win on key collision.
func Flatten(layers ...Layer) Environment {
	env := Environment{
		vars:   make(map[string]string),
		origin: make(map[string]string),
	}
	for _, layer := range layers {
		for _, v := range layer.Vars {
			env.vars[v.Name] = v.Value
			env.origin[v.Name] = layer.Name
		}
	}
	return env
}

// Lookup returns the value of name and whether it is set.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Get returns the value of name, or "" when unset.
func (e Environment) Get(name string) string {
	return e.vars[name]
}

// Origin returns the name of the layer that set name, or "" when unset.
func (e Environment) Origin(name string) string {
	return e.origin[name]
}

// Len returns the number of variables.
func (e Environment) Len() int {
	return len(e.vars)
}

// Map returns a copy of the variables.
func (e Environment) Map() map[string]string {
	return maps.Clone(e.vars)
}

// Environ returns the variables as sorted "KEY=VALUE" pairs.
func (e Environment) Environ() []string {
	keys := slices.Sorted(maps.Keys(e.vars))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// Compose computes the environment for the named package.
//
// Precedence, lowest to highest: the inherited process environment, the package's
// folder shorthands, every root declaration, the public declarations of every package
// in install order (untyped declarations count as public), the combination overrides, the package's own private
// declarations, and finally the build-env alias of the current build folder.
func Compose(inherited []string, plan *domain.ResolvePlan, name string, overrides domain.Combination) (Environment, error) {
	pkg, ok := plan.Package(name)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrUnknownPackage, "cannot compose environment"), "package", name)
		return Environment{}, zerr.With(err, "available", plan.Names())
	}

	return Flatten(
		Layer{Name: LayerInherited, Vars: parseEnviron(inherited)},
		Layer{Name: LayerFolders, Vars: folderVars(pkg)},
		Layer{Name: LayerPublic, Vars: publicVars(plan)},
		Layer{Name: LayerOverrides, Vars: overrides},
		Layer{Name: LayerPrivate, Vars: declared(pkg.EnvironmentVariables, domain.Private)},
		Layer{Name: LayerAliases, Vars: aliasVars(pkg)},
	), nil
}

func parseEnviron(environ []string) []domain.Assignment {
	out := make([]domain.Assignment, 0, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		out = append(out, domain.Assignment{Name: k, Value: v})
	}
	return out
}

func folderVars(pkg *domain.ResolvedPackage) []domain.Assignment {
	return []domain.Assignment{
		{Name: domain.EnvSourceFolder, Value: pkg.SourceFolder},
		{Name: domain.EnvBuildFolder, Value: pkg.BuildFolder},
		{Name: domain.EnvInstallFolder, Value: pkg.InstallFolder},
	}
}

// publicVars applies every root declaration, then the public declarations of each package.
func publicVars(plan *domain.ResolvePlan) []domain.Assignment {
	vars := assignments(plan.EnvironmentVariables, func(domain.EnvVar) bool { return true })
	for _, name := range plan.InstallOrder {
		if pkg, ok := plan.Package(name); ok {
			vars = append(vars, declared(pkg.EnvironmentVariables, domain.Public)...)
		}
	}
	return vars
}

// declared keeps the declarations of the given visibility.
func declared(decls []domain.EnvVar, visibility domain.Visibility) []domain.Assignment {
	return assignments(decls, func(d domain.EnvVar) bool { return d.Scope() == visibility })
}

// assignments keeps the declarations matching keep, skipping empty names and values.
func assignments(decls []domain.EnvVar, keep func(domain.EnvVar) bool) []domain.Assignment {
	var out []domain.Assignment
	for _, d := range decls {
		if !keep(d) || d.Name == "" || d.Value == "" {
			continue
		}
		out = append(out, domain.Assignment{Name: d.Name, Value: d.Value})
	}
	return out
}

func aliasVars(pkg *domain.ResolvedPackage) []domain.Assignment {
	for _, d := range pkg.EnvironmentVariables {
		if d.Scope() == domain.Private && d.Name == domain.EnvCurrentBuildFolder && d.Value != "" {
			return []domain.Assignment{{Name: domain.EnvBuildEnvBuildFolder, Value: d.Value}}
		}
	}
	return nil
}
