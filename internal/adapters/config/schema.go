package config

import "gopkg.in/yaml.v3"

// manifestFile is the on-disk shape of package.manifest.yaml.
type manifestFile struct {
	SourceFolder  string `yaml:"packages_src_folder"`
	InstallFolder string `yaml:"packages_install_folder"`
	BuildFolder   string `yaml:"packages_build_folder"`
	ResolveFile   string `yaml:"packages_resolve_file"`
	// Packages maps category to entries; kept as a node to preserve declaration order.
	Packages yaml.Node `yaml:"packages"`
}

// packageEntry is one element of a category list. Exactly one source form is expected:
// git_url (+ tag), git ("url@tag") or local.
type packageEntry struct {
	Name   string `yaml:"name"`
	GitURL string `yaml:"git_url"`
	Tag    string `yaml:"tag"`
	Git    string `yaml:"git"`
	Local  string `yaml:"local"`
}
