package domain

// Manifest is the loaded workspace manifest with every path made absolute.
type Manifest struct {
	// Path is the absolute path of the manifest file.
	Path string
	// Dir is the directory holding the manifest.
	Dir string
	// SourceFolder is the root fetched sources are laid out under.
	SourceFolder string
	// InstallFolder is the root packages install into.
	InstallFolder string
	// BuildFolder is the root packages build in.
	BuildFolder string
	// ResolveFile is where the resolve plan is persisted.
	ResolveFile string
	// Packages lists the declared packages in declaration order.
	Packages []PackageSpec
}

// Roots returns the folder roots the resolver lays packages out under.
func (m *Manifest) Roots() Roots {
	return Roots{
		Source:  m.SourceFolder,
		Install: m.InstallFolder,
		Build:   m.BuildFolder,
	}
}

// Roots holds the absolute source, install and build roots of a workspace.
type Roots struct {
	Source  string
	Install string
	Build   string
}
