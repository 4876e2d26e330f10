package ports

import "go.arieo.dev/arieo-pkg/internal/core/domain"

// ManifestLoader defines the interface for loading the workspace manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest at path, or the nearest manifest above cwd when path is empty.
	Load(cwd, path string) (*domain.Manifest, error)
}

// DescriptorReader defines the interface for reading a package's own metadata.
type DescriptorReader interface {
	// Read loads the descriptor from the package's source folder.
	Read(sourceFolder string) (*domain.PackageDescriptor, error)
}
