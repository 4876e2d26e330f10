package config

import (
	"encoding/json"
	"path/filepath"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// DescriptorReader implements ports.DescriptorReader for arieo_package.json.
type DescriptorReader struct {
	FS FileSystem
}

// NewDescriptorReader creates a DescriptorReader reading from the OS filesystem.
func NewDescriptorReader() *DescriptorReader {
	return &DescriptorReader{FS: NewOSFS()}
}

// Read loads the descriptor from sourceFolder.
func (r *DescriptorReader) Read(sourceFolder string) (*domain.PackageDescriptor, error) {
	path := filepath.Join(sourceFolder, domain.DescriptorFileName)

	data, err := r.FS.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, zerr.With(zerr.Wrap(domain.ErrDescriptorNotFound, "package has no "+domain.DescriptorFileName), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrDescriptorCorrupt, err.Error()), "path", path)
	}

	var desc domain.PackageDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrDescriptorCorrupt, err.Error()), "path", path)
	}

	return &desc, nil
}
