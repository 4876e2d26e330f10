package ports

import "context"

// SourceFetcher defines the interface for obtaining a package's sources.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type SourceFetcher interface {
	// Fetch clones url at ref into destDir, or updates an existing checkout there.
	// It returns the local path of the sources.
	Fetch(ctx context.Context, url, ref, destDir string) (string, error)
}
