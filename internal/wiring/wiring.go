// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.arieo.dev/arieo-pkg/internal/adapters/config"
	_ "go.arieo.dev/arieo-pkg/internal/adapters/git"
	_ "go.arieo.dev/arieo-pkg/internal/adapters/logger"
	_ "go.arieo.dev/arieo-pkg/internal/adapters/planstore"
	_ "go.arieo.dev/arieo-pkg/internal/adapters/shell"
	// Register app nodes.
	_ "go.arieo.dev/arieo-pkg/internal/app"
)
