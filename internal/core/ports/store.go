package ports

import "go.arieo.dev/arieo-pkg/internal/core/domain"

// PlanStore defines the interface for persisting the resolve plan.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type PlanStore interface {
	// Save writes the plan to path, replacing any previous file.
	Save(path string, plan *domain.ResolvePlan) error

	// Load reads the plan stored at path.
	Load(path string) (*domain.ResolvePlan, error)
}
