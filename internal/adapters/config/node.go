package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.arieo.dev/arieo-pkg/internal/adapters/logger"
	"go.arieo.dev/arieo-pkg/internal/core/ports"
)

// NodeID is the unique identifier for the manifest loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

// DescriptorNodeID is the unique identifier for the descriptor reader Graft node.
const DescriptorNodeID graft.ID = "adapter.descriptor_reader"

func init() {
	graft.Register(graft.Node[ports.ManifestLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ManifestLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.DescriptorReader]{
		ID:        DescriptorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DescriptorReader, error) {
			return NewDescriptorReader(), nil
		},
	})
}
