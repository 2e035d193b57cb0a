package app

import (
	"context"

	"github.com/bft-labs/autoorganize/internal/adapters/sqlite"
	"github.com/bft-labs/autoorganize/internal/organize"
	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// RepositoryFactory acquires the repository handle. A failed acquisition
// returns a nil repository and the reason.
type RepositoryFactory func(ctx context.Context, logger log.Logger, paths ports.ApplicationPaths, serializer ports.Serializer) (ports.FileOrganizationRepository, error)

// ServiceBuilder assembles the organization service. It must accept a nil
// repository.
type ServiceBuilder func(deps organize.Dependencies) *organize.Service

// Option configures optional behavior of a Coordinator.
type Option func(*options)

type options struct {
	repositoryFactory RepositoryFactory
	serviceBuilder    ServiceBuilder
}

func defaultOptions() options {
	return options{
		repositoryFactory: OpenSQLiteRepository,
		serviceBuilder:    organize.New,
	}
}

// WithRepositoryFactory replaces the SQLite repository factory.
func WithRepositoryFactory(f RepositoryFactory) Option {
	return func(o *options) {
		if f != nil {
			o.repositoryFactory = f
		}
	}
}

// WithServiceBuilder replaces organize.New.
func WithServiceBuilder(b ServiceBuilder) Option {
	return func(o *options) {
		if b != nil {
			o.serviceBuilder = b
		}
	}
}

// OpenSQLiteRepository is the default RepositoryFactory. It never returns a
// typed nil repository.
func OpenSQLiteRepository(ctx context.Context, logger log.Logger, paths ports.ApplicationPaths, serializer ports.Serializer) (ports.FileOrganizationRepository, error) {
	repo, err := sqlite.Open(ctx, logger, paths, serializer)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
