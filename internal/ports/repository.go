package ports

import (
	"context"

	"github.com/bft-labs/autoorganize/internal/domain"
)

// FileOrganizationRepository stores organization history and smart-match
// entries. Lookups of missing records return domain.ErrNotFound.
type FileOrganizationRepository interface {
	// SaveResult inserts or replaces a result by ID.
	SaveResult(ctx context.Context, result domain.FileOrganizationResult) error

	// GetResult returns the result with the given ID.
	GetResult(ctx context.Context, id string) (domain.FileOrganizationResult, error)

	// FindByOriginalPath returns the result recorded for a source file.
	FindByOriginalPath(ctx context.Context, path string) (domain.FileOrganizationResult, error)

	// GetResults returns a page of results, newest first.
	GetResults(ctx context.Context, query domain.ResultQuery) (domain.QueryResult[domain.FileOrganizationResult], error)

	// DeleteResult removes one result.
	DeleteResult(ctx context.Context, id string) error

	// DeleteAllResults removes every result.
	DeleteAllResults(ctx context.Context) error

	// SaveSmartMatch inserts or replaces a smart-match entry by ID.
	SaveSmartMatch(ctx context.Context, match domain.SmartMatchResult) error

	// GetSmartMatch returns a page of smart-match entries ordered by item name.
	GetSmartMatch(ctx context.Context, query domain.ResultQuery) (domain.QueryResult[domain.SmartMatchResult], error)

	// DeleteSmartMatch removes a smart-match entry.
	DeleteSmartMatch(ctx context.Context, id string) error

	// DeleteSmartMatchString removes one match string from an entry. The
	// entry is removed when no match strings remain.
	DeleteSmartMatchString(ctx context.Context, id, matchString string) error

	// Close releases the underlying connection.
	Close() error
}
