package ports

import "context"

// ProviderManager refreshes library item metadata from registered providers.
type ProviderManager interface {
	QueueRefresh(ctx context.Context, itemID string) error
}
