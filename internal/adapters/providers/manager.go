// Package providers implements the metadata provider manager.
package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// MetadataProvider refreshes metadata for one library item.
type MetadataProvider interface {
	Name() string
	Refresh(ctx context.Context, itemID string) error
}

// Manager implements ports.ProviderManager by running every registered
// provider, in registration order, for each refresh request.
type Manager struct {
	logger log.Logger

	mu        sync.RWMutex
	providers []MetadataProvider
}

// NewManager creates a manager with no providers.
func NewManager(logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Manager{logger: logger}
}

// Register adds a provider. Names must be unique.
func (m *Manager) Register(p MetadataProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.providers {
		if existing.Name() == p.Name() {
			return fmt.Errorf("provider %q already registered", p.Name())
		}
	}
	m.providers = append(m.providers, p)
	return nil
}

// Providers returns the registered provider names.
func (m *Manager) Providers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Name())
	}
	return names
}

// QueueRefresh runs all providers for itemID. A failing provider is logged
// and does not stop the others; only context cancellation is returned.
func (m *Manager) QueueRefresh(ctx context.Context, itemID string) error {
	m.mu.RLock()
	providers := append([]MetadataProvider(nil), m.providers...)
	m.mu.RUnlock()

	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Refresh(ctx, itemID); err != nil {
			m.logger.Error("metadata refresh failed",
				log.String("provider", p.Name()),
				log.String("item", itemID),
				log.Err(err),
			)
		}
	}
	return nil
}

var _ ports.ProviderManager = (*Manager)(nil)
