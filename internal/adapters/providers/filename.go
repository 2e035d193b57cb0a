package providers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// TitleStore is the part of the library index the filename provider writes to.
type TitleStore interface {
	Path(itemID string) (string, bool)
	SetTitle(itemID, title string) bool
}

// FilenameProvider titles items from their file name.
type FilenameProvider struct {
	store TitleStore
}

// NewFilenameProvider creates a provider writing titles into store.
func NewFilenameProvider(store TitleStore) *FilenameProvider {
	return &FilenameProvider{store: store}
}

// Name returns the provider identifier.
func (p *FilenameProvider) Name() string { return "filename" }

// Refresh sets the item's title to its cleaned-up base name.
func (p *FilenameProvider) Refresh(ctx context.Context, itemID string) error {
	path, ok := p.store.Path(itemID)
	if !ok {
		return fmt.Errorf("item %s not indexed", itemID)
	}
	p.store.SetTitle(itemID, TitleFromPath(path))
	return nil
}

// TitleFromPath turns "Some.Show.S01E02.mkv" into "Some Show S01E02".
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer(".", " ", "_", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
