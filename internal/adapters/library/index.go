package library

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// Item is one indexed library file.
type Item struct {
	ID    string
	Path  string
	Title string
}

// Index implements ports.LibraryIndex in memory.
type Index struct {
	fs     afero.Fs
	logger log.Logger
	roots  []string

	mu     sync.RWMutex
	items  map[string]*Item
	byPath map[string]string
}

// NewIndex creates an empty index over the given library roots.
func NewIndex(fs afero.Fs, logger log.Logger, roots []string) *Index {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		cleaned = append(cleaned, filepath.Clean(r))
	}
	return &Index{
		fs:     fs,
		logger: logger,
		roots:  cleaned,
		items:  make(map[string]*Item),
		byPath: make(map[string]string),
	}
}

// Roots returns the library root folders.
func (x *Index) Roots() []string {
	return append([]string(nil), x.roots...)
}

// Add indexes path and returns its item ID. Re-adding a path returns the
// existing ID.
func (x *Index) Add(ctx context.Context, path string) (string, error) {
	p := filepath.Clean(path)

	x.mu.Lock()
	defer x.mu.Unlock()

	if id, ok := x.byPath[p]; ok {
		return id, nil
	}

	id := uuid.NewString()
	x.items[id] = &Item{ID: id, Path: p}
	x.byPath[p] = id
	x.logger.Debug("library item added", log.String("id", id), log.String("path", p))
	return id, nil
}

// Lookup returns the item ID indexed at path.
func (x *Index) Lookup(path string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	id, ok := x.byPath[filepath.Clean(path)]
	return id, ok
}

// Item returns a copy of the item with the given ID.
func (x *Index) Item(id string) (Item, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	it, ok := x.items[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Path returns the path of the item with the given ID.
func (x *Index) Path(id string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if it, ok := x.items[id]; ok {
		return it.Path, true
	}
	return "", false
}

// SetTitle updates an item's display title.
func (x *Index) SetTitle(id, title string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	it, ok := x.items[id]
	if ok {
		it.Title = title
	}
	return ok
}

// Items returns all items sorted by path.
func (x *Index) Items() []Item {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]Item, 0, len(x.items))
	for _, it := range x.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Refresh reconciles path with the filesystem: a regular file inside a
// library root is indexed, a vanished path is dropped. It is the monitor's
// change callback.
func (x *Index) Refresh(path string) {
	p := filepath.Clean(path)

	info, err := x.fs.Stat(p)
	if err != nil {
		x.mu.Lock()
		if id, ok := x.byPath[p]; ok {
			delete(x.byPath, p)
			delete(x.items, id)
			x.logger.Debug("library item removed", log.String("id", id), log.String("path", p))
		}
		x.mu.Unlock()
		return
	}

	if info.IsDir() || !x.inRoots(p) {
		return
	}
	_, _ = x.Add(context.Background(), p)
}

func (x *Index) inRoots(path string) bool {
	for _, r := range x.roots {
		if rel, err := filepath.Rel(r, path); err == nil && rel != ".." && !startsWithParent(rel) {
			return true
		}
	}
	return false
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

var _ ports.LibraryIndex = (*Index)(nil)
