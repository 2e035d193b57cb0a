package ports

import "context"

// LibraryMonitor watches library folders for changes. The organizer brackets
// its own file moves with ReportChangeBeginning/ReportChangeComplete so they
// are not picked up as external changes. The coordinator owns the monitor and
// closes it at shutdown.
type LibraryMonitor interface {
	ReportChangeBeginning(path string)
	ReportChangeComplete(path string)

	// Close stops watching. Safe to call twice.
	Close() error
}

// LibraryIndex is the host's catalogue of library items.
type LibraryIndex interface {
	// Add registers the file at path and returns its item ID. Adding a path
	// that is already indexed returns the existing ID.
	Add(ctx context.Context, path string) (string, error)

	// Lookup returns the item ID indexed at path.
	Lookup(path string) (string, bool)

	// Roots returns the library root folders.
	Roots() []string
}
