package ports

import (
	"context"

	"github.com/bft-labs/autoorganize/internal/domain"
)

// ApplicationPaths are the host directories the core may write to.
type ApplicationPaths struct {
	DataPath   string
	LogPath    string
	ConfigPath string
}

// SmartMatchStore is the part of the organization service the configuration
// migrator writes converted entries into.
type SmartMatchStore interface {
	// Available reports whether entries can be persisted.
	Available() bool

	SaveSmartMatch(ctx context.Context, match domain.SmartMatchResult) error
}

// ServerConfig is the host's configuration manager.
type ServerConfig interface {
	ApplicationPaths() ApplicationPaths

	// AutoOrganizeOptions returns a copy of the current options.
	AutoOrganizeOptions() domain.AutoOrganizeOptions

	// ConvertSmartMatchInfo moves legacy smart-match settings into store.
	ConvertSmartMatchInfo(ctx context.Context, store SmartMatchStore) error
}
