package domain

import "time"

// AutoOrganizeOptions are the organization settings held by the server
// configuration.
type AutoOrganizeOptions struct {
	WatchLocations     []string
	Extensions         []string
	MinFileSizeMB      int
	ScanInterval       time.Duration
	DeleteEmptyFolders bool
	OverwriteExisting  bool
	CopyOriginalFile   bool

	// Converted is set once legacy smart-match entries have been moved into
	// the repository.
	Converted        bool
	LegacySmartMatch []LegacySmartMatchInfo
}

// DefaultExtensions are the media file extensions scanned when none are configured.
var DefaultExtensions = []string{".mkv", ".mp4", ".avi", ".m4v", ".ts", ".wmv", ".mov"}
