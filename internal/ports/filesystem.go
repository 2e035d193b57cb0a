package ports

import "github.com/spf13/afero"

// FileSystem is the filesystem accessor handed to the organization service.
// Production hosts pass afero.NewOsFs(); tests use afero.NewMemMapFs().
type FileSystem = afero.Fs
