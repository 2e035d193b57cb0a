// Package organize implements the auto-organize service: the organization
// history, smart-match entries, the watch-folder scan task and the file
// moves that organize a result into the library.
//
// The service runs with or without a repository. Without one, reads return
// empty pages and writes fail with domain.ErrRepositoryUnavailable, so a
// host whose database failed to open still gets a working service object.
package organize
