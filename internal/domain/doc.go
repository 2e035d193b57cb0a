// Package domain contains the core entities, value objects and errors of the
// auto-organize service.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (SQL, file system, logging) and contains only the
// data the organization service works with.
//
// # Entities
//
//   - [FileOrganizationResult]: the outcome of examining one media file
//   - [SmartMatchResult]: learned mapping from file-name fragments to a library item
//   - [LegacySmartMatchInfo]: smart-match settings in the pre-conversion config shape
//   - [AutoOrganizeOptions]: organization settings owned by the server configuration
package domain
