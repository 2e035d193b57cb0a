package domain

import "time"

// FileSortingStatus is the outcome of organizing one file.
type FileSortingStatus string

const (
	StatusNew             FileSortingStatus = "New"
	StatusSuccess         FileSortingStatus = "Success"
	StatusFailure         FileSortingStatus = "Failure"
	StatusSkippedExisting FileSortingStatus = "SkippedExisting"
	StatusWaiting         FileSortingStatus = "Waiting"
)

// FileOrganizerType is the kind of library item a file was matched to.
type FileOrganizerType string

const (
	OrganizerUnknown FileOrganizerType = "Unknown"
	OrganizerEpisode FileOrganizerType = "Episode"
	OrganizerMovie   FileOrganizerType = "Movie"
)

// FileOrganizationResult records what happened to one file found in a
// watch location.
type FileOrganizationResult struct {
	ID               string
	OriginalPath     string
	OriginalFileName string
	TargetPath       string
	Date             time.Time
	Status           FileSortingStatus
	StatusMessage    string
	Type             FileOrganizerType
	FileSize         int64

	ExtractedName          string
	ExtractedYear          int
	ExtractedSeasonNumber  int
	ExtractedEpisodeNumber int

	// DuplicatePaths lists existing library files the target would replace.
	DuplicatePaths []string
}

// ResultQuery pages through stored results. Limit <= 0 means no limit.
type ResultQuery struct {
	StartIndex int
	Limit      int
}

// QueryResult is one page of items together with the unpaged total.
type QueryResult[T any] struct {
	Items            []T
	TotalRecordCount int
}
