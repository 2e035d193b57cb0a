package domain

// SmartMatchResult maps file-name fragments to a library item so later
// files with the same fragments are organized without user input.
type SmartMatchResult struct {
	ID            string
	ItemName      string
	DisplayName   string
	OrganizerType FileOrganizerType
	MatchStrings  []string
}

// LegacySmartMatchInfo is the smart-match shape older configurations kept
// inline in the auto-organize options.
type LegacySmartMatchInfo struct {
	ItemName      string
	DisplayName   string
	OrganizerType FileOrganizerType
	MatchStrings  []string
}
