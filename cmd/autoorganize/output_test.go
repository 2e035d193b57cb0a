package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/autoorganize/internal/domain"
)

func TestResultsTable(t *testing.T) {
	items := []domain.FileOrganizationResult{
		{
			ID:               "r1",
			Date:             time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
			Status:           domain.StatusFailure,
			StatusMessage:    "disk full",
			OriginalFileName: "a.mkv",
		},
	}

	var buf bytes.Buffer
	printTable(&buf, resultsTable(items))
	out := buf.String()

	for _, want := range []string{"ID", "STATUS", "r1", "2024-05-01 09:30", "Failure (disk full)", "a.mkv"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSmartMatchTable(t *testing.T) {
	items := []domain.SmartMatchResult{
		{ID: "m1", ItemName: "Some Show", OrganizerType: domain.OrganizerEpisode, MatchStrings: []string{"some.show", "someshow"}},
	}

	var buf bytes.Buffer
	printTable(&buf, smartMatchTable(items))

	if !strings.Contains(buf.String(), "2: some.show, someshow") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
