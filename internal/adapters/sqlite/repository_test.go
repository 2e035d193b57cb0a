package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/bft-labs/autoorganize/internal/adapters/serializer"
	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/internal/ports"
)

// setupTestRepo opens a repository in a fresh temporary data directory.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := Open(context.Background(), nil, ports.ApplicationPaths{DataPath: t.TempDir()}, serializer.NewJSON())
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newResult(id, path string, date time.Time) domain.FileOrganizationResult {
	return domain.FileOrganizationResult{
		ID:               id,
		OriginalPath:     path,
		OriginalFileName: filepath.Base(path),
		Date:             date,
		Status:           domain.StatusNew,
		Type:             domain.OrganizerUnknown,
		FileSize:         1024,
	}
}

func TestOpen(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		repo, err := Open(context.Background(), nil, ports.ApplicationPaths{DataPath: dir}, serializer.NewJSON())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer repo.Close()

		if !repo.Initialized() {
			t.Error("Initialized() = false after Open")
		}
		if _, err := os.Stat(filepath.Join(dir, DatabaseFileName)); err != nil {
			t.Errorf("database file missing: %v", err)
		}
	})

	t.Run("missing data path", func(t *testing.T) {
		_, err := Open(context.Background(), nil, ports.ApplicationPaths{}, serializer.NewJSON())
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			t.Errorf("Open() error = %v, want ErrStorageUnavailable", err)
		}
	})

	t.Run("data path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "occupied")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Open(context.Background(), nil, ports.ApplicationPaths{DataPath: file}, serializer.NewJSON())
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			t.Errorf("Open() error = %v, want ErrStorageUnavailable", err)
		}
	})

	t.Run("reopen keeps data", func(t *testing.T) {
		dir := t.TempDir()
		paths := ports.ApplicationPaths{DataPath: dir}
		ctx := context.Background()

		repo, err := Open(ctx, nil, paths, serializer.NewJSON())
		if err != nil {
			t.Fatal(err)
		}
		if err := repo.SaveResult(ctx, newResult("a", "/in/a.mkv", time.Now())); err != nil {
			t.Fatal(err)
		}
		repo.Close()

		repo, err = Open(ctx, nil, paths, serializer.NewJSON())
		if err != nil {
			t.Fatalf("second Open() error = %v", err)
		}
		defer repo.Close()
		if _, err := repo.GetResult(ctx, "a"); err != nil {
			t.Errorf("GetResult() after reopen error = %v", err)
		}
	})
}

func TestRepository_Close(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if repo.Initialized() {
		t.Error("Initialized() = true after Close")
	}
	if _, err := repo.GetResult(context.Background(), "x"); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("GetResult() after Close error = %v, want ErrStorageUnavailable", err)
	}
}

func TestRepository_Results(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and get", func(t *testing.T) {
		repo := setupTestRepo(t)

		want := newResult("r1", "/in/show.s01e02.mkv", base)
		want.ExtractedName = "Show"
		want.ExtractedSeasonNumber = 1
		want.ExtractedEpisodeNumber = 2
		want.DuplicatePaths = []string{"/tv/Show/S01E02.mkv"}

		if err := repo.SaveResult(ctx, want); err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}

		got, err := repo.GetResult(ctx, "r1")
		if err != nil {
			t.Fatalf("GetResult() error = %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GetResult() = %+v, want %+v", got, want)
		}

		byPath, err := repo.FindByOriginalPath(ctx, want.OriginalPath)
		if err != nil {
			t.Fatalf("FindByOriginalPath() error = %v", err)
		}
		if byPath.ID != "r1" {
			t.Errorf("FindByOriginalPath().ID = %q, want r1", byPath.ID)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo := setupTestRepo(t)
		if _, err := repo.GetResult(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetResult() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update replaces", func(t *testing.T) {
		repo := setupTestRepo(t)
		res := newResult("r1", "/in/a.mkv", base)
		if err := repo.SaveResult(ctx, res); err != nil {
			t.Fatal(err)
		}
		res.Status = domain.StatusSuccess
		res.TargetPath = "/movies/a.mkv"
		if err := repo.SaveResult(ctx, res); err != nil {
			t.Fatal(err)
		}

		page, err := repo.GetResults(ctx, domain.ResultQuery{})
		if err != nil {
			t.Fatal(err)
		}
		if page.TotalRecordCount != 1 {
			t.Fatalf("TotalRecordCount = %d, want 1", page.TotalRecordCount)
		}
		if page.Items[0].Status != domain.StatusSuccess || page.Items[0].TargetPath != "/movies/a.mkv" {
			t.Errorf("result not updated: %+v", page.Items[0])
		}
	})

	t.Run("paging newest first", func(t *testing.T) {
		repo := setupTestRepo(t)
		for i, id := range []string{"a", "b", "c"} {
			res := newResult(id, "/in/"+id+".mkv", base.Add(time.Duration(i)*time.Hour))
			if err := repo.SaveResult(ctx, res); err != nil {
				t.Fatal(err)
			}
		}

		page, err := repo.GetResults(ctx, domain.ResultQuery{StartIndex: 1, Limit: 1})
		if err != nil {
			t.Fatalf("GetResults() error = %v", err)
		}
		if page.TotalRecordCount != 3 {
			t.Errorf("TotalRecordCount = %d, want 3", page.TotalRecordCount)
		}
		if len(page.Items) != 1 || page.Items[0].ID != "b" {
			t.Errorf("page = %+v, want [b]", page.Items)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo := setupTestRepo(t)
		for _, id := range []string{"a", "b"} {
			if err := repo.SaveResult(ctx, newResult(id, "/in/"+id, base)); err != nil {
				t.Fatal(err)
			}
		}

		if err := repo.DeleteResult(ctx, "a"); err != nil {
			t.Fatalf("DeleteResult() error = %v", err)
		}
		if _, err := repo.GetResult(ctx, "a"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("deleted result still present: %v", err)
		}

		if err := repo.DeleteAllResults(ctx); err != nil {
			t.Fatalf("DeleteAllResults() error = %v", err)
		}
		page, _ := repo.GetResults(ctx, domain.ResultQuery{})
		if page.TotalRecordCount != 0 {
			t.Errorf("TotalRecordCount = %d after DeleteAllResults, want 0", page.TotalRecordCount)
		}
	})
}

func TestRepository_SmartMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("save and list", func(t *testing.T) {
		repo := setupTestRepo(t)
		entries := []domain.SmartMatchResult{
			{ID: "2", ItemName: "Zeta", DisplayName: "Zeta", OrganizerType: domain.OrganizerEpisode, MatchStrings: []string{"zeta"}},
			{ID: "1", ItemName: "Alpha", DisplayName: "Alpha (2001)", OrganizerType: domain.OrganizerMovie, MatchStrings: []string{"alpha", "alpha.2001"}},
		}
		for _, e := range entries {
			if err := repo.SaveSmartMatch(ctx, e); err != nil {
				t.Fatalf("SaveSmartMatch() error = %v", err)
			}
		}

		page, err := repo.GetSmartMatch(ctx, domain.ResultQuery{})
		if err != nil {
			t.Fatalf("GetSmartMatch() error = %v", err)
		}
		if page.TotalRecordCount != 2 {
			t.Fatalf("TotalRecordCount = %d, want 2", page.TotalRecordCount)
		}
		if !reflect.DeepEqual(page.Items[0], entries[1]) {
			t.Errorf("first entry = %+v, want %+v", page.Items[0], entries[1])
		}
	})

	t.Run("delete match string", func(t *testing.T) {
		repo := setupTestRepo(t)
		entry := domain.SmartMatchResult{ID: "1", ItemName: "Alpha", DisplayName: "Alpha", OrganizerType: domain.OrganizerMovie, MatchStrings: []string{"a", "b"}}
		if err := repo.SaveSmartMatch(ctx, entry); err != nil {
			t.Fatal(err)
		}

		if err := repo.DeleteSmartMatchString(ctx, "1", "a"); err != nil {
			t.Fatalf("DeleteSmartMatchString() error = %v", err)
		}
		page, _ := repo.GetSmartMatch(ctx, domain.ResultQuery{})
		if got := page.Items[0].MatchStrings; !reflect.DeepEqual(got, []string{"b"}) {
			t.Errorf("MatchStrings = %v, want [b]", got)
		}

		if err := repo.DeleteSmartMatchString(ctx, "1", "b"); err != nil {
			t.Fatalf("DeleteSmartMatchString() error = %v", err)
		}
		page, _ = repo.GetSmartMatch(ctx, domain.ResultQuery{})
		if page.TotalRecordCount != 0 {
			t.Errorf("entry should be removed with its last match string, got %d entries", page.TotalRecordCount)
		}
	})

	t.Run("delete match string of missing entry", func(t *testing.T) {
		repo := setupTestRepo(t)
		if err := repo.DeleteSmartMatchString(ctx, "nope", "a"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("DeleteSmartMatchString() error = %v, want ErrNotFound", err)
		}
	})
}
