package library

import (
	"context"
	"testing"

	"github.com/spf13/afero"
)

func TestIndex_AddLookup(t *testing.T) {
	x := NewIndex(afero.NewMemMapFs(), nil, []string{"/movies"})
	ctx := context.Background()

	id, err := x.Add(ctx, "/movies/Alpha (2001)/Alpha.mkv")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if id == "" {
		t.Fatal("Add() returned empty ID")
	}

	again, _ := x.Add(ctx, "/movies/Alpha (2001)/./Alpha.mkv")
	if again != id {
		t.Errorf("re-adding the same path returned %q, want %q", again, id)
	}

	got, ok := x.Lookup("/movies/Alpha (2001)/Alpha.mkv")
	if !ok || got != id {
		t.Errorf("Lookup() = %q, %v; want %q, true", got, ok, id)
	}

	if !x.SetTitle(id, "Alpha") {
		t.Fatal("SetTitle() = false")
	}
	item, _ := x.Item(id)
	if item.Title != "Alpha" {
		t.Errorf("Title = %q, want Alpha", item.Title)
	}
}

func TestIndex_Refresh(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := NewIndex(fs, nil, []string{"/tv"})

	if err := afero.WriteFile(fs, "/tv/Show/S01E01.mkv", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/downloads/other.mkv", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	x.Refresh("/tv/Show/S01E01.mkv")
	x.Refresh("/tv/Show")
	x.Refresh("/downloads/other.mkv")

	items := x.Items()
	if len(items) != 1 || items[0].Path != "/tv/Show/S01E01.mkv" {
		t.Fatalf("Items() = %+v, want only the file inside the root", items)
	}

	if err := fs.Remove("/tv/Show/S01E01.mkv"); err != nil {
		t.Fatal(err)
	}
	x.Refresh("/tv/Show/S01E01.mkv")

	if _, ok := x.Lookup("/tv/Show/S01E01.mkv"); ok {
		t.Error("vanished file still indexed")
	}
}

func TestIndex_RootsIsACopy(t *testing.T) {
	x := NewIndex(afero.NewMemMapFs(), nil, []string{"/tv"})
	roots := x.Roots()
	roots[0] = "/changed"
	if x.Roots()[0] != "/tv" {
		t.Error("Roots() exposes internal slice")
	}
}
