package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/bookshelf-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bookshelf-backend/internal/domain"
	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

func TestBookRepoFilters(t *testing.T) {
	db := testutil.DB(t)
	repo := NewBookRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	martin := testutil.SeedAuthor(t, ctx, db, "Robert Martin", nil)
	fowler := testutil.SeedAuthor(t, ctx, db, "Martin Fowler", nil)

	cleanCode, err := repo.Create(dbc, &types.Book{
		Title:     "Clean Code",
		Published: 2008,
		AuthorID:  martin.ID,
		Genres:    []string{"refactoring", "agile"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedBook(t, ctx, db, martin, "Agile software development", 2002, "agile", "patterns", "design")
	testutil.SeedBook(t, ctx, db, fowler, "Refactoring, edition 2", 2018, "refactoring")

	all, err := repo.List(dbc, BookFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List: expected 3 books, got %d", len(all))
	}
	if all[0].ID != cleanCode.ID || all[0].Author == nil || all[0].Author.Name != "Robert Martin" {
		t.Fatalf("List: author not preloaded or order changed: %+v", all[0])
	}
	if got := []string(all[0].Genres); len(got) != 2 || got[0] != "refactoring" || got[1] != "agile" {
		t.Fatalf("List: genres order not preserved: %v", got)
	}

	byGenre, err := repo.List(dbc, BookFilter{Genre: "refactoring"})
	if err != nil {
		t.Fatalf("List genre: %v", err)
	}
	if len(byGenre) != 2 {
		t.Fatalf("List genre: expected 2 books, got %d", len(byGenre))
	}

	both, err := repo.List(dbc, BookFilter{AuthorID: &martin.ID, Genre: "agile"})
	if err != nil {
		t.Fatalf("List author+genre: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("List author+genre: expected 2 books, got %d", len(both))
	}

	none, err := repo.List(dbc, BookFilter{AuthorID: &fowler.ID, Genre: "agile"})
	if err != nil || len(none) != 0 {
		t.Fatalf("List author+genre (empty): got=%d err=%v", len(none), err)
	}

	partial, err := repo.List(dbc, BookFilter{Genre: "refact"})
	if err != nil || len(partial) != 0 {
		t.Fatalf("genre filter must be exact membership: got=%d err=%v", len(partial), err)
	}

	total, err := repo.Count(dbc, BookFilter{})
	if err != nil || total != 3 {
		t.Fatalf("Count: got=%d err=%v", total, err)
	}

	counts, err := repo.CountByAuthorIDs(dbc, []uuid.UUID{martin.ID, fowler.ID, uuid.New()})
	if err != nil {
		t.Fatalf("CountByAuthorIDs: %v", err)
	}
	if counts[martin.ID] != 2 || counts[fowler.ID] != 1 || len(counts) != 2 {
		t.Fatalf("CountByAuthorIDs: unexpected counts: %v", counts)
	}
}

func TestBookRepoRejectsInvalidBooks(t *testing.T) {
	db := testutil.DB(t)
	repo := NewBookRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	author := testutil.SeedAuthor(t, ctx, db, "Sandi Metz", nil)

	if _, err := repo.Create(dbc, &types.Book{Title: "Practical OOD", Published: 2012, AuthorID: author.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(dbc, &types.Book{Title: "Practical OOD", Published: 2013, AuthorID: author.ID})
	if !pkgerrors.IsDuplicate(err) {
		t.Fatalf("duplicate title: want duplicate rejection, got %v", err)
	}
	_, err = repo.Create(dbc, &types.Book{Title: "OOD", Published: 2012, AuthorID: author.ID})
	if !pkgerrors.IsValidation(err) {
		t.Fatalf("short title: want validation error, got %v", err)
	}

	total, err := repo.Count(dbc, BookFilter{})
	if err != nil || total != 1 {
		t.Fatalf("Count: got=%d err=%v", total, err)
	}
}

func TestBookRepoDuplicateGenresIndexedOnce(t *testing.T) {
	db := testutil.DB(t)
	repo := NewBookRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	author := testutil.SeedAuthor(t, ctx, db, "Agatha Christie", nil)

	if _, err := repo.Create(dbc, &types.Book{
		Title:     "Murder on the Orient Express",
		Published: 1934,
		AuthorID:  author.ID,
		Genres:    []string{"crime", "classic", "crime"},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	books, err := repo.List(dbc, BookFilter{Genre: "crime"})
	if err != nil || len(books) != 1 {
		t.Fatalf("book must appear exactly once: got=%d err=%v", len(books), err)
	}
	if len(books[0].Genres) != 3 {
		t.Fatalf("stored genres must keep the caller's list: %v", books[0].Genres)
	}
}
