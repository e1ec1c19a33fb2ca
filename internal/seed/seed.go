// Package seed loads a catalog fixture through the same services the API
// uses, so seeded rows obey every store constraint.
package seed

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/bookshelf-backend/internal/data/repos"
	types "github.com/yungbote/bookshelf-backend/internal/domain"
	"github.com/yungbote/bookshelf-backend/internal/domain/auth"
	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type Fixture struct {
	User    FixtureUser     `yaml:"user"`
	Authors []FixtureAuthor `yaml:"authors"`
	Books   []FixtureBook   `yaml:"books"`
}

type FixtureUser struct {
	Username      string `yaml:"username"`
	FavoriteGenre string `yaml:"favoriteGenre"`
}

type FixtureAuthor struct {
	Name string `yaml:"name"`
	Born *int   `yaml:"born"`
}

type FixtureBook struct {
	Title     string   `yaml:"title"`
	Author    string   `yaml:"author"`
	Published int      `yaml:"published"`
	Genres    []string `yaml:"genres"`
}

func Parse(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if f.User.Username == "" {
		return Fixture{}, fmt.Errorf("fixture user.username required")
	}
	return f, nil
}

type Result struct {
	BooksAdded     int
	BooksSkipped   int
	AuthorsUpdated int
}

type Seeder struct {
	log     *logger.Logger
	users   repos.UserRepo
	catalog services.CatalogService
	account services.UserService
}

func NewSeeder(log *logger.Logger, users repos.UserRepo, account services.UserService, catalog services.CatalogService) *Seeder {
	return &Seeder{log: log.With("component", "Seeder"), users: users, catalog: catalog, account: account}
}

// Apply is idempotent: existing users and titles are skipped, and author
// birth years are rewritten on every run.
func (s *Seeder) Apply(ctx context.Context, f Fixture) (Result, error) {
	var res Result

	principal, err := s.principal(ctx, f.User)
	if err != nil {
		return res, err
	}

	for _, b := range f.Books {
		_, err := s.catalog.AddBook(ctx, principal, services.AddBookInput{
			Title:     b.Title,
			Author:    b.Author,
			Published: b.Published,
			Genres:    b.Genres,
		})
		switch {
		case err == nil:
			res.BooksAdded++
		case apierr.IsKind(err, apierr.KindValidationFailed):
			s.log.Warn("Skipping book", "title", b.Title, "error", err)
			res.BooksSkipped++
		default:
			return res, fmt.Errorf("add book %q: %w", b.Title, err)
		}
	}

	for _, a := range f.Authors {
		if a.Born == nil {
			continue
		}
		if _, err := s.catalog.EditAuthor(ctx, principal, a.Name, *a.Born); err != nil {
			if apierr.IsKind(err, apierr.KindNotFound) {
				s.log.Warn("Author has no books in fixture; skipping", "author", a.Name)
				continue
			}
			return res, fmt.Errorf("edit author %q: %w", a.Name, err)
		}
		res.AuthorsUpdated++
	}

	s.log.Info("Seed applied", "books_added", res.BooksAdded, "books_skipped", res.BooksSkipped, "authors_updated", res.AuthorsUpdated)
	return res, nil
}

func (s *Seeder) principal(ctx context.Context, fu FixtureUser) (types.Principal, error) {
	existing, err := s.users.GetByUsername(dbctx.Context{Ctx: ctx}, fu.Username)
	if err != nil {
		return types.Principal{}, fmt.Errorf("lookup seed user: %w", err)
	}
	if existing != nil {
		return auth.Authenticated(existing), nil
	}
	created, err := s.account.CreateUser(ctx, services.CreateUserInput{
		Username:      fu.Username,
		FavoriteGenre: fu.FavoriteGenre,
	})
	if err != nil {
		return types.Principal{}, fmt.Errorf("create seed user: %w", err)
	}
	return auth.Authenticated(created), nil
}
