package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/bookshelf-backend/internal/data/repos"
	types "github.com/yungbote/bookshelf-backend/internal/domain"
	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

// addBookAttempts bounds the find-or-create unit. The second attempt only
// happens when a concurrent writer created the same author first.
const addBookAttempts = 2

// errAuthorRace signals that the author insert lost a uniqueness race.
var errAuthorRace = errors.New("author created concurrently")

type AddBookInput struct {
	Title     string
	Author    string
	Published int
	Genres    []string
}

// BookQuery filters allBooks. Author is an author id or an exact name.
type BookQuery struct {
	Author string
	Genre  string
}

type CatalogService interface {
	AddBook(ctx context.Context, principal types.Principal, in AddBookInput) (*types.Book, error)
	EditAuthor(ctx context.Context, principal types.Principal, name string, born int) (*types.Author, error)
	AllBooks(ctx context.Context, q BookQuery) ([]*types.Book, error)
	AllAuthors(ctx context.Context) ([]*types.Author, error)
	BookCount(ctx context.Context) (int64, error)
	AuthorCount(ctx context.Context) (int64, error)
}

type catalogService struct {
	db         *gorm.DB
	log        *logger.Logger
	authorRepo repos.AuthorRepo
	bookRepo   repos.BookRepo
	notifier   CatalogNotifier
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	authorRepo repos.AuthorRepo,
	bookRepo repos.BookRepo,
	notifier CatalogNotifier,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:         db,
		log:        serviceLog,
		authorRepo: authorRepo,
		bookRepo:   bookRepo,
		notifier:   notifier,
	}
}

func (cs *catalogService) AddBook(ctx context.Context, principal types.Principal, in AddBookInput) (*types.Book, error) {
	if principal.IsAnonymous() {
		return nil, apierr.Unauthenticated()
	}

	ctx, span := tracer.Start(ctx, "CatalogService.AddBook")
	defer span.End()
	span.SetAttributes(attribute.String("book.author", in.Author))

	var (
		book *types.Book
		err  error
	)
	for attempt := 1; attempt <= addBookAttempts; attempt++ {
		book, err = cs.addBookOnce(ctx, in)
		if !errors.Is(err, errAuthorRace) {
			break
		}
		cs.log.Debug("Author insert raced; retrying", "author", in.Author, "attempt", attempt)
	}
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		cs.log.Error("Add book failed", "title", in.Title, "error", err)
		return nil, apierr.Internal("adding book failed", err)
	}

	cs.log.Info("Book added", "book", book.ID, "author", book.AuthorID, "user_id", principal.UserID())
	cs.notifier.BookAdded(ctx, book)
	return book, nil
}

// addBookOnce resolves or creates the author and inserts the book as one
// transaction. Nothing it wrote survives a failure.
func (cs *catalogService) addBookOnce(ctx context.Context, in AddBookInput) (*types.Book, error) {
	var created *types.Book
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		author, err := cs.authorRepo.GetByName(dbc, in.Author)
		if err != nil {
			return fmt.Errorf("find author: %w", err)
		}
		if author == nil {
			author, err = cs.authorRepo.Create(dbc, &types.Author{Name: in.Author})
			switch {
			case err == nil:
			case pkgerrors.IsDuplicate(err):
				return errAuthorRace
			case pkgerrors.IsValidation(err):
				return validationFailed("Creating author failed", in.Author, err)
			default:
				return fmt.Errorf("create author: %w", err)
			}
		}

		book := &types.Book{
			Title:     in.Title,
			Published: in.Published,
			AuthorID:  author.ID,
			Genres:    datatypes.JSONSlice[string](append([]string{}, in.Genres...)),
		}
		if _, err := cs.bookRepo.Create(dbc, book); err != nil {
			if pkgerrors.IsValidation(err) {
				return validationFailed("Creating book failed", in.Title, err)
			}
			return fmt.Errorf("create book: %w", err)
		}
		book.Author = author
		created = book
		return nil
	})
	if err != nil {
		return nil, err
	}
	if counts, err := cs.bookRepo.CountByAuthorIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{created.AuthorID}); err == nil {
		created.Author.BookCount = counts[created.AuthorID]
	}
	return created, nil
}

func (cs *catalogService) EditAuthor(ctx context.Context, principal types.Principal, name string, born int) (*types.Author, error) {
	if principal.IsAnonymous() {
		return nil, apierr.Unauthenticated()
	}

	dbc := dbctx.Context{Ctx: ctx}
	author, err := cs.authorRepo.GetByName(dbc, name)
	if err != nil {
		cs.log.Error("Author lookup failed", "author", name, "error", err)
		return nil, apierr.Internal("editing author failed", err)
	}
	if author == nil {
		return nil, apierr.NotFound("Edit author born failed", name)
	}
	if err := cs.authorRepo.UpdateBorn(dbc, author, born); err != nil {
		if pkgerrors.IsValidation(err) {
			return nil, validationFailed("Edit author born failed", name, err)
		}
		cs.log.Error("Author update failed", "author", author.ID, "error", err)
		return nil, apierr.Internal("editing author failed", err)
	}
	if err := cs.fillBookCounts(ctx, []*types.Author{author}); err != nil {
		return nil, err
	}
	cs.log.Info("Author born updated", "author", author.ID, "user_id", principal.UserID())
	return author, nil
}

func (cs *catalogService) AllBooks(ctx context.Context, q BookQuery) ([]*types.Book, error) {
	dbc := dbctx.Context{Ctx: ctx}
	filter := repos.BookFilter{Genre: q.Genre}

	if author := strings.TrimSpace(q.Author); author != "" {
		if id, err := uuid.Parse(author); err == nil {
			filter.AuthorID = &id
		} else {
			found, err := cs.authorRepo.GetByName(dbc, author)
			if err != nil {
				return nil, apierr.Internal("listing books failed", err)
			}
			if found == nil {
				return []*types.Book{}, nil
			}
			filter.AuthorID = &found.ID
		}
	}

	books, err := cs.bookRepo.List(dbc, filter)
	if err != nil {
		cs.log.Error("List books failed", "error", err)
		return nil, apierr.Internal("listing books failed", err)
	}

	authors := make([]*types.Author, 0, len(books))
	for _, b := range books {
		if b.Author != nil {
			authors = append(authors, b.Author)
		}
	}
	if err := cs.fillBookCounts(ctx, authors); err != nil {
		return nil, err
	}
	return books, nil
}

func (cs *catalogService) AllAuthors(ctx context.Context) ([]*types.Author, error) {
	authors, err := cs.authorRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		cs.log.Error("List authors failed", "error", err)
		return nil, apierr.Internal("listing authors failed", err)
	}
	if err := cs.fillBookCounts(ctx, authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (cs *catalogService) BookCount(ctx context.Context) (int64, error) {
	n, err := cs.bookRepo.Count(dbctx.Context{Ctx: ctx}, repos.BookFilter{})
	if err != nil {
		return 0, apierr.Internal("counting books failed", err)
	}
	return n, nil
}

func (cs *catalogService) AuthorCount(ctx context.Context) (int64, error) {
	n, err := cs.authorRepo.Count(dbctx.Context{Ctx: ctx})
	if err != nil {
		return 0, apierr.Internal("counting authors failed", err)
	}
	return n, nil
}

// fillBookCounts sets the derived BookCount with one grouped query.
func (cs *catalogService) fillBookCounts(ctx context.Context, authors []*types.Author) error {
	if len(authors) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(authors))
	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		if !seen[a.ID] {
			seen[a.ID] = true
			ids = append(ids, a.ID)
		}
	}
	counts, err := cs.bookRepo.CountByAuthorIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		cs.log.Error("Counting books per author failed", "error", err)
		return apierr.Internal("counting books failed", err)
	}
	for _, a := range authors {
		a.BookCount = counts[a.ID]
	}
	return nil
}
