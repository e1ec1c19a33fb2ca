package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/bookshelf-backend/internal/domain"
	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

// BookFilter narrows book reads. Zero fields impose no constraint; set
// fields combine with AND.
type BookFilter struct {
	AuthorID *uuid.UUID
	Genre    string
}

type BookRepo interface {
	Create(dbc dbctx.Context, book *types.Book) (*types.Book, error)
	List(dbc dbctx.Context, filter BookFilter) ([]*types.Book, error)
	Count(dbc dbctx.Context, filter BookFilter) (int64, error)
	CountByAuthorIDs(dbc dbctx.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	repoLog := baseLog.With("repo", "BookRepo")
	return &bookRepo{db: db, log: repoLog}
}

// Create inserts the book and its genre index rows. The owning author must
// already exist; it is never written through this call.
func (br *bookRepo) Create(dbc dbctx.Context, book *types.Book) (*types.Book, error) {
	if err := dbc.DB(br.db).Omit("Author").Create(book).Error; err != nil {
		return nil, pkgerrors.ClassifyWrite("book", "title", book.Title, err)
	}
	return book, nil
}

func (br *bookRepo) List(dbc dbctx.Context, filter BookFilter) ([]*types.Book, error) {
	var results []*types.Book
	if err := br.filtered(dbc, filter).
		Preload("Author").
		Order("book.created_at ASC").
		Order("book.id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *bookRepo) Count(dbc dbctx.Context, filter BookFilter) (int64, error) {
	var count int64
	if err := br.filtered(dbc, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (br *bookRepo) CountByAuthorIDs(dbc dbctx.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := dbc.DB(br.db).
		Model(&types.Book{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.AuthorID] = r.Total
	}
	return out, nil
}

func (br *bookRepo) filtered(dbc dbctx.Context, filter BookFilter) *gorm.DB {
	q := dbc.DB(br.db).Model(&types.Book{})
	if filter.AuthorID != nil {
		q = q.Where("book.author_id = ?", *filter.AuthorID)
	}
	if filter.Genre != "" {
		q = q.Where("book.id IN (?)",
			dbc.DB(br.db).Model(&types.BookGenre{}).Select("book_id").Where("genre = ?", filter.Genre),
		)
	}
	return q
}
